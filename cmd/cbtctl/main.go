package main

import (
	"os"

	"github.com/codecrypto/cbt-marketplace/cmd/cbtctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
