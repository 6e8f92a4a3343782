package main

import (
	"context"
	"log"

	"github.com/codecrypto/cbt-marketplace/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("cbt marketplace api: %v", err)
	}
}
