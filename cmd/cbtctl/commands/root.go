// Package commands implements cbtctl, the operator CLI of the marketplace.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/codecrypto/cbt-marketplace/internal/app/api"
	"github.com/codecrypto/cbt-marketplace/internal/platform/observability"
)

var (
	container *api.Container
	verbose   bool
)

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd wires the marketplace once per invocation and closes it after
// the subcommand returns.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cbtctl",
		Short:         "Operate the CBT marketplace",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := api.LoadConfig()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(cfg.LogLevel)
			if !verbose {
				logger = observability.Discard()
			}
			container, err = api.Build(cmd.Context(), cfg, &observability.Instruments{Logger: logger}, api.BuildOptions{ServiceName: "cbtctl"})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if container != nil {
				container.Close()
				container = nil
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log wiring decisions to stdout")

	root.AddCommand(productsCmd(), invoicesCmd(), ordersCmd(), mintCmd(), purgeCmd())
	return root
}
