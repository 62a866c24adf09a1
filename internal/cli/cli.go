package cli

import (
	"github.com/spf13/cobra"

	"github.com/codewandler/lrukv/internal/cli/get"
	"github.com/codewandler/lrukv/internal/cli/health"
	"github.com/codewandler/lrukv/internal/cli/put"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lrukv-cli",
		Short:         "Command line client for the lrukv cache service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("addr", "http://localhost:7171", "Base URL of the lrukv HTTP service")
	cmd.PersistentFlags().Duration("timeout", 0, "Request timeout (default 10s)")

	cmd.AddCommand(put.NewPutCmd(), get.NewGetCmd(), health.NewHealthCmd())
	return cmd
}
