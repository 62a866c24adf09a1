package health

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewandler/lrukv/internal/cli/util"
)

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := util.NewClient(cmd.Flags())
			if err != nil {
				return err
			}
			h, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.Status)
			return nil
		},
	}
}
