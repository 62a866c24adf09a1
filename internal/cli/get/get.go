package get

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewandler/lrukv/internal/cli/util"
	"github.com/codewandler/lrukv/ports/kv"
)

func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Retrieve the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := util.NewClient(cmd.Flags())
			if err != nil {
				return err
			}
			value, err := c.Get(cmd.Context(), args[0])
			if errors.Is(err, kv.ErrNotFound) {
				return fmt.Errorf("key %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}
