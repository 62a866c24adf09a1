package put

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewandler/lrukv/internal/cli/util"
)

func NewPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Store a key-value pair",
		Long: `Put stores a value under a key, replacing any previous value.

Arguments:
  key   - at most 256 characters
  value - at most 256 characters`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := util.NewClient(cmd.Flags())
			if err != nil {
				return err
			}
			if err := c.Put(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}
