package cmd

import (
	"fmt"

	"github.com/billbatista/acasinha-splits/middleware"
	"github.com/spf13/cobra"
)

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token <token>",
	Short: "Print the bcrypt hash to put in api_token_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := middleware.HashToken(args[0])
		if err != nil {
			return fmt.Errorf("hashing token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashTokenCmd)
}
