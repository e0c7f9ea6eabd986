package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the remaining SlipOK verification quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newSlipOK().Quota(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("SlipOK quota: %d\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}
