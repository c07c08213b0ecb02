package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Send a Wake-on-LAN burst to the TV",
	Long: `Send the wake burst without running any action. Equivalent to
"grandmatv action turn_on".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		service := buildService(cfg, newLogger(cfg))

		msg, err := service.Wake(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wakeCmd)
}
