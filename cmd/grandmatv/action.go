package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:   "action <name>",
	Short: "Run a single action against the TV and exit",
	Long: `Run one named action: a channel macro, turn_on, or turn_off.

The command blocks until the action finishes, which can take half a minute
when the TV needs waking, and prints the outcome.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		service := buildService(cfg, log)

		msg, err := service.Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available action names",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		service := buildService(cfg, newLogger(cfg))

		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(service.Actions(), "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(listCmd)
}
