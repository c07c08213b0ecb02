package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Martin09/GrandmaTVController/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot front-end",
	Long: `Start the Telegram bot so family members can control the TV from
their phones. Requires telegram.bot_token and at least one entry in
telegram.allowed_chat_ids. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		service := buildService(cfg, log)

		bot, err := telegram.New(cfg.Telegram, service, log.With("component", "telegram"))
		if err != nil {
			return fmt.Errorf("creating telegram bot: %w", err)
		}

		if err := bot.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("running telegram bot: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
