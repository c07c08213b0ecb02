package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/logging"
)

// Exit codes. Scripts and systemd unit files key off these.
const (
	exitOK      = 0
	exitError   = 1
	exitBusy    = 2
	exitUnknown = 3
)

// Default configuration paths. The example file ships with the repo so a
// fresh checkout runs without any setup beyond editing the TV address.
const (
	defaultConfigPath  = "config.yml"
	fallbackConfigPath = "config.yml.example"
)

var rootCmd = &cobra.Command{
	Use:   "grandmatv",
	Short: "Remote control for grandma's webOS TV",
	Long: `grandmatv turns one-tap commands into full TV control sequences:
wake the TV if it is asleep, pair, launch the streaming app, and navigate
to the requested channel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// execute runs the root command and converts the outcome into an exit code.
func execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code, ok := exitCodeFor(err); ok {
			return code
		}
		return exitError
	}
	return exitOK
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Path to the configuration file")
}

// loadConfig loads the configuration honouring the --config flag. When the
// flag is left at its default and config.yml does not exist yet, the shipped
// example file is used instead.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if !cmd.Flags().Changed("config") && path == defaultConfigPath {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			path = fallbackConfigPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the configured logger.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(cfg.Logging, version)
}
