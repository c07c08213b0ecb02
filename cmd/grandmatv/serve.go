package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Martin09/GrandmaTVController/internal/api"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/mqtt"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web remote and, if enabled, the MQTT front-end",
	Long: `Start the long-running controller: the web remote page on the
configured address, Prometheus metrics, and the MQTT command listener when
a broker is configured. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		log.Info("starting controller", "version", version, "commit", commit, "build_date", date)

		service := buildService(cfg, log)

		server, err := api.New(api.Deps{
			Config:    cfg.Web,
			Logger:    log.With("component", "web"),
			Commander: service,
			Metrics:   cfg.Metrics.Enabled,
			Version:   version,
		})
		if err != nil {
			return fmt.Errorf("creating web server: %w", err)
		}
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("starting web server: %w", err)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing web server", "error", closeErr)
			}
		}()

		if cfg.MQTT.Enabled {
			broker, err := mqtt.Connect(cfg.MQTT, log.With("component", "mqtt"))
			if err != nil {
				return fmt.Errorf("connecting to MQTT broker: %w", err)
			}
			defer func() {
				if closeErr := broker.Close(); closeErr != nil {
					log.Error("error closing MQTT client", "error", closeErr)
				}
			}()

			listener := mqtt.NewListener(broker, service, byte(cfg.MQTT.QoS), log.With("component", "mqtt"))
			if err := listener.Start(ctx); err != nil {
				return fmt.Errorf("starting MQTT listener: %w", err)
			}
		}

		log.Info("controller running")
		<-ctx.Done()
		log.Info("shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
