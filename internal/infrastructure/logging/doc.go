// Package logging provides structured logging for the GrandmaTV controller.
//
// It wraps the standard library's log/slog with configuration-driven setup:
// level filtering, JSON or text output, and default service/version fields
// attached to every record.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("command started", "action", "channel_1")
//
//	webLog := log.With("component", "web")
package logging
