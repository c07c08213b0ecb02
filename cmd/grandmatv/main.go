// GrandmaTV - one-tap remote control for a webOS television.
//
// The controller sits on a small machine on grandma's network and turns
// single-intent commands ("put channel 1 on") into the full dance the TV
// needs: wake it if asleep, pair, launch the streaming app, navigate its
// menus. Front-ends: this CLI, a web remote page, a Telegram bot, and MQTT.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	// Cancel on interrupt signals so serve/bot shut down gracefully and a
	// CLI command mid-wake aborts cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := execute(ctx)
	cancel()
	os.Exit(code)
}
