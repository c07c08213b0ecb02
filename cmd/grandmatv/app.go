package main

import (
	"errors"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/logging"
	"github.com/Martin09/GrandmaTVController/internal/keystore"
	"github.com/Martin09/GrandmaTVController/internal/tvcontrol"
	"github.com/Martin09/GrandmaTVController/internal/webos"
	"github.com/Martin09/GrandmaTVController/internal/wol"
)

// buildService wires the full command path: key store, Wake-on-LAN,
// webOS session factory, catalog, orchestrator, and the gated service.
// Every front-end shares the one service this returns.
func buildService(cfg *config.Config, log *logging.Logger) *tvcontrol.Service {
	store := keystore.New(cfg.Path)
	waker := wol.New(log.With("component", "wol"))
	sessionLog := log.With("component", "session")

	// A fresh session per attempt, with the key read at session creation
	// so a key persisted by an earlier attempt is picked up by the next.
	factory := func(device tvcontrol.Device) tvcontrol.Session {
		key, _, err := store.Load()
		if err != nil {
			sessionLog.Warn("could not read stored pairing key, TV will prompt to pair", "error", err)
		}
		client := webos.New(webos.Config{
			Host:           device.IP,
			Port:           cfg.TV.Port,
			ClientKey:      key,
			ConnectTimeout: cfg.GetConnectTimeout(),
		})
		return tvcontrol.NewSession(client, store, key, sessionLog)
	}

	catalog := tvcontrol.DefaultCatalog()
	orchestrator := tvcontrol.NewOrchestrator(catalog, factory, waker, log.With("component", "orchestrator"))
	device := tvcontrol.Device{IP: cfg.TV.IP, MAC: cfg.TV.MAC}

	return tvcontrol.NewService(orchestrator, catalog, device, log.With("component", "service"))
}

// exitCodeFor maps service errors to CLI exit codes.
func exitCodeFor(err error) (int, bool) {
	switch {
	case errors.Is(err, tvcontrol.ErrBusy):
		return exitBusy, true
	case errors.Is(err, tvcontrol.ErrUnknownAction):
		return exitUnknown, true
	default:
		return 0, false
	}
}
