package tvcontrol

import (
	"context"
	"fmt"
)

// Service is the front door every front-end talks to. It binds the gate,
// the orchestrator, the catalog and the configured device into a single
// Execute call so the CLI, web server, Telegram bot and MQTT listener all
// share one concurrency policy and one device.
type Service struct {
	gate         *Gate
	orchestrator *Orchestrator
	catalog      *Catalog
	device       Device
	logger       Logger
}

// NewService wires a Service.
func NewService(orchestrator *Orchestrator, catalog *Catalog, device Device, logger Logger) *Service {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{
		gate:         NewGate(),
		orchestrator: orchestrator,
		catalog:      catalog,
		device:       device,
		logger:       logger,
	}
}

// Actions lists every executable action name, synthetic power actions first.
func (s *Service) Actions() []string {
	return s.catalog.Names()
}

// Execute runs a named action against the configured device.
//
// Parameters:
//   - ctx: cancels the command
//   - actionName: catalog name or synthetic turn_on / turn_off
//
// Returns:
//   - string: human-readable outcome when the command ran
//   - error: ErrUnknownAction before any device traffic, or ErrBusy when
//     another command holds the gate; nil otherwise
func (s *Service) Execute(ctx context.Context, actionName string) (string, error) {
	if !s.catalog.Knows(actionName) {
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, actionName)
	}
	if !s.gate.TryAcquire() {
		busyRejectionsTotal.Inc()
		s.logger.Warn("command rejected, another command running", "action", actionName)
		return "", ErrBusy
	}
	defer s.gate.Release()

	return s.orchestrator.ExecuteWithRetry(ctx, actionName, s.device), nil
}

// Wake sends a bare wake burst without touching the gate's command path.
// It still takes the gate so a wake cannot interleave with a sequence.
func (s *Service) Wake(ctx context.Context) (string, error) {
	if !s.gate.TryAcquire() {
		busyRejectionsTotal.Inc()
		return "", ErrBusy
	}
	defer s.gate.Release()

	return s.orchestrator.ExecuteWithRetry(ctx, ActionTurnOn, s.device), nil
}
