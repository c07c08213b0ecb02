package tvcontrol

import (
	"context"
	"fmt"
	"time"
)

// Default orchestrator timings. Exported as fields on Orchestrator so tests
// can shrink them; production code never changes them.
const (
	// defaultRetrySettle is the extra pause after a wake burst before the
	// single retry attempt. The wake itself already blocks for the waker's
	// settle window; this covers the last stretch of webOS boot where the
	// TV accepts TCP but not yet SSAP registration.
	defaultRetrySettle = 2 * time.Second

	// defaultMaxExecution bounds a single command end to end, wake and
	// retry included. Channel sequences spend most of their budget in app
	// start-up delays, so the ceiling is generous.
	defaultMaxExecution = 3 * time.Minute
)

// Waker sends a wake burst to a sleeping device and waits for it to boot.
// *wol.Waker satisfies it.
type Waker interface {
	Wake(ctx context.Context, hardwareAddr, networkAddr string) error
}

// SessionFactory builds a fresh Session for a device. A new session is
// created per attempt so a retry after wake never reuses a connection that
// died with the sleeping TV.
type SessionFactory func(device Device) Session

// Orchestrator runs named actions against a device and turns every outcome,
// including panics, into a human-readable status line. It owns the
// wake-then-retry policy:
//
//   - a failed sequence is retried at most once, and only after a wake
//     burst, and only when the failure looked like an unreachable device
//   - turn_off against an unreachable device is reported as success, since
//     the desired end state already holds
//   - turn_on is a bare wake burst with no session at all
//
// ExecuteWithRetry never returns an error and never panics outward; callers
// relay the string to whoever asked (terminal, HTTP body, chat message).
type Orchestrator struct {
	catalog  *Catalog
	factory  SessionFactory
	executor *Executor
	waker    Waker
	logger   Logger

	// RetrySettle is the pause between a successful wake and the retry.
	RetrySettle time.Duration

	// MaxExecution caps one ExecuteWithRetry invocation. Zero disables
	// the cap.
	MaxExecution time.Duration
}

// NewOrchestrator wires an Orchestrator with default timings.
//
// Parameters:
//   - catalog: named action sequences
//   - factory: builds a session per attempt
//   - waker: Wake-on-LAN sender
//   - logger: structured logger; nil falls back to a no-op
func NewOrchestrator(catalog *Catalog, factory SessionFactory, waker Waker, logger Logger) *Orchestrator {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Orchestrator{
		catalog:      catalog,
		factory:      factory,
		executor:     NewExecutor(logger),
		waker:        waker,
		logger:       logger,
		RetrySettle:  defaultRetrySettle,
		MaxExecution: defaultMaxExecution,
	}
}

// ExecuteWithRetry runs the named action against the device and returns a
// status message describing what happened. It never returns an error and
// never panics: unexpected failures are caught and reported in the message.
//
// Parameters:
//   - ctx: cancels the whole invocation, wake and retry included
//   - actionName: catalog name or one of the synthetic turn_on / turn_off
//   - device: target addresses
//
// Returns:
//   - string: human-readable outcome, success or failure
func (o *Orchestrator) ExecuteWithRetry(ctx context.Context, actionName string, device Device) (result string) {
	start := time.Now()
	outcome := outcomeError
	metricAction := actionName
	if !o.catalog.Knows(actionName) {
		metricAction = "unknown"
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic during command execution",
				"action", actionName,
				"panic", r,
			)
			outcome = outcomeError
			result = fmt.Sprintf("Unexpected error: %v", r)
		}
		commandsTotal.WithLabelValues(metricAction, outcome).Inc()
		commandDuration.Observe(time.Since(start).Seconds())
	}()

	if o.MaxExecution > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.MaxExecution)
		defer cancel()
	}

	switch actionName {
	case ActionTurnOff:
		result, outcome = o.turnOff(ctx, device)
		return result
	case ActionTurnOn:
		result, outcome = o.turnOn(ctx, device)
		return result
	}

	seq, ok := o.catalog.Sequence(actionName)
	if !ok {
		o.logger.Warn("unknown action requested", "action", actionName)
		outcome = outcomeUnknown
		return fmt.Sprintf("Unknown action: %s", actionName)
	}

	o.logger.Info("executing action", "action", actionName, "steps", len(seq))
	err := o.executor.Run(ctx, o.factory(device), seq)
	if err == nil {
		outcome = outcomeOK
		return fmt.Sprintf("Action '%s' completed successfully!", actionName)
	}

	if !IsUnreachable(err) {
		o.logger.Error("action failed", "action", actionName, "error", err)
		return fmt.Sprintf("Action '%s' failed: %v", actionName, err)
	}

	// The device looked asleep. Wake it and retry exactly once.
	o.logger.Info("device unreachable, attempting wake",
		"action", actionName,
		"error", err,
	)
	if wakeErr := o.wake(ctx, device); wakeErr != nil {
		o.logger.Error("wake failed", "action", actionName, "error", wakeErr)
		return fmt.Sprintf("TV is off and Wake-on-LAN failed: %v", wakeErr)
	}
	if pauseErr := pause(ctx, o.RetrySettle); pauseErr != nil {
		return fmt.Sprintf("TV was woken but action failed: %v", pauseErr)
	}

	err = o.executor.Run(ctx, o.factory(device), seq)
	if err == nil {
		outcome = outcomeOK
		return fmt.Sprintf("TV was woken up. Action '%s' completed successfully!", actionName)
	}
	o.logger.Error("action failed after wake", "action", actionName, "error", err)
	return fmt.Sprintf("TV was woken but action failed: %v", err)
}

// turnOff powers the device down. An unreachable device already satisfies
// the caller's intent, so that case is reported as success.
func (o *Orchestrator) turnOff(ctx context.Context, device Device) (string, string) {
	session := o.factory(device)
	err := session.Connect(ctx)
	if err == nil {
		err = session.PowerOff(ctx)
		session.Disconnect()
	}
	switch {
	case err == nil:
		o.logger.Info("device powered off")
		return "TV turned off.", outcomeOK
	case IsUnreachable(err):
		o.logger.Info("power off skipped, device unreachable", "error", err)
		return "TV is already off or unreachable.", outcomeOK
	default:
		o.logger.Error("power off failed", "error", err)
		return fmt.Sprintf("Failed to turn off TV: %v", err), outcomeError
	}
}

// turnOn is wake-only. No session is opened and no retry applies.
func (o *Orchestrator) turnOn(ctx context.Context, device Device) (string, string) {
	if err := o.wake(ctx, device); err != nil {
		o.logger.Error("wake failed", "error", err)
		return fmt.Sprintf("Failed to wake TV: %v", err), outcomeError
	}
	return "TV Wake-on-LAN sent.", outcomeOK
}

func (o *Orchestrator) wake(ctx context.Context, device Device) error {
	wakeSignalsTotal.Inc()
	return o.waker.Wake(ctx, device.MAC, device.IP)
}
