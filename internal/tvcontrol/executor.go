package tvcontrol

import (
	"context"
	"fmt"
	"time"
)

// Executor runs an ordered action sequence against a session.
type Executor struct {
	logger Logger
}

// NewExecutor creates an Executor.
//
// Parameters:
//   - logger: Logger instance (may be nil)
func NewExecutor(logger Logger) *Executor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Executor{logger: logger}
}

// Run connects the session and executes the sequence in order.
//
// For each step it issues exactly one device call, then suspends for the
// step's PostDelay (skipped when zero). Any step failure aborts the
// remaining sequence immediately and propagates the error; there is no
// rollback, a pressed button cannot be un-pressed. Once connected, the
// session is disconnected best-effort on every exit, success or failure.
//
// Parameters:
//   - ctx: Context for cancellation; aborts between steps and during delays
//   - session: The session to drive (connected by this call)
//   - sequence: Ordered steps to execute
//
// Returns:
//   - error: nil on success, or the first step/connect failure
func (e *Executor) Run(ctx context.Context, session Session, sequence Sequence) error {
	if err := session.Connect(ctx); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer session.Disconnect()

	e.logger.Info("starting action sequence", "steps", len(sequence))

	for i, step := range sequence {
		switch step.Kind {
		case StepApp:
			e.logger.Debug("launching app", "step", i+1, "app", step.Value)
			if err := session.SendApp(ctx, step.Value); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		case StepButton:
			e.logger.Debug("pressing button", "step", i+1, "button", step.Value)
			if err := session.SendButton(ctx, step.Value); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		default:
			// Catalogs are validated at construction; an unknown kind here
			// means the sequence bypassed NewCatalog.
			return fmt.Errorf("%w: step %d has kind %q", ErrInvalidStep, i+1, step.Kind)
		}

		if step.PostDelay > 0 {
			if err := pause(ctx, step.PostDelay); err != nil {
				return fmt.Errorf("step %d: delay interrupted: %w", i+1, err)
			}
		}
	}

	e.logger.Info("sequence complete")
	return nil
}

// pause suspends for d or until the context is cancelled.
func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
