package tvcontrol

import "time"

// StepKind discriminates the two things a sequence step can do.
type StepKind string

const (
	// StepApp launches an application by its webOS app ID.
	StepApp StepKind = "APP"

	// StepButton presses a remote-control button.
	StepButton StepKind = "BTN"
)

// ActionStep is one entry in a command sequence: launch an app or press a
// button, then wait PostDelay before the next step. Steps are immutable
// once a catalog is built.
type ActionStep struct {
	// Kind selects app launch or button press.
	Kind StepKind

	// Value is the app ID (StepApp) or button name (StepButton).
	Value string

	// PostDelay is how long to wait after this step before the next one,
	// modelling UI transition latency on the TV. Zero means proceed
	// immediately with no suspension.
	PostDelay time.Duration
}

// Sequence is an ordered list of steps. Order is significant and preserved
// exactly during execution: no reordering, no deduplication.
type Sequence []ActionStep

// Device identifies one television. It is owned by the caller and passed
// into every orchestrator invocation; the orchestrator holds no device
// state between calls.
type Device struct {
	// IP is the TV's network address.
	IP string

	// MAC is the TV's hardware address, required for Wake-on-LAN.
	MAC string
}

// SessionState tracks a session's connection lifecycle.
type SessionState int

const (
	// StateDisconnected is the initial and final state.
	StateDisconnected SessionState = iota

	// StateConnecting covers the dial + registration handshake.
	StateConnecting

	// StateConnected means authentication succeeded and commands may flow.
	StateConnected
)

// String returns the state name for logging.
func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Logger is the minimal logging interface this package needs.
// Compatible with logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all records; used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
