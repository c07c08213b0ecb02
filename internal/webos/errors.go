package webos

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/gorilla/websocket"
)

// ConnKind categorises a connection failure. The retry orchestrator's
// failure classifier branches on this: every kind here is consistent with
// the TV being powered off or asleep, except KindRejected which means the
// TV answered and refused us.
type ConnKind string

const (
	// KindRefused means the TCP connection was refused or could not be made.
	KindRefused ConnKind = "refused"

	// KindTimeout means a dial, handshake, or request exceeded its deadline.
	KindTimeout ConnKind = "timeout"

	// KindHandshake means the websocket or SSAP handshake was malformed or
	// interrupted. A half-booted or sleeping TV produces these.
	KindHandshake ConnKind = "handshake"

	// KindClosed means the channel dropped mid-conversation.
	KindClosed ConnKind = "closed"

	// KindRejected means the TV actively rejected the registration
	// (pairing denied on screen). The TV is clearly awake.
	KindRejected ConnKind = "rejected"
)

// ConnError is the typed connection error raised by the webOS client.
// Callers classify it by Kind rather than by matching error strings.
type ConnError struct {
	// Op names the operation that failed (dial, register, request, button).
	Op string

	// Kind categorises the failure.
	Kind ConnKind

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webos: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("webos: %s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ConnError) Unwrap() error {
	return e.Err
}

// ErrNotConnected is returned when an operation requires an established,
// registered connection and there is none.
var ErrNotConnected = errors.New("webos: not connected")

// newConnError wraps err as a ConnError, inferring the kind from the
// underlying network error where possible.
func newConnError(op string, err error) *ConnError {
	return &ConnError{Op: op, Kind: inferKind(err), Err: err}
}

// inferKind maps a raw transport error onto a ConnKind.
func inferKind(err error) ConnKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, net.ErrClosed):
		return KindClosed
	case errors.Is(err, websocket.ErrBadHandshake):
		return KindHandshake
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if websocket.IsUnexpectedCloseError(err) {
		return KindClosed
	}

	// Unknown socket-level failures read as the TV being unreachable.
	return KindRefused
}
