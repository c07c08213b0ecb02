package tvcontrol

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/Martin09/GrandmaTVController/internal/webos"
)

// IsUnreachable reports whether err is consistent with the TV being
// powered off or asleep, making a wake-and-retry cycle worth attempting.
//
// Unreachable-shaped: connection refused, timeouts, generic socket I/O
// failures, abrupt closes, and malformed transport handshakes — a
// half-booted TV produces all of these. Not unreachable: pairing
// rejections (the TV answered), unknown actions, configuration and
// persistence errors — waking the device cannot fix those, and retrying
// wastes the 12-second wake window.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}

	var connErr *webos.ConnError
	if errors.As(err, &connErr) {
		// A rejection means the TV is awake and said no.
		return connErr.Kind != webos.KindRejected
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EPIPE):
		return true
	case errors.Is(err, ErrNotConnected):
		// The channel dropped out from under the session mid-sequence.
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}
