package webos

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// inputSocket is the TV's dedicated pointer/button input channel.
//
// Button presses do not go through the SSAP request/response socket: the TV
// hands out a one-off websocket URL and expects plain-text frames of
// key:value lines on it.
type inputSocket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// dialInputSocket connects to the pointer input socket the TV handed out.
func dialInputSocket(ctx context.Context, dialer *websocket.Dialer, socketPath string) (*inputSocket, error) {
	// The TV reports wss:// paths even when the main channel is plaintext;
	// older firmware only accepts the plaintext form on the LAN.
	path := strings.Replace(socketPath, "wss://", "ws://", 1)
	path = strings.Replace(path, ":3001/", ":3000/", 1)

	conn, _, err := dialer.DialContext(ctx, path, nil)
	if err != nil {
		return nil, newConnError("input dial", err)
	}
	return &inputSocket{conn: conn}, nil
}

// sendButton writes one button-press frame.
//
// Frame format (text lines, blank-line terminated):
//
//	type:button
//	name:ENTER
func (s *inputSocket) sendButton(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return &ConnError{Op: "button", Kind: KindClosed, Err: ErrNotConnected}
	}

	if deadline, ok := ctx.Deadline(); ok {
		s.conn.SetWriteDeadline(deadline)
	}

	frame := fmt.Sprintf("type:button\nname:%s\n\n", key)
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return newConnError("button", err)
	}
	return nil
}

// close tears down the input socket. Errors are ignored: the socket is
// tied to the main connection's lifetime and the TV closes it unilaterally.
func (s *inputSocket) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
