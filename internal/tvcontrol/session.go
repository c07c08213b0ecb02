package tvcontrol

import (
	"context"
	"errors"
	"fmt"

	"github.com/Martin09/GrandmaTVController/internal/webos"
)

// Channel is the opaque remote-control client capability a session drives.
// The webos.Client satisfies this; tests substitute fakes.
type Channel interface {
	// Connect dials the device and completes authentication/pairing.
	Connect(ctx context.Context) error

	// ClientKey returns the pairing key the device most recently reported.
	ClientKey() string

	// LaunchApp launches an application by ID.
	LaunchApp(ctx context.Context, appID string) error

	// Button presses a remote-control button.
	Button(ctx context.Context, key string) error

	// PowerOff asks the device to turn itself off.
	PowerOff(ctx context.Context) error

	// Disconnect closes the channel.
	Disconnect() error
}

// KeyStore persists a freshly issued pairing key.
type KeyStore interface {
	Save(key string) error
}

// Session owns the connection to one device for one command execution.
//
// A session is created per top-level invocation, used for exactly one
// sequence run, and torn down afterwards. Sessions are never reused across
// a wake boundary: the underlying transport state is assumed invalid.
type Session interface {
	Connect(ctx context.Context) error
	SendApp(ctx context.Context, appID string) error
	SendButton(ctx context.Context, key string) error
	PowerOff(ctx context.Context) error
	Disconnect()
	State() SessionState
}

// deviceSession is the production Session backed by a Channel.
type deviceSession struct {
	channel Channel
	store   KeyStore
	key     string // last-known pairing key
	state   SessionState
	logger  Logger
}

// NewSession creates a Session over the given channel.
//
// Parameters:
//   - channel: The remote-control client (webos.Client in production)
//   - store: Key store for persisting a freshly issued pairing key
//   - heldKey: The pairing key known at session creation (may be empty)
//   - logger: Logger instance (may be nil)
//
// Returns:
//   - Session: Ready to connect
func NewSession(channel Channel, store KeyStore, heldKey string, logger Logger) Session {
	if logger == nil {
		logger = noopLogger{}
	}
	return &deviceSession{
		channel: channel,
		store:   store,
		key:     heldKey,
		logger:  logger,
	}
}

// Connect establishes the channel and performs authentication.
//
// It is idempotent: a no-op when already connected. On success it compares
// the key reported by the live connection against the held key; a changed
// key is the new ground truth and is persisted immediately — before any
// sequence step executes — so a later step failure cannot lose it. A
// persistence failure is logged but does not fail the connect: the device
// is already controlled, and losing the key only forces a re-pair on the
// next connection.
func (s *deviceSession) Connect(ctx context.Context) error {
	if s.state == StateConnected {
		return nil
	}

	s.state = StateConnecting
	if err := s.channel.Connect(ctx); err != nil {
		s.state = StateDisconnected
		return err
	}
	s.state = StateConnected

	if current := s.channel.ClientKey(); current != "" && current != s.key {
		s.logger.Info("new pairing key issued by TV")
		if s.store != nil {
			if err := s.store.Save(current); err != nil {
				s.logger.Error("failed to persist pairing key; re-pairing will be required next time",
					"error", err,
				)
			}
		}
		s.key = current
	}

	return nil
}

// SendApp launches an application. The session must be connected.
func (s *deviceSession) SendApp(ctx context.Context, appID string) error {
	if s.state != StateConnected {
		return ErrNotConnected
	}
	if err := s.channel.LaunchApp(ctx, appID); err != nil {
		return fmt.Errorf("launching app %q: %w", appID, err)
	}
	return nil
}

// SendButton presses a button. The session must be connected.
func (s *deviceSession) SendButton(ctx context.Context, key string) error {
	if s.state != StateConnected {
		return ErrNotConnected
	}
	if err := s.channel.Button(ctx, key); err != nil {
		return fmt.Errorf("pressing button %q: %w", key, err)
	}
	return nil
}

// PowerOff asks the device to turn itself off. The session must be connected.
func (s *deviceSession) PowerOff(ctx context.Context) error {
	if s.state != StateConnected {
		return ErrNotConnected
	}
	return s.channel.PowerOff(ctx)
}

// Disconnect closes the channel if connected.
//
// The TV may deliberately reset the connection rather than acknowledge the
// close, so channel close errors are logged at debug and swallowed.
func (s *deviceSession) Disconnect() {
	if s.state != StateConnected {
		return
	}
	s.state = StateDisconnected

	if err := s.channel.Disconnect(); err != nil {
		var connErr *webos.ConnError
		if errors.As(err, &connErr) || errors.Is(err, webos.ErrNotConnected) {
			s.logger.Debug("TV closed the channel abruptly during disconnect", "error", err)
			return
		}
		s.logger.Debug("error closing channel", "error", err)
	}
}

// State returns the session's connection state.
func (s *deviceSession) State() SessionState {
	return s.state
}
