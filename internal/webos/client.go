package webos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// defaultConnectTimeout bounds the dial + register handshake when the
// context carries no deadline of its own.
const defaultConnectTimeout = 10 * time.Second

// Config holds the settings for one TV connection.
type Config struct {
	// Host is the TV's IP address or hostname.
	Host string

	// Port is the SSAP websocket port. Default: 3000
	Port int

	// ClientKey is the stored pairing key; empty triggers the TV's pairing
	// prompt during registration.
	ClientKey string

	// ConnectTimeout bounds dial and handshake operations.
	ConnectTimeout time.Duration
}

// Client is a webOS SSAP client over a websocket connection.
//
// A Client drives exactly one connection: dial, register (pairing), then
// request/response traffic, then close. It is not safe for concurrent use —
// the controller serialises all TV traffic behind a command gate, and the
// SSAP conversation is strictly request/response.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	input     *inputSocket
	connected bool
	clientKey string
	reqSeq    int
}

// New creates a Client for the TV described by cfg.
//
// The client does not connect until Connect is called.
func New(cfg Config) *Client {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &Client{
		cfg:       cfg,
		clientKey: cfg.ClientKey,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.ConnectTimeout,
		},
	}
}

// Connect dials the TV and performs the SSAP register handshake.
//
// If the client holds a pairing key the TV registers silently; otherwise the
// TV shows its pairing prompt and registration completes once the user
// accepts. The key the TV reports (new or existing) is retrievable via
// ClientKey afterwards.
//
// Connect is a no-op when already connected.
//
// Parameters:
//   - ctx: Context for cancellation and deadline
//
// Returns:
//   - error: nil on success, or a *ConnError describing the failure
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)}
	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return newConnError("dial", err)
	}
	c.conn = conn

	if err := c.register(ctx); err != nil {
		conn.Close()
		c.conn = nil
		return err
	}

	c.connected = true
	return nil
}

// register performs the SSAP registration exchange on the open socket.
// Must be called with c.mu held and c.conn set.
func (c *Client) register(ctx context.Context) error {
	payload, err := json.Marshal(newRegisterPayload(c.clientKey))
	if err != nil {
		return fmt.Errorf("webos: encoding register payload: %w", err)
	}

	reg := message{
		Type:    typeRegister,
		ID:      c.nextID(),
		Payload: payload,
	}

	if err := c.writeMessage(ctx, reg); err != nil {
		return newConnError("register", err)
	}

	// The TV may answer with an intermediate response (pairing prompt shown)
	// before the final registered message arrives.
	for {
		msg, err := c.readMessage(ctx)
		if err != nil {
			return newConnError("register", err)
		}

		switch msg.Type {
		case typeRegistered:
			var p registeredPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return &ConnError{Op: "register", Kind: KindHandshake, Err: err}
			}
			if p.ClientKey != "" {
				c.clientKey = p.ClientKey
			}
			return nil

		case typeError:
			// The TV answered and said no: pairing denied or key revoked.
			return &ConnError{
				Op:   "register",
				Kind: KindRejected,
				Err:  fmt.Errorf("TV rejected registration: %s", msg.Error),
			}

		case typeResponse:
			// Pairing prompt displayed; keep waiting for the user.
			continue

		default:
			return &ConnError{
				Op:   "register",
				Kind: KindHandshake,
				Err:  fmt.Errorf("unexpected message type %q during registration", msg.Type),
			}
		}
	}
}

// ClientKey returns the pairing key the TV most recently reported.
// After a first-time pairing this differs from the key the client was
// created with.
func (c *Client) ClientKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientKey
}

// IsConnected reports whether the client holds a registered connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// LaunchApp asks the TV to launch the application with the given ID.
//
// Parameters:
//   - ctx: Context for cancellation and deadline
//   - appID: The webOS application ID (e.g. "cz.tmobile.tvgo")
//
// Returns:
//   - error: *ConnError on transport failure; a plain error when the TV is
//     reachable but declines the launch (unknown app)
func (c *Client) LaunchApp(ctx context.Context, appID string) error {
	resp, err := c.request(ctx, uriLaunchApp, launchPayload{ID: appID})
	if err != nil {
		return err
	}
	if !resp.ReturnValue {
		return fmt.Errorf("webos: launch %q declined: %s", appID, resp.ErrorText)
	}
	return nil
}

// Button sends a remote-control button press.
//
// Buttons do not travel on the main SSAP socket: the TV hands out a
// dedicated pointer input socket which this client opens lazily on first
// use and reuses for the rest of the connection.
//
// Parameters:
//   - ctx: Context for cancellation and deadline
//   - key: The button name (HOME, ENTER, RIGHT, digits, ...)
//
// Returns:
//   - error: *ConnError on transport failure
func (c *Client) Button(ctx context.Context, key string) error {
	input, err := c.ensureInputSocket(ctx)
	if err != nil {
		return err
	}
	return input.sendButton(ctx, key)
}

// PowerOff asks the TV to turn itself off.
//
// Returns:
//   - error: *ConnError on transport failure; a plain error when the TV declines
func (c *Client) PowerOff(ctx context.Context) error {
	resp, err := c.request(ctx, uriTurnOff, nil)
	if err != nil {
		return err
	}
	if !resp.ReturnValue {
		return fmt.Errorf("webos: turnoff declined: %s", resp.ErrorText)
	}
	return nil
}

// Disconnect closes the input socket and the main connection.
//
// The TV often tears the channel down abruptly instead of completing the
// close handshake; callers should treat reset-style errors from Disconnect
// as benign.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false

	if c.input != nil {
		c.input.close()
		c.input = nil
	}
	if c.conn == nil {
		return nil
	}

	// Best-effort close frame; the TV may already be gone.
	deadline := time.Now().Add(time.Second)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	err := c.conn.Close()
	c.conn = nil
	return err
}

// ensureInputSocket returns the pointer input socket, opening it on first use.
func (c *Client) ensureInputSocket(ctx context.Context) (*inputSocket, error) {
	c.mu.Lock()
	existing := c.input
	c.mu.Unlock()
	if existing != nil {
		return existing, nil
	}

	resp, err := c.request(ctx, uriPointerSocket, nil)
	if err != nil {
		return nil, err
	}
	if resp.SocketPath == "" {
		return nil, &ConnError{
			Op:   "input",
			Kind: KindHandshake,
			Err:  fmt.Errorf("TV returned no pointer input socket path"),
		}
	}

	input, err := dialInputSocket(ctx, c.dialer, resp.SocketPath)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.input = input
	c.mu.Unlock()
	return input, nil
}

// request performs one SSAP request/response round trip.
func (c *Client) request(ctx context.Context, uri string, payload any) (*responsePayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, &ConnError{Op: "request", Kind: KindClosed, Err: ErrNotConnected}
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	msg := message{
		Type: typeRequest,
		ID:   c.nextID(),
		URI:  uri,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("webos: encoding payload for %s: %w", uri, err)
		}
		msg.Payload = raw
	}

	if err := c.writeMessage(ctx, msg); err != nil {
		c.markBroken()
		return nil, newConnError("request", err)
	}

	// Read until the response matching our ID arrives; the TV can interleave
	// unsolicited messages on the same socket.
	for {
		reply, err := c.readMessage(ctx)
		if err != nil {
			c.markBroken()
			return nil, newConnError("request", err)
		}
		if reply.ID != msg.ID {
			continue
		}

		if reply.Type == typeError {
			// The TV is awake and answered; this is a protocol-level refusal,
			// not an unreachable-shaped failure.
			return nil, fmt.Errorf("webos: request %s failed: %s", uri, reply.Error)
		}

		var p responsePayload
		if len(reply.Payload) > 0 {
			if err := json.Unmarshal(reply.Payload, &p); err != nil {
				return nil, &ConnError{Op: "request", Kind: KindHandshake, Err: err}
			}
		}
		return &p, nil
	}
}

// markBroken tears the connection down after a transport failure. The
// sockets are closed here rather than left for Disconnect; a broken
// channel never becomes usable again.
// Must be called with c.mu held.
func (c *Client) markBroken() {
	c.connected = false
	if c.input != nil {
		c.input.close()
		c.input = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// writeMessage sends one SSAP frame, honouring the context deadline.
func (c *Client) writeMessage(ctx context.Context, msg message) error {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	}
	return c.conn.WriteJSON(msg)
}

// readMessage reads one SSAP frame, honouring the context deadline.
func (c *Client) readMessage(ctx context.Context) (*message, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetReadDeadline(deadline)
	}
	var msg message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// withDeadline derives a context bounded by the configured connect timeout
// when the caller supplied no deadline of its own.
func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.ConnectTimeout)
}

// nextID returns the next request ID for this connection.
func (c *Client) nextID() string {
	c.reqSeq++
	return fmt.Sprintf("req-%d", c.reqSeq)
}
