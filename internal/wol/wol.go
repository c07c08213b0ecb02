package wol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Defaults chosen for unreliable consumer Wi-Fi: repeated packets tolerate
// loss, and the settle window models how long the TV's network stack needs
// after power-on before it accepts connections.
const (
	defaultPacketCount    = 3
	defaultPacketInterval = 500 * time.Millisecond
	defaultSettleWindow   = 12 * time.Second
	defaultBroadcastAddr  = "255.255.255.255:9"
)

// magicPacketSize is 6 sync bytes plus 16 repetitions of the 6-byte MAC.
const magicPacketSize = 6 + 16*6

// ErrNoHardwareAddr is returned when no MAC address is configured.
// This is a configuration error: waking a device requires its hardware
// address, and retrying cannot help.
var ErrNoHardwareAddr = errors.New("wol: hardware address not configured")

// Logger is the minimal logging interface the waker needs.
type Logger interface {
	Info(msg string, args ...any)
}

// Waker sends Wake-on-LAN magic packets.
//
// The zero value is not usable; create instances with New. Timing fields are
// exported so callers (and tests) can shorten the pacing and settle window.
type Waker struct {
	// PacketCount is how many magic packets to send per wake call.
	PacketCount int

	// PacketInterval is the spacing between packets.
	PacketInterval time.Duration

	// SettleWindow is how long to wait after the last packet before
	// returning, giving the device's network stack time to come up.
	SettleWindow time.Duration

	// BroadcastAddr is the UDP destination for magic packets.
	BroadcastAddr string

	logger Logger

	// sendPacket is swapped out in tests to avoid real UDP traffic.
	sendPacket func(packet []byte) error
}

// New creates a Waker with production defaults.
//
// Parameters:
//   - logger: Logger for wake progress (may be nil)
//
// Returns:
//   - *Waker: Ready-to-use waker
func New(logger Logger) *Waker {
	w := &Waker{
		PacketCount:    defaultPacketCount,
		PacketInterval: defaultPacketInterval,
		SettleWindow:   defaultSettleWindow,
		BroadcastAddr:  defaultBroadcastAddr,
		logger:         logger,
	}
	w.sendPacket = w.broadcast
	return w
}

// Wake sends a burst of magic packets for the given hardware address, then
// waits for the settle window before returning.
//
// The packets are a fire-and-forget broadcast: success means "signal sent",
// not "device confirmed awake". The device's own network address is never
// contacted — it is accepted only for log context, matching the broadcast
// nature of Wake-on-LAN.
//
// Parameters:
//   - ctx: Context for cancellation; aborts pacing and settle waits
//   - hardwareAddr: The device MAC address (required)
//   - networkAddr: The device IP, used for logging only
//
// Returns:
//   - error: ErrNoHardwareAddr, a MAC parse error, a send error, or ctx.Err()
func (w *Waker) Wake(ctx context.Context, hardwareAddr, networkAddr string) error {
	if hardwareAddr == "" {
		return ErrNoHardwareAddr
	}

	packet, err := buildMagicPacket(hardwareAddr)
	if err != nil {
		return err
	}

	if w.logger != nil {
		w.logger.Info("sending Wake-on-LAN burst",
			"mac", hardwareAddr,
			"ip", networkAddr,
			"packets", w.PacketCount,
		)
	}

	for i := 0; i < w.PacketCount; i++ {
		if err := w.sendPacket(packet); err != nil {
			return fmt.Errorf("wol: sending magic packet: %w", err)
		}
		// Space out the packets; the settle window starts right after the
		// last one.
		if i < w.PacketCount-1 {
			if err := sleep(ctx, w.PacketInterval); err != nil {
				return err
			}
		}
	}

	if w.logger != nil {
		w.logger.Info("waiting for TV network stack to initialise",
			"settle_window", w.SettleWindow,
		)
	}

	return sleep(ctx, w.SettleWindow)
}

// buildMagicPacket assembles the 102-byte magic packet for a MAC address:
// six 0xFF sync bytes followed by the MAC repeated sixteen times.
func buildMagicPacket(hardwareAddr string) ([]byte, error) {
	mac, err := net.ParseMAC(hardwareAddr)
	if err != nil {
		return nil, fmt.Errorf("wol: invalid hardware address %q: %w", hardwareAddr, err)
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("wol: hardware address %q is not 48-bit", hardwareAddr)
	}

	packet := make([]byte, 0, magicPacketSize)
	for i := 0; i < 6; i++ {
		packet = append(packet, 0xFF)
	}
	for i := 0; i < 16; i++ {
		packet = append(packet, mac...)
	}
	return packet, nil
}

// broadcast sends one packet over UDP broadcast.
func (w *Waker) broadcast(packet []byte) error {
	conn, err := net.Dial("udp", w.BroadcastAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Write(packet)
	return err
}

// sleep waits for d or until the context is cancelled.
// A non-positive duration returns immediately without suspension.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
