// Package wol sends Wake-on-LAN magic packets to revive a powered-off TV.
//
// A wake call sends a short burst of UDP broadcast packets (spaced to
// tolerate packet loss on flaky home networks) and then waits a fixed settle
// window for the TV's network stack to boot. The call never contacts the
// device directly: success means the signal was sent, not that the device
// woke up.
//
// Usage:
//
//	waker := wol.New(logger)
//	if err := waker.Wake(ctx, cfg.TV.MAC, cfg.TV.IP); err != nil {
//	    ...
//	}
package wol
