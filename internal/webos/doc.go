// Package webos implements a minimal LG webOS remote-control client.
//
// webOS TVs expose a websocket control channel (SSAP) on port 3000. A client
// registers by presenting a permission manifest; on first contact the TV
// shows a pairing prompt and, once accepted, issues an opaque client key
// that skips the prompt on later connections.
//
// This package covers exactly what the controller needs:
//   - Connect: dial + register handshake, with pairing-key passthrough
//   - LaunchApp: ssap://system.launcher/launch
//   - Button: presses via the TV's dedicated pointer input socket
//   - PowerOff: ssap://system/turnoff
//   - Disconnect: best-effort close (the TV often just drops the channel)
//
// Failures surface as *ConnError values with a Kind the caller can branch
// on; the retry layer treats refused/timeout/handshake/closed kinds as "the
// TV is probably off" and everything else as a real fault.
//
// # Thread Safety
//
// A Client drives one serialised SSAP conversation and is not safe for
// concurrent use. The controller's command gate guarantees a single flow.
package webos
