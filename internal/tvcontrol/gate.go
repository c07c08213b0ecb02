package tvcontrol

import "sync"

// Gate is the single-writer guard for one physical device.
//
// Only one command sequence may ever execute against the TV at a time:
// interleaved button presses would corrupt the UI navigation state the
// sequences depend on. The gate is a non-blocking try-lock — concurrent
// callers are rejected immediately rather than queued, so front-ends can
// tell the user "another command is running" instead of silently delaying.
//
// One Gate instance is shared by every front-end (CLI, web, bot, MQTT);
// the single-writer property holds regardless of where a command comes from.
type Gate struct {
	mu sync.Mutex
}

// NewGate creates a Gate.
func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire attempts to take the gate without blocking.
//
// Returns:
//   - bool: true if acquired; false if another command holds it
func (g *Gate) TryAcquire() bool {
	return g.mu.TryLock()
}

// Release returns the gate. It must be called exactly once per successful
// TryAcquire, on every exit path.
func (g *Gate) Release() {
	g.mu.Unlock()
}
