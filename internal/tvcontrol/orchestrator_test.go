package tvcontrol

import (
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/Martin09/GrandmaTVController/internal/webos"
)

var testDevice = Device{IP: "192.168.1.50", MAC: "AA:BB:CC:DD:EE:FF"}

// fakeWaker records wake calls.
type fakeWaker struct {
	err   error
	calls int
	mac   string
	ip    string
}

func (w *fakeWaker) Wake(_ context.Context, hardwareAddr, networkAddr string) error {
	w.calls++
	w.mac = hardwareAddr
	w.ip = networkAddr
	return w.err
}

// sessionQueue hands out pre-scripted sessions, one per factory call.
type sessionQueue struct {
	sessions []*scriptSession
	calls    int
}

func (q *sessionQueue) factory(Device) Session {
	if q.calls < len(q.sessions) {
		s := q.sessions[q.calls]
		q.calls++
		return s
	}
	q.calls++
	return &scriptSession{}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(map[string]Sequence{
		"channel_1": {
			{Kind: StepButton, Value: "HOME"},
			{Kind: StepApp, Value: "cz.tmobile.tvgo"},
			{Kind: StepButton, Value: "RIGHT"},
			{Kind: StepButton, Value: "ENTER"},
			{Kind: StepButton, Value: "1"},
			{Kind: StepButton, Value: "ENTER"},
			{Kind: StepButton, Value: "ENTER"},
			{Kind: StepButton, Value: "RIGHT"},
			{Kind: StepButton, Value: "ENTER"},
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog
}

func newTestOrchestrator(t *testing.T, queue *sessionQueue, waker *fakeWaker) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(testCatalog(t), queue.factory, waker, nil)
	o.RetrySettle = 0
	return o
}

// =============================================================================
// Happy Path Tests
// =============================================================================

func TestExecuteSuccessFirstAttempt(t *testing.T) {
	session := &scriptSession{}
	queue := &sessionQueue{sessions: []*scriptSession{session}}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), "channel_1", testDevice)
	if got != "Action 'channel_1' completed successfully!" {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if waker.calls != 0 {
		t.Errorf("wake calls = %d, want 0 on success", waker.calls)
	}
	if queue.calls != 1 {
		t.Errorf("session factory calls = %d, want 1", queue.calls)
	}

	want := []string{
		"btn:HOME", "app:cz.tmobile.tvgo", "btn:RIGHT", "btn:ENTER",
		"btn:1", "btn:ENTER", "btn:ENTER", "btn:RIGHT", "btn:ENTER",
	}
	if len(session.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", session.calls, want)
	}
	for i := range want {
		if session.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, session.calls[i], want[i])
		}
	}
}

func TestExecuteUnknownAction(t *testing.T) {
	queue := &sessionQueue{}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), "channel_9", testDevice)
	if got != "Unknown action: channel_9" {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if queue.calls != 0 || waker.calls != 0 {
		t.Errorf("factory calls = %d, wake calls = %d, want 0/0 for unknown action", queue.calls, waker.calls)
	}
}

// =============================================================================
// Wake-and-Retry Tests
// =============================================================================

func TestExecuteWakesAndRetriesOnce(t *testing.T) {
	dead := &scriptSession{connectErr: syscall.ECONNREFUSED}
	alive := &scriptSession{}
	queue := &sessionQueue{sessions: []*scriptSession{dead, alive}}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), "channel_1", testDevice)
	if got != "TV was woken up. Action 'channel_1' completed successfully!" {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if waker.calls != 1 {
		t.Errorf("wake calls = %d, want 1", waker.calls)
	}
	if waker.mac != testDevice.MAC || waker.ip != testDevice.IP {
		t.Errorf("woke %s/%s, want %s/%s", waker.mac, waker.ip, testDevice.MAC, testDevice.IP)
	}
	if queue.calls != 2 {
		t.Errorf("session factory calls = %d, want 2 (fresh session per attempt)", queue.calls)
	}
	if len(alive.calls) != 9 {
		t.Errorf("retry session ran %d steps, want 9", len(alive.calls))
	}
}

func TestExecuteDoesNotRetryTwice(t *testing.T) {
	dead1 := &scriptSession{connectErr: syscall.ECONNREFUSED}
	dead2 := &scriptSession{connectErr: syscall.ECONNREFUSED}
	queue := &sessionQueue{sessions: []*scriptSession{dead1, dead2}}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), "channel_1", testDevice)
	if !strings.HasPrefix(got, "TV was woken but action failed:") {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if waker.calls != 1 {
		t.Errorf("wake calls = %d, want exactly 1", waker.calls)
	}
	if queue.calls != 2 {
		t.Errorf("session factory calls = %d, want exactly 2", queue.calls)
	}
}

func TestExecuteNoWakeOnNonUnreachableFailure(t *testing.T) {
	rejected := &scriptSession{
		connectErr: &webos.ConnError{Op: "register", Kind: webos.KindRejected, Err: errors.New("403 denied")},
	}
	queue := &sessionQueue{sessions: []*scriptSession{rejected}}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), "channel_1", testDevice)
	if !strings.HasPrefix(got, "Action 'channel_1' failed:") {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if waker.calls != 0 {
		t.Errorf("wake calls = %d, want 0 for a pairing rejection", waker.calls)
	}
	if queue.calls != 1 {
		t.Errorf("session factory calls = %d, want 1", queue.calls)
	}
}

func TestExecuteWakeFailure(t *testing.T) {
	dead := &scriptSession{connectErr: syscall.ECONNREFUSED}
	queue := &sessionQueue{sessions: []*scriptSession{dead}}
	waker := &fakeWaker{err: errors.New("no broadcast route")}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), "channel_1", testDevice)
	if !strings.HasPrefix(got, "TV is off and Wake-on-LAN failed:") {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if queue.calls != 1 {
		t.Errorf("session factory calls = %d, want 1 (no retry after failed wake)", queue.calls)
	}
}

// =============================================================================
// Synthetic Action Tests
// =============================================================================

func TestExecuteTurnOn(t *testing.T) {
	queue := &sessionQueue{}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), ActionTurnOn, testDevice)
	if got != "TV Wake-on-LAN sent." {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if waker.calls != 1 {
		t.Errorf("wake calls = %d, want 1", waker.calls)
	}
	if queue.calls != 0 {
		t.Errorf("session factory calls = %d, want 0 for turn_on", queue.calls)
	}
}

func TestExecuteTurnOnWakeFailure(t *testing.T) {
	o := newTestOrchestrator(t, &sessionQueue{}, &fakeWaker{err: errors.New("no broadcast route")})

	got := o.ExecuteWithRetry(context.Background(), ActionTurnOn, testDevice)
	if !strings.HasPrefix(got, "Failed to wake TV:") {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
}

func TestExecuteTurnOff(t *testing.T) {
	session := &scriptSession{}
	queue := &sessionQueue{sessions: []*scriptSession{session}}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), ActionTurnOff, testDevice)
	if got != "TV turned off." {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if len(session.calls) != 1 || session.calls[0] != "poweroff" {
		t.Errorf("calls = %v, want [poweroff]", session.calls)
	}
	if session.disconnectCalls != 1 {
		t.Errorf("disconnect calls = %d, want 1", session.disconnectCalls)
	}
}

func TestExecuteTurnOffUnreachableIsSuccess(t *testing.T) {
	dead := &scriptSession{connectErr: syscall.ECONNREFUSED}
	queue := &sessionQueue{sessions: []*scriptSession{dead}}
	waker := &fakeWaker{}
	o := newTestOrchestrator(t, queue, waker)

	got := o.ExecuteWithRetry(context.Background(), ActionTurnOff, testDevice)
	if got != "TV is already off or unreachable." {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
	if waker.calls != 0 {
		t.Errorf("wake calls = %d, want 0 (never wake a TV being turned off)", waker.calls)
	}
	if queue.calls != 1 {
		t.Errorf("session factory calls = %d, want 1 (no retry)", queue.calls)
	}
}

func TestExecuteTurnOffOtherFailure(t *testing.T) {
	rejected := &scriptSession{
		connectErr: &webos.ConnError{Op: "register", Kind: webos.KindRejected, Err: errors.New("403 denied")},
	}
	queue := &sessionQueue{sessions: []*scriptSession{rejected}}
	o := newTestOrchestrator(t, queue, &fakeWaker{})

	got := o.ExecuteWithRetry(context.Background(), ActionTurnOff, testDevice)
	if !strings.HasPrefix(got, "Failed to turn off TV:") {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
}

// =============================================================================
// Catch-all Tests
// =============================================================================

type panickySession struct{ scriptSession }

func (panickySession) Connect(context.Context) error {
	panic("nil map write in catalog")
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	factory := func(Device) Session { return &panickySession{} }
	o := NewOrchestrator(testCatalog(t), factory, &fakeWaker{}, nil)
	o.RetrySettle = 0

	got := o.ExecuteWithRetry(context.Background(), "channel_1", testDevice)
	if !strings.HasPrefix(got, "Unexpected error:") {
		t.Errorf("ExecuteWithRetry() = %q, want an Unexpected error message", got)
	}
	if !strings.Contains(got, "nil map write") {
		t.Errorf("ExecuteWithRetry() = %q, want the panic value embedded", got)
	}
}

func TestExecuteHonoursCancelledContext(t *testing.T) {
	dead := &scriptSession{connectErr: context.DeadlineExceeded}
	queue := &sessionQueue{sessions: []*scriptSession{dead, {}}}
	o := newTestOrchestrator(t, queue, &fakeWaker{})
	o.RetrySettle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := o.ExecuteWithRetry(ctx, "channel_1", testDevice)
	if !strings.HasPrefix(got, "TV was woken but action failed:") {
		t.Errorf("ExecuteWithRetry() = %q", got)
	}
}
