package tvcontrol

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// scriptSession is a Session fake that records every call in order and can
// be scripted to fail at specific points.
type scriptSession struct {
	connectErr error
	failOn     string // value of the step that should fail
	failWith   error

	calls           []string
	connectCalls    int
	disconnectCalls int
	state           SessionState
}

func (s *scriptSession) Connect(context.Context) error {
	s.connectCalls++
	if s.connectErr != nil {
		return s.connectErr
	}
	s.state = StateConnected
	return nil
}

func (s *scriptSession) SendApp(_ context.Context, appID string) error {
	if appID == s.failOn {
		return s.failWith
	}
	s.calls = append(s.calls, "app:"+appID)
	return nil
}

func (s *scriptSession) SendButton(_ context.Context, key string) error {
	if key == s.failOn {
		return s.failWith
	}
	s.calls = append(s.calls, "btn:"+key)
	return nil
}

func (s *scriptSession) PowerOff(context.Context) error {
	s.calls = append(s.calls, "poweroff")
	return nil
}

func (s *scriptSession) Disconnect() {
	s.disconnectCalls++
	s.state = StateDisconnected
}

func (s *scriptSession) State() SessionState { return s.state }

// =============================================================================
// Ordering Tests
// =============================================================================

func TestRunPreservesOrder(t *testing.T) {
	session := &scriptSession{}
	seq := Sequence{
		{Kind: StepButton, Value: "HOME"},
		{Kind: StepApp, Value: "com.example.app"},
		{Kind: StepButton, Value: "RIGHT"},
		{Kind: StepButton, Value: "ENTER"},
	}

	if err := NewExecutor(nil).Run(context.Background(), session, seq); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"btn:HOME", "app:com.example.app", "btn:RIGHT", "btn:ENTER"}
	if len(session.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", session.calls, want)
	}
	for i := range want {
		if session.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, session.calls[i], want[i])
		}
	}
	if session.disconnectCalls != 1 {
		t.Errorf("disconnect calls = %d, want 1", session.disconnectCalls)
	}
}

func TestRunZeroDelayDoesNotSuspend(t *testing.T) {
	session := &scriptSession{}
	seq := Sequence{
		{Kind: StepButton, Value: "1", PostDelay: 0},
		{Kind: StepButton, Value: "2", PostDelay: 0},
		{Kind: StepButton, Value: "3", PostDelay: 0},
	}

	start := time.Now()
	if err := NewExecutor(nil).Run(context.Background(), session, seq); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Run() took %v with zero delays, want near-instant", elapsed)
	}
}

func TestRunAppliesPostDelay(t *testing.T) {
	session := &scriptSession{}
	seq := Sequence{
		{Kind: StepButton, Value: "HOME", PostDelay: 50 * time.Millisecond},
		{Kind: StepButton, Value: "ENTER", PostDelay: 0},
	}

	start := time.Now()
	if err := NewExecutor(nil).Run(context.Background(), session, seq); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Run() took %v, want at least 50ms", elapsed)
	}
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestRunAbortsOnStepFailure(t *testing.T) {
	stepErr := errors.New("pointer socket gone")
	session := &scriptSession{failOn: "RIGHT", failWith: stepErr}
	seq := Sequence{
		{Kind: StepButton, Value: "HOME"},
		{Kind: StepButton, Value: "RIGHT"},
		{Kind: StepButton, Value: "ENTER"},
	}

	err := NewExecutor(nil).Run(context.Background(), session, seq)
	if !errors.Is(err, stepErr) {
		t.Fatalf("Run() error = %v, want step error", err)
	}

	// Only the step before the failure ran; nothing after it.
	if len(session.calls) != 1 || session.calls[0] != "btn:HOME" {
		t.Errorf("calls = %v, want [btn:HOME]", session.calls)
	}
}

func TestRunDisconnectsOnStepFailure(t *testing.T) {
	session := &scriptSession{failOn: "ENTER", failWith: errors.New("pointer socket gone")}
	seq := Sequence{{Kind: StepButton, Value: "ENTER"}}

	if err := NewExecutor(nil).Run(context.Background(), session, seq); err == nil {
		t.Fatal("Run() error = nil, want step failure")
	}

	// A failed run must not abandon a live connection.
	if session.disconnectCalls != 1 {
		t.Errorf("disconnect calls = %d, want 1 after failed step", session.disconnectCalls)
	}
	if session.state != StateDisconnected {
		t.Errorf("state = %v, want StateDisconnected", session.state)
	}
}

func TestRunConnectFailure(t *testing.T) {
	connErr := errors.New("connection refused")
	session := &scriptSession{connectErr: connErr}
	seq := Sequence{{Kind: StepButton, Value: "HOME"}}

	err := NewExecutor(nil).Run(context.Background(), session, seq)
	if !errors.Is(err, connErr) {
		t.Fatalf("Run() error = %v, want connect error", err)
	}
	if len(session.calls) != 0 {
		t.Errorf("calls = %v, want none after failed connect", session.calls)
	}
	if session.disconnectCalls != 0 {
		t.Errorf("disconnect calls = %d, want none when connect never succeeded", session.disconnectCalls)
	}
}

func TestRunCancelledDuringDelay(t *testing.T) {
	session := &scriptSession{}
	seq := Sequence{
		{Kind: StepButton, Value: "HOME", PostDelay: 5 * time.Second},
		{Kind: StepButton, Value: "ENTER"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewExecutor(nil).Run(ctx, session, seq)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
	if len(session.calls) != 1 {
		t.Errorf("calls = %v, want only the first step", session.calls)
	}
	if session.disconnectCalls != 1 {
		t.Errorf("disconnect calls = %d, want 1 after cancellation", session.disconnectCalls)
	}
}

func TestRunErrorNamesFailingStep(t *testing.T) {
	session := &scriptSession{failOn: "ENTER", failWith: errors.New("boom")}
	seq := Sequence{
		{Kind: StepButton, Value: "HOME"},
		{Kind: StepButton, Value: "ENTER"},
	}

	err := NewExecutor(nil).Run(context.Background(), session, seq)
	if err == nil {
		t.Fatal("Run() error = nil, want step failure")
	}
	if want := fmt.Sprintf("step %d", 2); !errors.Is(err, session.failWith) || !strings.Contains(err.Error(), want) {
		t.Errorf("Run() error = %q, want mention of %q", err, want)
	}
}
