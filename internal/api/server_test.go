package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/logging"
	"github.com/Martin09/GrandmaTVController/internal/tvcontrol"
)

// fakeCommander scripts Execute outcomes per action name.
type fakeCommander struct {
	msg      string
	err      error
	executed []string
}

func (c *fakeCommander) Execute(_ context.Context, actionName string) (string, error) {
	c.executed = append(c.executed, actionName)
	return c.msg, c.err
}

func (c *fakeCommander) Actions() []string {
	return []string{"turn_on", "turn_off", "channel_1"}
}

func newTestServer(t *testing.T, commander Commander) *Server {
	t.Helper()
	s, err := New(Deps{
		Config:    config.WebConfig{Host: "127.0.0.1", Port: 8080},
		Logger:    logging.Default(),
		Commander: commander,
		Metrics:   true,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Action Endpoint Tests
// =============================================================================

func TestHandleActionSuccess(t *testing.T) {
	commander := &fakeCommander{msg: "Action 'channel_1' completed successfully!"}
	s := newTestServer(t, commander)

	rec := doRequest(t, s, http.MethodPost, "/api/action/channel_1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["message"] != commander.msg {
		t.Errorf("message field = %v", body["message"])
	}
	if len(commander.executed) != 1 || commander.executed[0] != "channel_1" {
		t.Errorf("executed = %v, want [channel_1]", commander.executed)
	}
}

func TestHandleActionUnknown(t *testing.T) {
	s := newTestServer(t, &fakeCommander{err: tvcontrol.ErrUnknownAction})

	rec := doRequest(t, s, http.MethodPost, "/api/action/channel_9")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var e Error
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if e.Status != StatusError {
		t.Errorf("status field = %q, want %q", e.Status, StatusError)
	}
	if !strings.Contains(e.Message, "unknown action") {
		t.Errorf("error field = %q, want mention of the unknown action", e.Message)
	}
}

func TestHandleActionBusy(t *testing.T) {
	s := newTestServer(t, &fakeCommander{err: tvcontrol.ErrBusy})

	rec := doRequest(t, s, http.MethodPost, "/api/action/channel_1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	var e Error
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if e.Status != StatusBusy {
		t.Errorf("status field = %q, want %q", e.Status, StatusBusy)
	}
}

func TestHandleActionMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeCommander{})

	rec := doRequest(t, s, http.MethodGet, "/api/action/channel_1")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

// =============================================================================
// Page and Misc Endpoint Tests
// =============================================================================

func TestHandleRemotePage(t *testing.T) {
	s := newTestServer(t, &fakeCommander{})

	rec := doRequest(t, s, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "data-action=\"turn_off\"") {
		t.Error("page missing turn_off button")
	}
}

func TestRenderRemotePageCustomButtons(t *testing.T) {
	page, err := renderRemotePage([]config.ButtonConfig{
		{Label: "Zprávy", Action: "channel_1", Color: "#123456"},
	})
	if err != nil {
		t.Fatalf("renderRemotePage() error = %v", err)
	}
	html := string(page)
	if !strings.Contains(html, "Zprávy") || !strings.Contains(html, "data-action=\"channel_1\"") {
		t.Errorf("rendered page missing custom button: %s", html)
	}
	if strings.Contains(html, "data-action=\"turn_on\"") {
		t.Error("default buttons rendered despite custom layout")
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &fakeCommander{})

	rec := doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
}

func TestHandleListActions(t *testing.T) {
	s := newTestServer(t, &fakeCommander{})

	rec := doRequest(t, s, http.MethodGet, "/api/actions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "channel_1") {
		t.Errorf("body = %s, want action list", rec.Body.String())
	}
}

func TestMetricsEndpointToggle(t *testing.T) {
	withMetrics := newTestServer(t, &fakeCommander{})
	if rec := doRequest(t, withMetrics, http.MethodGet, "/metrics"); rec.Code != http.StatusOK {
		t.Errorf("metrics enabled: status = %d, want 200", rec.Code)
	}

	without, err := New(Deps{
		Config:    config.WebConfig{Host: "127.0.0.1", Port: 8080},
		Logger:    logging.Default(),
		Commander: &fakeCommander{},
		Metrics:   false,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rec := doRequest(t, without, http.MethodGet, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Deps{Commander: &fakeCommander{}}); err == nil {
		t.Error("New() without logger: want error")
	}
	if _, err := New(Deps{Logger: logging.Default()}); err == nil {
		t.Error("New() without commander: want error")
	}
}
