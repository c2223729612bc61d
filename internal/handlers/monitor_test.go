package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/service"
)

func doJSON(t *testing.T, r http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		for k, vv := range authHeader("valid") {
			for _, v := range vv {
				req.Header.Add(k, v)
			}
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRunMonitorHandler_Success(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	at := time.Date(2025, time.August, 4, 10, 4, 0, 0, time.UTC)
	monitor := &mockMonitor{alerts: []hm.Alert{{Service: "email", AlertAt: at}}}
	s := &service.Service{Authorization: auth, Monitor: monitor}
	r := newTestRouter(s)

	body := `{"events":[{"service":"email","timestamp":"2025-08-04T10:00:00Z"}],"interval_seconds":60,"allowed_misses":3}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/monitor/run", body, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Count  int        `json:"count"`
		Alerts []hm.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Alerts) != 1 || out.Alerts[0].Service != "email" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if !out.Alerts[0].AlertAt.Equal(at) {
		t.Fatalf("alert_at = %v, want %v", out.Alerts[0].AlertAt, at)
	}

	// service received the inline batch and overrides
	if monitor.runCalls != 1 {
		t.Fatalf("Run called %d times, want 1", monitor.runCalls)
	}
	if len(monitor.lastParams.Events) != 1 || monitor.lastParams.IntervalSeconds != 60 || monitor.lastParams.AllowedMisses != 3 {
		t.Fatalf("unexpected params: %+v", monitor.lastParams)
	}
}

func TestRunMonitorHandler_OmittedEventsStaysNil(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	monitor := &mockMonitor{}
	s := &service.Service{Authorization: auth, Monitor: monitor}
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/api/v1/monitor/run",
		`{"from":"2025-08-04T00:00:00Z","service":"email"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if monitor.lastParams.Events != nil {
		t.Fatalf("expected nil Events for a stored-log run, got %v", monitor.lastParams.Events)
	}
	if monitor.lastParams.Service != "email" || monitor.lastParams.From.IsZero() {
		t.Fatalf("unexpected params: %+v", monitor.lastParams)
	}
}

func TestRunMonitorHandler_ConfigErrorsAre400(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	monitor := &mockMonitor{err: service.ErrInvalidInterval}
	s := &service.Service{Authorization: auth, Monitor: monitor}
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/api/v1/monitor/run", `{"interval_seconds":-5}`, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid interval, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestRunMonitorHandler_BadRequests(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	s := &service.Service{Authorization: auth, Monitor: &mockMonitor{}}
	r := newTestRouter(s)

	// malformed JSON body
	w := doJSON(t, r, http.MethodPost, "/api/v1/monitor/run", `{"events":`, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}

	// unparseable window bound
	w = doJSON(t, r, http.MethodPost, "/api/v1/monitor/run", `{"from":"notatime"}`, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad 'from', got %d", w.Code)
	}

	// unauthenticated
	w = doJSON(t, r, http.MethodPost, "/api/v1/monitor/run", `{}`, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
