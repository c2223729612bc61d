package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/service"
)

func TestAlertsHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	alertLog := &mockAlertLog{resp: []hm.Alert{
		{AlertID: "a1", Service: "email", AlertAt: now},
		{AlertID: "a2", Service: "email", AlertAt: now.Add(time.Minute)},
	}}
	s := &service.Service{Authorization: auth, AlertLog: alertLog}
	r := newTestRouter(s)

	// invalid 'from' → 400
	w := doJSON(t, r, http.MethodGet, "/api/v1/alerts/?from=notatime", "", true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// from > to → 400
	w = doJSON(t, r, http.MethodGet,
		"/api/v1/alerts/?from=2025-08-05T00:00:00Z&to=2025-08-04T00:00:00Z", "", true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", w.Code)
	}

	// valid range and service filter
	q := "/api/v1/alerts/?from=" + now.Format(time.RFC3339) +
		"&to=" + now.Add(2*time.Minute).Format(time.RFC3339) + "&service=email"
	w = doJSON(t, r, http.MethodGet, q, "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("alerts status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int        `json:"count"`
		Alerts []hm.Alert `json:"alerts"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Alerts) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if alertLog.lastFilter.Service != "email" {
		t.Fatalf("service filter not forwarded: %+v", alertLog.lastFilter)
	}
}

func TestAlertsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	alertLog := &mockAlertLog{}
	s := &service.Service{Authorization: auth, AlertLog: alertLog}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/?to=2025-08-04", nil)
	req.Header.Set("Authorization", "Bearer valid")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	wantDay := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)
	got := alertLog.lastFilter.To
	if !got.After(wantDay.Add(23 * time.Hour)) || !got.Before(wantDay.Add(24*time.Hour)) {
		t.Fatalf("date-only 'to' not treated as end of day: %v", got)
	}
}
