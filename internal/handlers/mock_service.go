package handlers

import (
	"context"
	"net/http"
	"time"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMonitor struct {
	alerts     []hm.Alert
	err        error
	lastParams service.RunParams
	runCalls   int
}

func (m *mockMonitor) Run(ctx context.Context, p service.RunParams) ([]hm.Alert, error) {
	m.runCalls++
	m.lastParams = p
	return m.alerts, m.err
}

type mockHeartbeats struct {
	ingestRes  service.IngestResult
	ingestErr  error
	listResp   []hm.Event
	listErr    error
	lastBatch  []any
	lastFilter service.HeartbeatFilter
}

func (m *mockHeartbeats) Ingest(ctx context.Context, batch []any) (service.IngestResult, error) {
	m.lastBatch = batch
	return m.ingestRes, m.ingestErr
}
func (m *mockHeartbeats) List(ctx context.Context, f service.HeartbeatFilter) ([]hm.Event, error) {
	m.lastFilter = f
	return m.listResp, m.listErr
}

type mockAlertLog struct {
	resp       []hm.Alert
	err        error
	sinceResp  []hm.Alert
	sinceErr   error
	lastFilter service.AlertFilter
	lastSince  time.Time
}

func (m *mockAlertLog) List(ctx context.Context, f service.AlertFilter) ([]hm.Alert, error) {
	m.lastFilter = f
	return m.resp, m.err
}
func (m *mockAlertLog) ListSince(ctx context.Context, since time.Time) ([]hm.Alert, error) {
	m.lastSince = since
	return m.sinceResp, m.sinceErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}
