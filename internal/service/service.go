package service

import (
	"context"
	"time"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitor runs gap detection over a raw batch (or the stored heartbeat
// log) and returns the resulting alerts.
type Monitor interface {
	Run(ctx context.Context, p RunParams) ([]hm.Alert, error)
}

// Heartbeats ingests raw heartbeat batches and exposes the stored log.
type Heartbeats interface {
	Ingest(ctx context.Context, batch []any) (IngestResult, error)
	List(ctx context.Context, f HeartbeatFilter) ([]hm.Event, error)
}

// AlertLog exposes persisted alerts with filtering access.
type AlertLog interface {
	List(ctx context.Context, f AlertFilter) ([]hm.Alert, error)
	ListSince(ctx context.Context, since time.Time) ([]hm.Alert, error)
}

// Sweeper runs the background loop that periodically re-detects gaps
// over the stored heartbeat log.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Monitor
	Heartbeats
	AlertLog
	Sweeper
	Authorization
}

// NewService wires the repository layer into concrete services. The
// config supplies the detection defaults used when a run carries no
// overrides.
func NewService(repos *repository.Repository, cfg Config) *Service {
	monitor := NewMonitorService(repos.Heartbeats, repos.Alerts, cfg)
	return &Service{
		Monitor:       monitor,
		Heartbeats:    NewHeartbeatService(repos.Heartbeats),
		AlertLog:      NewAlertLogService(repos.Alerts),
		Sweeper:       NewSweeperService(monitor),
		Authorization: NewAuthService(repos.Auth),
	}
}
