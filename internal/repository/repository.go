package repository

import (
	"context"
	"database/sql"
	"time"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/repository/db"
)

// InitDB opens the SQLite file and bootstraps the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*hm.User, error)
}

// HeartbeatRepo is the append-only log of validated heartbeat events.
type HeartbeatRepo interface {
	Append(ctx context.Context, e hm.Event) error
	List(ctx context.Context, from, to time.Time, service string) ([]hm.Event, error)
}

// AlertRepo stores alerts produced by detection runs. Append is
// idempotent per (service, alert_at, interval_s, allowed_misses) so
// re-running detection over the same events does not duplicate rows.
type AlertRepo interface {
	Append(ctx context.Context, a hm.Alert, intervalSeconds, allowedMisses int) error
	List(ctx context.Context, from, to time.Time, service string) ([]hm.Alert, error)
	ListSince(ctx context.Context, since time.Time) ([]hm.Alert, error)
}

type Repository struct {
	Heartbeats HeartbeatRepo
	Alerts     AlertRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Heartbeats: NewHeartbeatSQLite(db),
		Alerts:     NewAlertSQLite(db),
		Auth:       NewUserSQLite(db),
	}
}
