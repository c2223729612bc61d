package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	hm "heartbeat_monitor"

	"github.com/google/uuid"
)

type HeartbeatSQLite struct {
	db *sql.DB
}

func NewHeartbeatSQLite(db *sql.DB) *HeartbeatSQLite { return &HeartbeatSQLite{db: db} }

// Ensure implementation of HeartbeatRepo interface at compile time.
var _ HeartbeatRepo = (*HeartbeatSQLite)(nil)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Append inserts a validated heartbeat. A missing EventID is generated.
func (r *HeartbeatSQLite) Append(ctx context.Context, e hm.Event) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO heartbeat_events (id, service, occurred_at)
		VALUES (?, ?, ?)
	`,
		e.EventID,
		e.Service,
		e.Instant.UTC().Format(sqliteTimeLayout),
	)
	return err
}

// List returns heartbeats filtered by [from, to] (inclusive) and/or
// service, ordered ascending by occurrence time.
func (r *HeartbeatSQLite) List(ctx context.Context, from, to time.Time, service string) ([]hm.Event, error) {
	var (
		conds []string
		args  []any
	)

	// Bounds are bound in the same text format Append stores, so the
	// comparison stays exact and the range truly includes its endpoints.
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if service = strings.TrimSpace(service); service != "" {
		conds = append(conds, "service = ?")
		args = append(args, service)
	}

	q := `SELECT id, service, occurred_at FROM heartbeat_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]hm.Event, 0, 64)
	for rows.Next() {
		var ev hm.Event
		if err := rows.Scan(&ev.EventID, &ev.Service, &ev.Instant); err != nil {
			return nil, err
		}
		ev.Instant = ev.Instant.UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
