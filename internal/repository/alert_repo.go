package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	hm "heartbeat_monitor"

	"github.com/google/uuid"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

// Ensure implementation of AlertRepo interface at compile time.
var _ AlertRepo = (*AlertSQLite)(nil)

// Append inserts one alert together with the detection parameters that
// produced it. INSERT OR IGNORE keeps re-runs over the same events
// from duplicating rows (unique on service/alert_at/interval/misses).
func (r *AlertSQLite) Append(ctx context.Context, a hm.Alert, intervalSeconds, allowedMisses int) error {
	if a.AlertID == "" {
		a.AlertID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO alerts (id, service, alert_at, interval_s, allowed_misses, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		a.AlertID,
		a.Service,
		a.AlertAt.UTC().Format(sqliteTimeLayout),
		intervalSeconds,
		allowedMisses,
		time.Now().UTC().Format(sqliteTimeLayout),
	)
	return err
}

// List returns alerts filtered by alert time range and/or service,
// ordered ascending by alert time.
func (r *AlertSQLite) List(ctx context.Context, from, to time.Time, service string) ([]hm.Alert, error) {
	var (
		conds []string
		args  []any
	)

	// Bound in the stored text format so endpoint rows match exactly.
	if !from.IsZero() {
		conds = append(conds, "alert_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "alert_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if service = strings.TrimSpace(service); service != "" {
		conds = append(conds, "service = ?")
		args = append(args, service)
	}

	q := `SELECT id, service, alert_at FROM alerts`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY alert_at ASC"

	return r.queryAlerts(ctx, q, args...)
}

// ListSince returns alerts recorded at or after the given moment,
// ordered by insertion time, with CreatedAt populated. The bound is
// inclusive because created_at has second granularity; callers that
// poll must dedupe rows on the boundary themselves by AlertID.
func (r *AlertSQLite) ListSince(ctx context.Context, since time.Time) ([]hm.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service, alert_at, created_at FROM alerts
		WHERE created_at >= ? ORDER BY created_at ASC, id ASC
	`, since.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]hm.Alert, 0, 16)
	for rows.Next() {
		var a hm.Alert
		if err := rows.Scan(&a.AlertID, &a.Service, &a.AlertAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.AlertAt = a.AlertAt.UTC()
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AlertSQLite) queryAlerts(ctx context.Context, q string, args ...any) ([]hm.Alert, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]hm.Alert, 0, 16)
	for rows.Next() {
		var a hm.Alert
		if err := rows.Scan(&a.AlertID, &a.Service, &a.AlertAt); err != nil {
			return nil, err
		}
		a.AlertAt = a.AlertAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
