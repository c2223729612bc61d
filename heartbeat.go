package heartbeat_monitor

import "time"

// Event is a single validated heartbeat: a service reported in at Instant.
// Built by the normalizer from an untrusted record; immutable afterwards.
type Event struct {
	EventID string    `json:"event_id,omitempty"`
	Service string    `json:"service"`
	Instant time.Time `json:"timestamp"`
}

// Alert marks the expected-but-missing arrival at which a run of
// consecutive misses crossed the configured threshold. CreatedAt is
// the insertion time set by storage; live-feed consumers use it as
// their cursor and it is never part of the wire shape.
type Alert struct {
	AlertID   string    `json:"alert_id,omitempty"`
	Service   string    `json:"service"`
	AlertAt   time.Time `json:"alert_at"`
	CreatedAt time.Time `json:"-"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
}
