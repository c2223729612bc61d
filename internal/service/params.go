package service

import "time"

// RunParams configures one detection run.
// A nil Events slice means "run over the stored heartbeat log",
// optionally narrowed by From/To/Service. Zero interval/misses fall
// back to the configured defaults.
type RunParams struct {
	Events          []any // raw, untrusted batch; nil → stored log
	IntervalSeconds int   // 0 → default
	AllowedMisses   int   // 0 → default
	From            time.Time
	To              time.Time
	Service         string // stored-log runs only; "" means all services
}

// IngestResult reports how a raw batch was split: invalid records are
// silently dropped, never surfaced as errors.
type IngestResult struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// HeartbeatFilter supports stored-heartbeat listing by range and service.
type HeartbeatFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Service string    // "" means all services
}

// AlertFilter supports alert history filtering by range and service.
type AlertFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Service string    // "" means all services
}
