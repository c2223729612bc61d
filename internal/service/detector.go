package service

import (
	"errors"
	"time"

	hm "heartbeat_monitor"
)

// Detection defaults when the caller supplies no overrides.
const (
	DefaultIntervalSeconds = 60
	DefaultAllowedMisses   = 3
)

// Misconfiguration is a caller contract violation and fails fast; the
// detector's termination argument depends on a positive interval.
var (
	ErrInvalidInterval      = errors.New("expected interval must be positive")
	ErrInvalidAllowedMisses = errors.New("allowed misses must be >= 1")
)

// Config carries the detection parameters. Constant for the lifetime
// of a monitor instance; build via NewConfig.
type Config struct {
	Interval      time.Duration
	AllowedMisses int
}

// NewConfig validates detection parameters: the interval must be
// positive and the miss threshold at least one.
func NewConfig(intervalSeconds, allowedMisses int) (Config, error) {
	if intervalSeconds <= 0 {
		return Config{}, ErrInvalidInterval
	}
	if allowedMisses < 1 {
		return Config{}, ErrInvalidAllowedMisses
	}
	return Config{
		Interval:      time.Duration(intervalSeconds) * time.Second,
		AllowedMisses: allowedMisses,
	}, nil
}

// DefaultConfig returns the stock detection parameters: one expected
// heartbeat per minute, alert after three consecutive missed slots.
func DefaultConfig() Config {
	cfg, _ := NewConfig(DefaultIntervalSeconds, DefaultAllowedMisses)
	return cfg
}

// detectGaps walks a virtual expected-arrival clock over one service's
// sorted timeline and returns the instants at which a run of
// consecutive missed slots reached cfg.AllowedMisses.
//
// The expected clock always advances from its own prior value, never
// from the last actual arrival; that is what lets consecutive gaps
// accumulate across several missed slots. An event at or before the
// current expected slot consumes the slot and resets the miss count.
// After an alert fires the count resets, so a later independent outage
// can trigger again. The last observed event ends slot generation;
// there is no later event to confirm a trailing gap against.
func detectGaps(cfg Config, timeline []hm.Event) []time.Time {
	if len(timeline) < 2 {
		// A single heartbeat cannot prove a gap.
		return nil
	}

	var alerts []time.Time
	expected := timeline[0].Instant
	misses := 0

	for i := 1; i < len(timeline); {
		expected = expected.Add(cfg.Interval)
		actual := timeline[i].Instant

		if !actual.After(expected) {
			// Slot satisfied (on time or early); move to the next event.
			misses = 0
			i++
			continue
		}

		// Slot missed: the same event is re-compared against the next
		// expected slot on the following iteration.
		misses++
		if misses >= cfg.AllowedMisses {
			alerts = append(alerts, expected)
			misses = 0
		}
	}
	return alerts
}
