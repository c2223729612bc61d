package service

import (
	"context"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/repository"
)

// MonitorService turns raw heartbeat batches into alerts and records
// them. Detection itself is a pure function of (config, events); the
// repositories only supply stored-log input and keep the alert history.
type MonitorService struct {
	heartbeatRepo repository.HeartbeatRepo
	alertRepo     repository.AlertRepo
	defaults      Config
}

func NewMonitorService(heartbeatRepo repository.HeartbeatRepo, alertRepo repository.AlertRepo, defaults Config) *MonitorService {
	return &MonitorService{
		heartbeatRepo: heartbeatRepo,
		alertRepo:     alertRepo,
		defaults:      defaults,
	}
}

// runBatch is the whole detection pipeline as a pure function:
// normalize the untrusted batch, detect gaps per service independently
// and concatenate the alerts. Services appear in the order they were
// first seen in the batch; within a service, alerts are chronological.
func runBatch(cfg Config, raw []any) []hm.Alert {
	return collectAlerts(cfg, groupAndSort(raw))
}

// collectAlerts runs the detector once per timeline. Services never
// share a miss counter.
func collectAlerts(cfg Config, set timelineSet) []hm.Alert {
	var alerts []hm.Alert
	for _, svc := range set.order {
		for _, at := range detectGaps(cfg, set.byService[svc]) {
			alerts = append(alerts, hm.Alert{Service: svc, AlertAt: at})
		}
	}
	return alerts
}

// Run executes one detection pass. With an inline batch it normalizes
// and detects over exactly those events; without one it loads the
// stored heartbeat log (optionally narrowed by window and service).
// Produced alerts are persisted idempotently and returned either way.
func (s *MonitorService) Run(ctx context.Context, p RunParams) ([]hm.Alert, error) {
	cfg, err := s.resolveConfig(p)
	if err != nil {
		return nil, err
	}

	var alerts []hm.Alert
	if p.Events != nil {
		alerts = runBatch(cfg, p.Events)
	} else {
		stored, err := s.heartbeatRepo.List(ctx, p.From, p.To, p.Service)
		if err != nil {
			return nil, err
		}
		alerts = collectAlerts(cfg, groupValidated(stored))
	}

	intervalSeconds := int(cfg.Interval.Seconds())
	for _, a := range alerts {
		if err := s.alertRepo.Append(ctx, a, intervalSeconds, cfg.AllowedMisses); err != nil {
			return nil, err
		}
	}
	return alerts, nil
}

// resolveConfig applies per-run overrides on top of the configured
// defaults, failing fast on out-of-range values.
func (s *MonitorService) resolveConfig(p RunParams) (Config, error) {
	intervalSeconds := p.IntervalSeconds
	if intervalSeconds == 0 {
		intervalSeconds = int(s.defaults.Interval.Seconds())
	}
	allowedMisses := p.AllowedMisses
	if allowedMisses == 0 {
		allowedMisses = s.defaults.AllowedMisses
	}
	return NewConfig(intervalSeconds, allowedMisses)
}
