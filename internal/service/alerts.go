package service

import (
	"context"
	"time"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/repository"
)

type AlertLogService struct {
	alertRepo repository.AlertRepo
}

func NewAlertLogService(alertRepo repository.AlertRepo) *AlertLogService {
	return &AlertLogService{alertRepo: alertRepo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// List returns persisted alerts matching the filter.
func (s *AlertLogService) List(ctx context.Context, f AlertFilter) ([]hm.Alert, error) {
	from, to := normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.alertRepo.List(ctx, from, to, f.Service)
}

// ListSince returns alerts recorded at or after the given wall-clock
// moment, oldest first. The bound is inclusive; polling callers dedupe
// boundary rows by AlertID.
func (s *AlertLogService) ListSince(ctx context.Context, since time.Time) ([]hm.Alert, error) {
	return s.alertRepo.ListSince(ctx, since)
}
