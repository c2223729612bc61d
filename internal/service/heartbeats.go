package service

import (
	"context"
	"errors"

	hm "heartbeat_monitor"
	"heartbeat_monitor/internal/repository"
)

type HeartbeatService struct {
	heartbeatRepo repository.HeartbeatRepo
}

func NewHeartbeatService(heartbeatRepo repository.HeartbeatRepo) *HeartbeatService {
	return &HeartbeatService{heartbeatRepo: heartbeatRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// Ingest validates a raw batch and persists the surviving events.
// Invalid records are counted and dropped, never turned into errors;
// an entirely invalid batch simply persists nothing.
func (s *HeartbeatService) Ingest(ctx context.Context, batch []any) (IngestResult, error) {
	set := groupAndSort(batch)

	var res IngestResult
	for _, svc := range set.order {
		for _, e := range set.byService[svc] {
			if err := s.heartbeatRepo.Append(ctx, e); err != nil {
				return res, err
			}
			res.Accepted++
		}
	}
	res.Dropped = len(batch) - res.Accepted
	return res, nil
}

// List returns stored heartbeats matching the filter.
func (s *HeartbeatService) List(ctx context.Context, f HeartbeatFilter) ([]hm.Event, error) {
	from, to := normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.heartbeatRepo.List(ctx, from, to, f.Service)
}
