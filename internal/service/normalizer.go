package service

import (
	"sort"
	"strings"
	"time"

	hm "heartbeat_monitor"
)

// Raw batch field names expected on incoming records.
const (
	fieldService   = "service"
	fieldTimestamp = "timestamp"
)

// Timestamp layouts accepted after the trailing-Z normalization.
// The fractional-second element is optional in both.
const (
	layoutOffset = "2006-01-02T15:04:05.999999999-07:00"
	layoutNaive  = "2006-01-02T15:04:05.999999999" // no offset → UTC
)

// parseTimestamp converts one raw timestamp value to a UTC instant.
// Only string input is considered; a trailing literal 'Z' is rewritten
// to an explicit +00:00 offset before parsing. Any non-string, empty,
// or malformed value yields ok=false, never an error.
func parseTimestamp(value any) (time.Time, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range []string{layoutOffset, layoutNaive} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// validateEvent reports whether a raw batch entry is a record with a
// non-empty string service and a parseable timestamp. Non-record
// entries (strings, numbers, nil, arrays) are rejected, not errors.
func validateEvent(raw any) bool {
	rec, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	svc, ok := rec[fieldService].(string)
	if !ok || svc == "" {
		return false
	}
	ts, ok := rec[fieldTimestamp]
	if !ok {
		return false
	}
	_, ok = parseTimestamp(ts)
	return ok
}

// timelineSet groups validated events per service, keeping the order
// in which services were first seen in the batch.
type timelineSet struct {
	order     []string
	byService map[string][]hm.Event
}

// groupAndSort walks the raw batch in input order, silently drops
// every record failing validateEvent, groups survivors by service and
// stable-sorts each timeline ascending by instant. An empty or
// entirely invalid batch produces an empty set, not an error.
func groupAndSort(batch []any) timelineSet {
	set := timelineSet{byService: make(map[string][]hm.Event)}
	for _, raw := range batch {
		if !validateEvent(raw) {
			continue
		}
		rec := raw.(map[string]any)
		svc := rec[fieldService].(string)
		instant, _ := parseTimestamp(rec[fieldTimestamp])
		if _, seen := set.byService[svc]; !seen {
			set.order = append(set.order, svc)
		}
		set.byService[svc] = append(set.byService[svc], hm.Event{
			Service: svc,
			Instant: instant,
		})
	}
	for _, svc := range set.order {
		sortTimeline(set.byService[svc])
	}
	return set
}

// groupValidated builds a timelineSet from already-validated events
// (e.g. loaded back from storage), skipping the raw-record checks.
func groupValidated(events []hm.Event) timelineSet {
	set := timelineSet{byService: make(map[string][]hm.Event)}
	for _, e := range events {
		if _, seen := set.byService[e.Service]; !seen {
			set.order = append(set.order, e.Service)
		}
		set.byService[e.Service] = append(set.byService[e.Service], e)
	}
	for _, svc := range set.order {
		sortTimeline(set.byService[svc])
	}
	return set
}

// sortTimeline orders events ascending by instant. The sort is stable
// so records with equal instants keep their original relative order.
func sortTimeline(events []hm.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Instant.Before(events[j].Instant)
	})
}
