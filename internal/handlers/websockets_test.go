package handlers

import (
	"testing"
	"time"

	hm "heartbeat_monitor"
)

func feedAlert(id string, createdAt time.Time) hm.Alert {
	return hm.Alert{
		AlertID:   id,
		Service:   "email",
		AlertAt:   createdAt.Add(-time.Minute),
		CreatedAt: createdAt,
	}
}

func TestAlertCursor_DeliversSameSecondLatecomer(t *testing.T) {
	t.Parallel()

	sec := time.Date(2025, time.August, 4, 10, 0, 0, 0, time.UTC)
	cur := newAlertCursor(sec.Add(-initialLookback))

	// first poll sees one alert at sec
	fresh := cur.take([]hm.Alert{feedAlert("a1", sec)})
	if len(fresh) != 1 || fresh[0].AlertID != "a1" {
		t.Fatalf("first poll = %+v, want a1", fresh)
	}

	// second poll re-reads the boundary second: a1 again plus a
	// latecomer a2 inserted within the same second after the first
	// poll; only a2 may go out
	fresh = cur.take([]hm.Alert{feedAlert("a1", sec), feedAlert("a2", sec)})
	if len(fresh) != 1 || fresh[0].AlertID != "a2" {
		t.Fatalf("latecomer poll = %+v, want only a2", fresh)
	}

	// third poll with nothing new writes nothing
	if fresh = cur.take([]hm.Alert{feedAlert("a1", sec), feedAlert("a2", sec)}); fresh != nil {
		t.Fatalf("repeat poll delivered duplicates: %+v", fresh)
	}
}

func TestAlertCursor_AdvancesAndForgetsOldBoundary(t *testing.T) {
	t.Parallel()

	sec := time.Date(2025, time.August, 4, 10, 0, 0, 0, time.UTC)
	cur := newAlertCursor(sec.Add(-initialLookback))

	if fresh := cur.take([]hm.Alert{feedAlert("a1", sec)}); len(fresh) != 1 {
		t.Fatalf("first poll = %+v, want a1", fresh)
	}

	// a later second moves the cursor; the old boundary row no longer
	// comes back from the inclusive query, and the new boundary dedupes
	fresh := cur.take([]hm.Alert{feedAlert("a1", sec), feedAlert("a3", sec.Add(2*time.Second))})
	if len(fresh) != 1 || fresh[0].AlertID != "a3" {
		t.Fatalf("advance poll = %+v, want only a3", fresh)
	}
	if !cur.at.Equal(sec.Add(2 * time.Second)) {
		t.Fatalf("cursor at %v, want %v", cur.at, sec.Add(2*time.Second))
	}
	if fresh = cur.take([]hm.Alert{feedAlert("a3", sec.Add(2 * time.Second))}); fresh != nil {
		t.Fatalf("boundary row re-delivered after advance: %+v", fresh)
	}
}

func TestAlertCursor_EmptyPollKeepsPosition(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.August, 4, 10, 0, 0, 0, time.UTC)
	cur := newAlertCursor(start)

	if fresh := cur.take(nil); fresh != nil {
		t.Fatalf("empty poll delivered %+v", fresh)
	}
	if !cur.at.Equal(start) {
		t.Fatalf("empty poll moved the cursor to %v", cur.at)
	}
}
