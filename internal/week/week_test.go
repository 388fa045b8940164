package week

import (
	"testing"
	"time"
)

func TestStartOf_SameWeek(t *testing.T) {
	// 2025-06-02 is a Monday.
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	days := []time.Time{
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),   // Monday midnight
		time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC), // Monday end of day
		time.Date(2025, 6, 4, 12, 30, 0, 0, time.UTC),  // Wednesday
		time.Date(2025, 6, 7, 6, 0, 0, 0, time.UTC),    // Saturday
		time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC),   // Sunday late
	}

	for _, d := range days {
		if got := StartOf(d); !got.Equal(want) {
			t.Errorf("StartOf(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestStartOf_WeekBoundary(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	if StartOf(sunday).Equal(StartOf(monday)) {
		t.Error("Sunday night and the following Monday belong to different weeks")
	}
	if got, want := StartOf(sunday), time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("StartOf(sunday) = %v, want %v", got, want)
	}
}

func TestStartOf_NonUTCInput(t *testing.T) {
	// Tuesday 01:00 in UTC+10 is Monday 15:00 UTC; the bucket follows UTC.
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2025, 6, 3, 1, 0, 0, 0, loc)

	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := StartOf(local); !got.Equal(want) {
		t.Errorf("StartOf(%v) = %v, want %v", local, got, want)
	}
}

func TestStartOf_Idempotent(t *testing.T) {
	now := time.Date(2025, 6, 5, 18, 4, 2, 0, time.UTC)
	start := StartOf(now)
	if !StartOf(start).Equal(start) {
		t.Error("StartOf(StartOf(t)) must equal StartOf(t)")
	}
	if start.Weekday() != time.Monday {
		t.Errorf("Week start should be Monday, got %v", start.Weekday())
	}
}

func TestKey(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := Key(start); got != "2025-06-02" {
		t.Errorf("Key = %q, want 2025-06-02", got)
	}
}
