// Package week buckets timestamps into calendar weeks starting Monday, UTC.
// The bucket start doubles as the newsletter cache key component.
package week

import "time"

// KeyLayout is the canonical textual form of a week start.
const KeyLayout = "2006-01-02"

// StartOf returns Monday 00:00:00 UTC of the week containing t. Every
// instant within the same Monday-to-Sunday window maps to the same start.
func StartOf(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday numbers Sunday as 0; shift it to the end of the week.
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// Current returns the start of the week containing now.
func Current() time.Time {
	return StartOf(time.Now())
}

// Key formats a week start for storage and cache lookup.
func Key(start time.Time) string {
	return start.UTC().Format(KeyLayout)
}
