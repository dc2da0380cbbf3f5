package domain

import "time"

// WeekNumber buckets a wall-clock instant into an integer week.
//
// The bucket is floor((now - Jan 1 of now's year) / 7 days) in now's
// location. This is deliberately NOT an ISO week number: there is no
// Monday alignment and no correction at year boundaries. Existing task
// sets are keyed by this value, so the formula must stay as-is.
func WeekNumber(now time.Time) int {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return int(now.Sub(jan1) / (7 * 24 * time.Hour))
}
