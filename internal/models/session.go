package models

import "time"

// Session is the current, still-open active period.
type Session struct {
	Start           time.Time `json:"start"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// Break is the most recent inactive period. End is nil while the break is
// still open.
type Break struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// DailyTotals are the per-day active/inactive sums after debouncing.
type DailyTotals struct {
	Day             string  `json:"day"`
	ActiveSeconds   float64 `json:"active_seconds"`
	InactiveSeconds float64 `json:"inactive_seconds"`
}
