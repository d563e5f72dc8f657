package models

import "time"

// EventType identifies what kind of fact an Event records.
type EventType string

const (
	EventScreenOn      EventType = "screen_on"
	EventScreenOff     EventType = "screen_off"
	EventIdleStart     EventType = "idle_start"
	EventIdleEnd       EventType = "idle_end"
	EventLidOpen       EventType = "lid_open"
	EventLidClosed     EventType = "lid_closed"
	EventSystemSuspend EventType = "system_suspend"
	EventSystemResume  EventType = "system_resume"
	EventAppSwitch     EventType = "app_switch"
	EventPoll          EventType = "poll"
	EventTrackerStart  EventType = "tracker_start"
	EventTrackerStop   EventType = "tracker_stop"

	// EventGap is never persisted. The period builder synthesizes it as the
	// trigger of inactive periods covering event-less gaps.
	EventGap EventType = "gap"
)

// Event is one immutable row of the activity log. Rows are never updated or
// deleted; corrections are new events. Sequence is assigned by the store and
// breaks ties when timestamps collide, since producers may backdate events
// ("idle started 300s ago").
type Event struct {
	Sequence  int64     `gorm:"primaryKey;autoIncrement" json:"sequence"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Type      EventType `gorm:"not null;index" json:"type"`
	Detail    string    `json:"detail"`
}
