package models

import "time"

// AppEventType marks the direction of an application focus change.
type AppEventType string

const (
	AppSwitchTo   AppEventType = "switch_to"
	AppSwitchFrom AppEventType = "switch_from"
)

// AppEvent is one row of the append-only application focus log, kept in a
// table parallel to the main event log.
type AppEvent struct {
	Sequence    int64        `gorm:"primaryKey;autoIncrement" json:"sequence"`
	Timestamp   time.Time    `gorm:"not null;index" json:"timestamp"`
	AppName     string       `gorm:"index" json:"app_name"`
	WindowTitle string       `json:"window_title"`
	EventType   AppEventType `gorm:"not null" json:"event_type"`
}
