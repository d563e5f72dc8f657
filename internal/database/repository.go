package database

import (
	"strings"
	"time"

	"screentrack/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for the activity and app logs.
// The write path is append-only: each insert is its own serialized
// transaction with a store-assigned sequence, so readers never observe a
// half-written event.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// AppendEvent inserts a new event into the activity log. A zero timestamp
// means "now"; producers may pass a backdated instant (e.g. when idleness
// actually began).
func (r *Repository) AppendEvent(typ models.EventType, detail string, at time.Time) (*models.Event, error) {
	if at.IsZero() {
		at = time.Now()
	}
	event := &models.Event{
		Timestamp: at,
		Type:      typ,
		Detail:    detail,
	}
	result := r.db.Create(event)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to append event")
	}
	return event, nil
}

// AppendAppEvent inserts a new application focus event into the app log.
func (r *Repository) AppendAppEvent(appName, windowTitle string, typ models.AppEventType, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	event := &models.AppEvent{
		Timestamp:   at,
		AppName:     strings.ToLower(appName),
		WindowTitle: windowTitle,
		EventType:   typ,
	}
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to append app event")
	}
	return nil
}

// EventsInRange retrieves all events with start <= timestamp <= end, ordered
// by (timestamp, sequence) so that backdated events land in their timestamp
// slot and sequence breaks ties deterministically.
func (r *Repository) EventsInRange(start, end time.Time) ([]models.Event, error) {
	var events []models.Event
	result := r.db.
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp ASC, sequence ASC").
		Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query events")
	}

	return events, nil
}

// AppEventsInRange retrieves all app events in the window, in timestamp order.
func (r *Repository) AppEventsInRange(start, end time.Time) ([]models.AppEvent, error) {
	var events []models.AppEvent
	result := r.db.
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp ASC, sequence ASC").
		Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app events")
	}

	return events, nil
}

// MostRecentOfTypes retrieves the latest event whose type is in types,
// optionally restricted to timestamps strictly before a given instant.
func (r *Repository) MostRecentOfTypes(types []models.EventType, before *time.Time) (*models.Event, error) {
	var event models.Event
	query := r.db.Where("type IN ?", types)
	if before != nil {
		query = query.Where("timestamp < ?", *before)
	}
	result := query.Order("timestamp DESC, sequence DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to query most recent event")
	}
	return &event, nil
}

// LatestEvent retrieves the most recent event of any type.
func (r *Repository) LatestEvent() (*models.Event, error) {
	var event models.Event
	result := r.db.Order("timestamp DESC, sequence DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// DeleteOldEvents prunes log rows older than a given date from both tables.
// This is retention maintenance, not a correction; reconstruction never
// mutates the log.
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.Event{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	deleted := result.RowsAffected

	result = r.db.Where("timestamp < ?", before).Delete(&models.AppEvent{})
	if result.Error != nil {
		return deleted, errors.Wrap(result.Error, "failed to delete old app events")
	}
	return deleted + result.RowsAffected, nil
}

// Clear removes all rows from both logs.
func (r *Repository) Clear() error {
	if result := r.db.Exec("DELETE FROM events"); result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear events")
	}
	if result := r.db.Exec("DELETE FROM app_events"); result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear app events")
	}
	return nil
}
