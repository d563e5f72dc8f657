// Package stats derives the human-facing views (current session, last break,
// daily totals, per-app usage) from the event log. Every view is recomputed
// from the log on each call; nothing here caches derived state.
package stats

import (
	"time"

	"screentrack/internal/engine"
	"screentrack/internal/models"
)

// Source is the slice of the event store the resolvers read.
type Source interface {
	EventsInRange(start, end time.Time) ([]models.Event, error)
	AppEventsInRange(start, end time.Time) ([]models.AppEvent, error)
}

// Resolver answers derived-view queries. All views that involve activity
// state go through the one period builder, so the tray, popup and dashboard
// can never disagree about the same instant.
type Resolver struct {
	source     Source
	builder    *engine.Builder
	debounce   time.Duration
	liveWindow time.Duration

	now func() time.Time
}

// New creates a resolver over the given source. Debounce is the longest
// inactive period the daily totals still count as active; liveWindow is the
// trailing window the session and break views reconstruct over.
func New(source Source, builder *engine.Builder, debounce, liveWindow time.Duration) *Resolver {
	return &Resolver{
		source:     source,
		builder:    builder,
		debounce:   debounce,
		liveWindow: liveWindow,
		now:        time.Now,
	}
}

// livePeriods reconstructs the trailing live window.
func (r *Resolver) livePeriods() ([]engine.Period, time.Time, error) {
	now := r.now()
	start := now.Add(-r.liveWindow)

	events, err := r.source.EventsInRange(start, now)
	if err != nil {
		return nil, now, err
	}

	return r.builder.Build(events, start, now, now), now, nil
}

// CurrentSession returns the still-open active period, or nil if the user is
// not active right now.
func (r *Resolver) CurrentSession() (*models.Session, error) {
	periods, now, err := r.livePeriods()
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}

	last := periods[len(periods)-1]
	if last.State != engine.StateActive {
		return nil, nil
	}

	return &models.Session{
		Start:           last.Start,
		DurationSeconds: now.Sub(last.Start).Seconds(),
	}, nil
}

// LastBreak returns the most recent inactive period. An open break (the user
// is inactive right now) has a nil End and a duration that grows with now.
func (r *Resolver) LastBreak() (*models.Break, error) {
	periods, now, err := r.livePeriods()
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}

	last := periods[len(periods)-1]
	if last.State == engine.StateInactive {
		return &models.Break{
			Start:           last.Start,
			DurationSeconds: now.Sub(last.Start).Seconds(),
		}, nil
	}

	for i := len(periods) - 2; i >= 0; i-- {
		if periods[i].State != engine.StateInactive {
			continue
		}
		end := periods[i].End
		return &models.Break{
			Start:           periods[i].Start,
			End:             &end,
			DurationSeconds: end.Sub(periods[i].Start).Seconds(),
		}, nil
	}

	return nil, nil
}

// IsActive reports whether an active session is open right now.
func (r *Resolver) IsActive() (bool, error) {
	session, err := r.CurrentSession()
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// PeriodsForDay reconstructs the raw periods of one calendar day, clipped to
// now for the current day. Day is truncated to midnight in its own location.
func (r *Resolver) PeriodsForDay(day time.Time) ([]engine.Period, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	now := r.now()

	events, err := r.source.EventsInRange(start, end)
	if err != nil {
		return nil, err
	}

	return r.builder.Build(events, start, end, now), nil
}

// DailyTotals sums active and inactive seconds for one calendar day.
// Inactive periods shorter than the debounce threshold count as active:
// a brief lock screen or context switch is not a break. The debounce lives
// here, not in the period builder, so the raw period list stays untouched.
func (r *Resolver) DailyTotals(day time.Time) (*models.DailyTotals, error) {
	periods, err := r.PeriodsForDay(day)
	if err != nil {
		return nil, err
	}

	totals := &models.DailyTotals{Day: day.Format("2006-01-02")}
	for _, p := range periods {
		d := p.Duration().Seconds()
		if p.State == engine.StateInactive && p.Duration() >= r.debounce {
			totals.InactiveSeconds += d
		} else {
			totals.ActiveSeconds += d
		}
	}

	return totals, nil
}
