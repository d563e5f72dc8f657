package engine

import (
	"fmt"
	"sort"
	"time"

	"screentrack/internal/models"
)

// Period is a contiguous span of time with a single activity state, derived
// from the event log. Periods are recomputed on every query and never
// persisted. For any window the emitted periods are contiguous and
// non-overlapping: the first starts at the window start and the last ends at
// min(window end, now).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	State State     `json:"state"`

	// Trigger is the event that closed this period, or a synthetic gap
	// event for periods covering event-less gaps. Nil for the final
	// open-ended period.
	Trigger *models.Event `json:"trigger_event,omitempty"`

	// Events are the contextual events that fell inside this period,
	// including neutral ones that caused no boundary.
	Events []models.Event `json:"events,omitempty"`
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Builder reconstructs activity periods from an event slice. Gap is the
// maximum event-less span that can be attributed to an active state; a
// longer silence while active is emitted as a synthetic inactive period.
// Build is a pure function of (events, window, now), so two calls with the
// same inputs yield identical periods.
type Builder struct {
	classifier *Classifier
	gap        time.Duration
}

// NewBuilder creates a builder using the given classifier and gap threshold.
// A nil classifier means the default vocabulary.
func NewBuilder(c *Classifier, gap time.Duration) *Builder {
	if c == nil {
		c = NewClassifier()
	}
	return &Builder{classifier: c, gap: gap}
}

// Build walks the events covering [windowStart, windowEnd] and emits the
// reconstructed periods. The default state is inactive: absence of evidence
// means inactive. Events sharing a timestamp are processed in sequence
// order, so the last writer decides the boundary state. Zero-duration
// periods (duplicate boundary events, tracker restarts) are dropped.
func (b *Builder) Build(events []models.Event, windowStart, windowEnd, now time.Time) []Period {
	end := windowEnd
	if now.Before(end) {
		end = now
	}
	if !end.After(windowStart) {
		return nil
	}

	ordered := make([]models.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Sequence < ordered[j].Sequence
		}
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var (
		periods   []Period
		cursor    = windowStart
		state     = StateInactive
		lastEvent = windowStart
		pending   []models.Event
	)

	emit := func(p Period) {
		if p.End.After(p.Start) {
			periods = append(periods, p)
		}
	}

	for i := range ordered {
		ev := ordered[i]
		if ev.Timestamp.Before(windowStart) || ev.Timestamp.After(end) {
			continue
		}

		// An event-less gap only breaks an active run. Inactivity
		// followed by silence is not a new fact; it is absorbed.
		if state == StateActive && ev.Timestamp.Sub(lastEvent) > b.gap {
			emit(Period{Start: cursor, End: lastEvent, State: state, Events: pending})
			emit(Period{
				Start:   lastEvent,
				End:     ev.Timestamp,
				State:   StateInactive,
				Trigger: gapTrigger(lastEvent, ev.Timestamp),
			})
			cursor = ev.Timestamp
			state = StateInactive
			pending = nil
		}

		next := b.classifier.Classify(ev)
		if next == StateNeutral {
			pending = append(pending, ev)
			lastEvent = ev.Timestamp
			continue
		}

		if next != state {
			trigger := ev
			emit(Period{Start: cursor, End: ev.Timestamp, State: state, Trigger: &trigger, Events: pending})
			cursor = ev.Timestamp
			state = next
			pending = []models.Event{ev}
		} else {
			pending = append(pending, ev)
		}
		lastEvent = ev.Timestamp
	}

	// Tail gap check against the effective window end. The poller may have
	// died or the machine slept without a clean suspend event.
	if state == StateActive && end.Sub(lastEvent) > b.gap {
		emit(Period{Start: cursor, End: lastEvent, State: state, Events: pending})
		emit(Period{
			Start:   lastEvent,
			End:     end,
			State:   StateInactive,
			Trigger: gapTrigger(lastEvent, end),
		})
	} else {
		emit(Period{Start: cursor, End: end, State: state, Events: pending})
	}

	return periods
}

func gapTrigger(from, to time.Time) *models.Event {
	return &models.Event{
		Timestamp: from,
		Type:      models.EventGap,
		Detail:    fmt.Sprintf("%.0fs gap", to.Sub(from).Seconds()),
	}
}
