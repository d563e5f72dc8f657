package engine

import (
	"strings"

	"screentrack/internal/models"
)

// State is the activity classification of an event or period.
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"

	// StateNeutral events carry no state implication; they are attached to
	// the period they fall in as context.
	StateNeutral State = "neutral"
)

// Rule classifies a single event.
type Rule func(e models.Event) State

// Classifier maps event types to classification rules. The table is resolved
// once at construction; an event type with no rule classifies as neutral, so
// new or unknown types never corrupt existing windows.
type Classifier struct {
	rules map[models.EventType]Rule
}

// NewClassifier returns a classifier with the default vocabulary.
func NewClassifier() *Classifier {
	c := &Classifier{rules: make(map[models.EventType]Rule)}

	for _, t := range []models.EventType{
		models.EventScreenOn,
		models.EventIdleEnd,
		models.EventLidOpen,
		models.EventSystemResume,
	} {
		c.rules[t] = Fixed(StateActive)
	}

	for _, t := range []models.EventType{
		models.EventScreenOff,
		models.EventIdleStart,
		models.EventLidClosed,
		models.EventSystemSuspend,
	} {
		c.rules[t] = Fixed(StateInactive)
	}

	c.rules[models.EventPoll] = pollDetail

	return c
}

// Fixed returns a rule that classifies every event as the given state.
func Fixed(s State) Rule {
	return func(models.Event) State { return s }
}

// Register installs a rule for an event type, replacing any existing one.
// Call during setup; the table is not synchronized for concurrent mutation.
func (c *Classifier) Register(t models.EventType, r Rule) {
	c.rules[t] = r
}

// Classify maps one event to active, inactive or neutral.
func (c *Classifier) Classify(e models.Event) State {
	if r, ok := c.rules[e.Type]; ok {
		return r(e)
	}
	return StateNeutral
}

// pollDetail inspects a poll event's detail for an embedded state hint.
func pollDetail(e models.Event) State {
	if strings.Contains(e.Detail, "state=active") {
		return StateActive
	}
	if strings.Contains(e.Detail, "state=inactive") {
		return StateInactive
	}
	return StateNeutral
}
