package stats

import (
	"sort"
	"time"

	"screentrack/internal/models"
)

// unknownApp collects time whose attribution failed (empty app names), so
// total time is conserved even when the focus probe misbehaves.
const unknownApp = "unknown"

// UsageForPeriod computes seconds spent per application between start and
// end by pairing switch_to/switch_from events. An app session still open at
// the end of the walk is credited up to min(end, now), never past now, so a
// rolling window called repeatedly cannot count not-yet-elapsed time.
func (r *Resolver) UsageForPeriod(start, end time.Time) (map[string]float64, error) {
	now := r.now()
	effectiveEnd := end
	if now.Before(effectiveEnd) {
		effectiveEnd = now
	}

	events, err := r.source.AppEventsInRange(start, end)
	if err != nil {
		return nil, err
	}

	usage := make(map[string]float64)
	var (
		currentApp string
		openSince  time.Time
		open       bool
	)

	credit := func(app string, from, to time.Time) {
		if app == "" {
			app = unknownApp
		}
		if to.After(from) {
			usage[app] += to.Sub(from).Seconds()
		}
	}

	for _, ev := range events {
		switch ev.EventType {
		case models.AppSwitchTo:
			if open {
				credit(currentApp, openSince, ev.Timestamp)
			}
			currentApp = ev.AppName
			openSince = ev.Timestamp
			open = true

		case models.AppSwitchFrom:
			// An unmatched switch_from (tracker restart, lost event)
			// closes nothing.
			if open && ev.AppName == currentApp {
				credit(currentApp, openSince, ev.Timestamp)
				open = false
			}
		}
	}

	if open {
		credit(currentApp, openSince, effectiveEnd)
	}

	return usage, nil
}

// TopApps returns the most used applications of one calendar day, sorted by
// time descending and capped at limit.
func (r *Resolver) TopApps(day time.Time, limit int) ([]models.AppSummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	usage, err := r.UsageForPeriod(start, start.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	return RankUsage(usage, limit), nil
}

// RankUsage converts a usage map to sorted summaries with percentages. Ties
// break by name so the ranking is stable.
func RankUsage(usage map[string]float64, limit int) []models.AppSummary {
	summaries := make([]models.AppSummary, 0, len(usage))
	var total float64
	for app, seconds := range usage {
		summaries = append(summaries, models.AppSummary{
			AppName:      app,
			TotalSeconds: int64(seconds),
			TotalMinutes: seconds / 60.0,
			TotalHours:   seconds / 3600.0,
		})
		total += seconds
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSeconds == summaries[j].TotalSeconds {
			return summaries[i].AppName < summaries[j].AppName
		}
		return summaries[i].TotalSeconds > summaries[j].TotalSeconds
	})

	if total > 0 {
		for i := range summaries {
			summaries[i].Percentage = float64(summaries[i].TotalSeconds) / total * 100.0
		}
	}

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}
