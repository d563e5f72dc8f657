package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"screentrack/internal/config"
	"screentrack/internal/models"
	"screentrack/internal/stats"
	"screentrack/pkg/timefmt"
)

// Reporter assembles human-facing reports from the derived views.
type Reporter struct {
	config   *config.Config
	resolver *stats.Resolver
}

// New creates a new reporter
func New(cfg *config.Config, resolver *stats.Resolver) *Reporter {
	return &Reporter{
		config:   cfg,
		resolver: resolver,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Period:      *period,
		GeneratedAt: time.Now(),
	}

	// Sum daily totals day by day so the debounce policy applies per
	// calendar day, the same as the single-day view.
	for day := period.Start; day.Before(period.End); day = day.AddDate(0, 0, 1) {
		if day.After(time.Now()) {
			break
		}
		totals, err := r.resolver.DailyTotals(day)
		if err != nil {
			return nil, fmt.Errorf("failed to get daily totals: %w", err)
		}
		report.ActiveSeconds += totals.ActiveSeconds
		report.InactiveSeconds += totals.InactiveSeconds
	}

	usage, err := r.resolver.UsageForPeriod(period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get app usage: %w", err)
	}
	report.Apps = stats.RankUsage(usage, r.config.Report.TopApps)

	return report, nil
}

// getPeriod calculates the time range for the report
func (r *Reporter) getPeriod(periodType string) (*models.ReportPeriod, error) {
	now := time.Now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Activity Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Active:   %s\n", timefmt.FormatHoursMinutes(int64(report.ActiveSeconds)))
	output += fmt.Sprintf("Inactive: %s\n\n", timefmt.FormatHoursMinutes(int64(report.InactiveSeconds)))

	if len(report.Apps) == 0 {
		output += "No application usage recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-30s %10s %10s %10s\n", "Application", "Hours", "Minutes", "Percent")
	output += fmt.Sprintf("%s\n", "--------------------------------------------------------------------------------")

	for _, app := range report.Apps {
		output += fmt.Sprintf("%-30s %10.2f %10.0f %9.1f%%\n",
			truncate(app.AppName, 30),
			app.TotalHours,
			app.TotalMinutes,
			app.Percentage)
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// FormatStatusText renders the live session/break view for the CLI.
func (r *Reporter) FormatStatusText() (string, error) {
	session, err := r.resolver.CurrentSession()
	if err != nil {
		return "", fmt.Errorf("failed to get current session: %w", err)
	}
	brk, err := r.resolver.LastBreak()
	if err != nil {
		return "", fmt.Errorf("failed to get last break: %w", err)
	}

	var output string
	if session != nil {
		output += fmt.Sprintf("Currently active since %s (%s)\n",
			session.Start.Format("15:04:05"),
			timefmt.FormatHoursMinutes(int64(session.DurationSeconds)))
	} else {
		output += "Not currently active\n"
	}

	if brk != nil {
		if brk.End == nil {
			output += fmt.Sprintf("On break since %s (%s)\n",
				brk.Start.Format("15:04:05"),
				timefmt.FormatHoursMinutes(int64(brk.DurationSeconds)))
		} else {
			output += fmt.Sprintf("Last break: %s to %s (%s)\n",
				brk.Start.Format("15:04:05"),
				brk.End.Format("15:04:05"),
				timefmt.FormatHoursMinutes(int64(brk.DurationSeconds)))
		}
	}

	return output, nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
