package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"screentrack/internal/config"
	"screentrack/internal/models"
	"screentrack/internal/reporter"
	"screentrack/internal/stats"
	"screentrack/pkg/timefmt"
)

type Handler struct {
	config   *config.Config
	resolver *stats.Resolver
	source   stats.Source
	reporter *reporter.Reporter
}

func NewHandler(cfg *config.Config, resolver *stats.Resolver, source stats.Source) *Handler {
	return &Handler{
		config:   cfg,
		resolver: resolver,
		source:   source,
		reporter: reporter.New(cfg, resolver),
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/session", h.handleSession)
	mux.HandleFunc("/api/break", h.handleBreak)
	mux.HandleFunc("/api/daily", h.handleDaily)
	mux.HandleFunc("/api/apps", h.handleApps)
	mux.HandleFunc("/api/periods", h.handlePeriods)
	mux.HandleFunc("/api/events", h.handleEvents)
	mux.HandleFunc("/api/report", h.handleReport)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := h.resolver.CurrentSession()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get session: %v", err), http.StatusInternalServerError)
		return
	}
	brk, err := h.resolver.LastBreak()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get break: %v", err), http.StatusInternalServerError)
		return
	}

	status := map[string]interface{}{
		"active":        session != nil,
		"poll_interval": h.config.Tracker.PollInterval.String(),
		"database_path": h.config.Database.Path,
	}
	if session != nil {
		status["session"] = session
	}
	if brk != nil {
		status["last_break"] = brk
	}

	respondJSON(w, status)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := h.resolver.CurrentSession()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get session: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{"active": session != nil}
	if session != nil {
		response["session"] = session
	}
	respondJSON(w, response)
}

func (h *Handler) handleBreak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	brk, err := h.resolver.LastBreak()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get break: %v", err), http.StatusInternalServerError)
		return
	}

	if brk == nil {
		http.Error(w, "No break found", http.StatusNotFound)
		return
	}
	respondJSON(w, brk)
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	day, err := h.parseDay(r.URL.Query().Get("day"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	totals, err := h.resolver.DailyTotals(day)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get daily totals: %v", err), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<div class="totals"><span class="active">Active: %s</span> <span class="inactive">Inactive: %s</span></div>`,
			timefmt.FormatHoursMinutes(int64(totals.ActiveSeconds)),
			timefmt.FormatHoursMinutes(int64(totals.InactiveSeconds)))
		return
	}

	respondJSON(w, totals)
}

func (h *Handler) handleApps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	day, err := h.parseDay(query.Get("day"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := h.config.Report.TopApps
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	apps, err := h.resolver.TopApps(day, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get app usage: %v", err), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		h.respondAppsHTML(w, apps)
		return
	}

	respondJSON(w, apps)
}

func (h *Handler) respondAppsHTML(w http.ResponseWriter, apps []models.AppSummary) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if len(apps) == 0 {
		w.Write([]byte(`<div class="loading">No data available</div>`))
		return
	}

	var totalSeconds int64
	html := `<div class="listing">`
	for _, app := range apps {
		totalSeconds += app.TotalSeconds
		html += fmt.Sprintf(`
		<div class="app-item" style="--bar-width: %.1f%%">
			<span class="app-name">%s</span>
			<div>
				<span class="app-time">%s</span>
				<span class="app-percentage">%.1f%%</span>
			</div>
		</div>`, app.Percentage, template.HTMLEscapeString(app.AppName),
			timefmt.FormatRoundedUnit(app.TotalSeconds), app.Percentage)
	}
	html += `</div>`
	html += fmt.Sprintf(`<div class="total">Total: %s</div>`, timefmt.FormatRoundedUnit(totalSeconds))

	w.Write([]byte(html))
}

func (h *Handler) handlePeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	day, err := h.parseDay(r.URL.Query().Get("day"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	periods, err := h.resolver.PeriodsForDay(day)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get periods: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, periods)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	end := time.Now()
	start := end.Add(-24 * time.Hour)

	if dayStr := query.Get("day"); dayStr != "" {
		day, err := h.parseDay(dayStr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end = start.Add(24 * time.Hour)
	}

	events, err := h.source.EventsInRange(start, end)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch events: %v", err), http.StatusInternalServerError)
		return
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && len(events) > limit {
			events = events[len(events)-limit:]
		}
	}

	respondJSON(w, events)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, report)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// parseDay interprets an optional YYYY-MM-DD query value, defaulting to
// today.
func (h *Handler) parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD)", value)
	}
	return day, nil
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
