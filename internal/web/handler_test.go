package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"screentrack/internal/config"
	"screentrack/internal/engine"
	"screentrack/internal/models"
	"screentrack/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	events    []models.Event
	appEvents []models.AppEvent
}

func (f *fakeSource) EventsInRange(start, end time.Time) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if !e.Timestamp.Before(start) && !e.Timestamp.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) AppEventsInRange(start, end time.Time) ([]models.AppEvent, error) {
	var out []models.AppEvent
	for _, e := range f.appEvents {
		if !e.Timestamp.Before(start) && !e.Timestamp.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestMux(src *fakeSource) *http.ServeMux {
	cfg := config.Default()
	resolver := stats.New(src, engine.NewBuilder(nil, cfg.EffectiveGapThreshold()),
		cfg.EffectiveDebounceThreshold(), cfg.Tracker.LiveWindow)
	mux := http.NewServeMux()
	NewHandler(cfg, resolver, src).SetupRoutes(mux)
	return mux
}

func get(t *testing.T, mux *http.ServeMux, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleSessionActive(t *testing.T) {
	src := &fakeSource{events: []models.Event{
		{Sequence: 1, Timestamp: time.Now().Add(-5 * time.Minute), Type: models.EventScreenOn},
	}}

	rec := get(t, newTestMux(src), "/api/session", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["active"])
	assert.Contains(t, body, "session")
}

func TestHandleSessionInactive(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}), "/api/session", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["active"])
}

func TestHandleBreakOpenOnEmptyLog(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}), "/api/break", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var brk models.Break
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &brk))
	assert.Nil(t, brk.End)
}

func TestHandleDailyJSON(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}), "/api/daily", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var totals models.DailyTotals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.Equal(t, time.Now().Format("2006-01-02"), totals.Day)
}

func TestHandleDailyBadDay(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}), "/api/daily?day=03-10-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAppsHTMLFragment(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	src := &fakeSource{appEvents: []models.AppEvent{
		{Timestamp: day.Add(10 * time.Hour), AppName: "firefox", EventType: models.AppSwitchTo},
		{Timestamp: day.Add(11 * time.Hour), AppName: "firefox", EventType: models.AppSwitchFrom},
	}}

	rec := get(t, newTestMux(src), "/api/apps?day=2026-03-10", map[string]string{"HX-Request": "true"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "firefox")
	assert.Contains(t, rec.Body.String(), "app-item")
}

func TestHandleAppsEscapesNames(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	src := &fakeSource{appEvents: []models.AppEvent{
		{Timestamp: day.Add(10 * time.Hour), AppName: "<script>", EventType: models.AppSwitchTo},
		{Timestamp: day.Add(11 * time.Hour), AppName: "<script>", EventType: models.AppSwitchFrom},
	}}

	rec := get(t, newTestMux(src), "/api/apps?day=2026-03-10", map[string]string{"HX-Request": "true"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestHandlePeriods(t *testing.T) {
	src := &fakeSource{events: []models.Event{
		{Sequence: 1, Timestamp: time.Now().Add(-time.Minute), Type: models.EventScreenOn},
	}}

	rec := get(t, newTestMux(src), "/api/periods", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var periods []engine.Period
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &periods))
	assert.NotEmpty(t, periods)
}

func TestHandleEventsLimit(t *testing.T) {
	now := time.Now()
	src := &fakeSource{events: []models.Event{
		{Sequence: 1, Timestamp: now.Add(-3 * time.Minute), Type: models.EventScreenOn},
		{Sequence: 2, Timestamp: now.Add(-2 * time.Minute), Type: models.EventIdleStart},
		{Sequence: 3, Timestamp: now.Add(-1 * time.Minute), Type: models.EventIdleEnd},
	}}

	rec := get(t, newTestMux(src), "/api/events?limit=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var events []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].Sequence)
}

func TestHandleMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	rec := httptest.NewRecorder()
	newTestMux(&fakeSource{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}), "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleIndex(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}), "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Screentrack Dashboard")

	notFound := get(t, newTestMux(&fakeSource{}), "/nope", nil)
	assert.Equal(t, http.StatusNotFound, notFound.Code)
}
