package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"screentrack/internal/config"
	"screentrack/internal/models"
	"screentrack/pkg/probe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu        sync.Mutex
	events    []models.Event
	appEvents []models.AppEvent
}

func (f *fakeRecorder) AppendEvent(typ models.EventType, detail string, at time.Time) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if at.IsZero() {
		at = time.Now()
	}
	e := models.Event{Sequence: int64(len(f.events) + 1), Timestamp: at, Type: typ, Detail: detail}
	f.events = append(f.events, e)
	return &e, nil
}

func (f *fakeRecorder) AppendAppEvent(appName, windowTitle string, typ models.AppEventType, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appEvents = append(f.appEvents, models.AppEvent{
		Timestamp: at, AppName: appName, WindowTitle: windowTitle, EventType: typ,
	})
	return nil
}

func (f *fakeRecorder) eventTypes() []models.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]models.EventType, len(f.events))
	for i, e := range f.events {
		types[i] = e.Type
	}
	return types
}

func newTestService(rec *fakeRecorder, det probe.Detector) *Service {
	cfg := config.Default()
	return NewService(cfg, rec, det)
}

func TestTrackInitialScreenOn(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: true, AppName: "firefox"})
	svc := newTestService(rec, det)

	svc.trackInitial()

	require.Len(t, rec.events, 2)
	assert.Equal(t, models.EventScreenOn, rec.events[0].Type)
	assert.Equal(t, models.EventAppSwitch, rec.events[1].Type)
	assert.Equal(t, "none -> firefox", rec.events[1].Detail)
	assert.True(t, svc.active)

	require.Len(t, rec.appEvents, 1)
	assert.Equal(t, models.AppSwitchTo, rec.appEvents[0].EventType)
	assert.Equal(t, "firefox", rec.appEvents[0].AppName)
}

func TestTrackInitialScreenOff(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: false})
	svc := newTestService(rec, det)

	svc.trackInitial()

	require.Len(t, rec.events, 1)
	assert.Equal(t, models.EventScreenOff, rec.events[0].Type)
	assert.False(t, svc.active)
}

func TestTrackOnceIdleTransitionIsBackdated(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: true, IdleSeconds: 700, AppName: "firefox"})
	svc := newTestService(rec, det)
	svc.active = true
	svc.currentApp = "firefox"

	before := time.Now()
	require.NoError(t, svc.trackOnce())

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, models.EventIdleStart, ev.Type)
	assert.Equal(t, "idle > 600s", ev.Detail)
	// The event carries the instant idleness began, 700s before now.
	assert.WithinDuration(t, before.Add(-700*time.Second), ev.Timestamp, time.Second)
	assert.False(t, svc.active)

	// Going inactive closed the open app session.
	require.Len(t, rec.appEvents, 1)
	assert.Equal(t, models.AppSwitchFrom, rec.appEvents[0].EventType)
	assert.Equal(t, "firefox", rec.appEvents[0].AppName)
}

func TestTrackOnceScreenOffWinsOverIdle(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: false, IdleSeconds: 30})
	svc := newTestService(rec, det)
	svc.active = true

	require.NoError(t, svc.trackOnce())

	require.Len(t, rec.events, 1)
	assert.Equal(t, models.EventScreenOff, rec.events[0].Type)
}

func TestTrackOnceResumeIsBackdated(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: true, IdleSeconds: 3})
	svc := newTestService(rec, det)
	svc.active = false

	before := time.Now()
	require.NoError(t, svc.trackOnce())

	require.Len(t, rec.events, 1)
	assert.Equal(t, models.EventIdleEnd, rec.events[0].Type)
	assert.WithinDuration(t, before.Add(-3*time.Second), rec.events[0].Timestamp, time.Second)
	assert.True(t, svc.active)
}

func TestTrackOnceNoTransitionNoEvent(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: true, IdleSeconds: 5, AppName: "firefox"})
	svc := newTestService(rec, det)
	svc.active = true
	svc.currentApp = "firefox"

	require.NoError(t, svc.trackOnce())

	assert.Empty(t, rec.events)
	assert.Empty(t, rec.appEvents)
}

func TestTrackOnceAppSwitch(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: true, AppName: "code", WindowTitle: "main.go"})
	svc := newTestService(rec, det)
	svc.active = true
	svc.currentApp = "firefox"

	require.NoError(t, svc.trackOnce())

	require.Len(t, rec.appEvents, 2)
	assert.Equal(t, models.AppSwitchFrom, rec.appEvents[0].EventType)
	assert.Equal(t, "firefox", rec.appEvents[0].AppName)
	assert.Equal(t, models.AppSwitchTo, rec.appEvents[1].EventType)
	assert.Equal(t, "code", rec.appEvents[1].AppName)
	assert.Equal(t, "main.go", rec.appEvents[1].WindowTitle)

	require.Len(t, rec.events, 1)
	assert.Equal(t, models.EventAppSwitch, rec.events[0].Type)
	assert.Equal(t, "firefox -> code", rec.events[0].Detail)
}

func TestStartStopBracketsTheLog(t *testing.T) {
	rec := &fakeRecorder{}
	det := probe.NewMock(probe.Reading{ScreenOn: true, AppName: "firefox"})
	cfg := config.Default()
	cfg.Tracker.PollInterval = 10 * time.Millisecond
	svc := NewService(cfg, rec, det)

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	svc.Stop()
	require.NoError(t, <-done)

	types := rec.eventTypes()
	require.NotEmpty(t, types)
	assert.Equal(t, models.EventTrackerStart, types[0])
	assert.Equal(t, models.EventTrackerStop, types[len(types)-1])
	assert.False(t, svc.IsRunning())
}
