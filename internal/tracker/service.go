package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"screentrack/internal/config"
	"screentrack/internal/models"
	"screentrack/pkg/probe"
)

// Recorder is the append-only slice of the store the tracker writes to.
type Recorder interface {
	AppendEvent(typ models.EventType, detail string, at time.Time) (*models.Event, error)
	AppendAppEvent(appName, windowTitle string, typ models.AppEventType, at time.Time) error
}

// Service polls the platform probe and appends state-transition events to
// the log. It is the single writer; everything downstream is derived from
// what it appends.
type Service struct {
	config   *config.Config
	rec      Recorder
	detector probe.Detector
	stopChan chan struct{}
	running  bool

	active     bool
	currentApp string
}

func NewService(cfg *config.Config, rec Recorder, detector probe.Detector) *Service {
	return &Service{
		config:   cfg,
		rec:      rec,
		detector: detector,
		stopChan: make(chan struct{}),
		running:  false,
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("tracker is already running")
	}

	s.running = true
	log.Printf("Starting tracker with %v poll interval", s.config.Tracker.PollInterval)

	s.append(models.EventTrackerStart, "", time.Time{})
	s.trackInitial()

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Tracker stopped by context")
			s.shutdown()
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Tracker stopped")
			s.shutdown()
			return nil

		case <-ticker.C:
			if err := s.trackOnce(); err != nil {
				log.Printf("Track error: %v", err)
			}
		}
	}
}

func (s *Service) Stop() {
	if s.running {
		close(s.stopChan)
	}
}

func (s *Service) IsRunning() bool {
	return s.running
}

// trackInitial records the state the tracker wakes up in.
func (s *Service) trackInitial() {
	reading, err := s.detector.Sample()
	if err != nil {
		log.Printf("Initial sample failed, assuming inactive: %v", err)
		s.active = false
		return
	}

	if reading.ScreenOn {
		s.append(models.EventScreenOn, "", time.Time{})
		s.active = true
		s.trackApp(reading, time.Now())
	} else {
		s.append(models.EventScreenOff, "", time.Time{})
		s.active = false
	}
}

// trackOnce samples the probe and appends whatever transitions it implies.
func (s *Service) trackOnce() error {
	reading, err := s.detector.Sample()
	if err != nil {
		return fmt.Errorf("failed to sample probe: %w", err)
	}

	now := time.Now()
	idle := time.Duration(reading.IdleSeconds * float64(time.Second))
	shouldBeActive := reading.ScreenOn && idle < s.config.Tracker.IdleThreshold

	switch {
	case shouldBeActive && !s.active:
		// Backdate the transition to when input actually resumed.
		s.append(models.EventIdleEnd, "", now.Add(-idle))
		s.active = true

	case !shouldBeActive && s.active:
		if !reading.ScreenOn {
			s.append(models.EventScreenOff, "", now)
		} else {
			// Backdate to the moment idleness began.
			detail := fmt.Sprintf("idle > %ds", s.config.GetIdleThresholdSeconds())
			s.append(models.EventIdleStart, detail, now.Add(-idle))
		}
		s.active = false
		s.closeAppSession(now)
	}

	if s.active {
		s.trackApp(reading, now)
	}

	return nil
}

// trackApp records focus changes while the user is active.
func (s *Service) trackApp(reading *probe.Reading, now time.Time) {
	if reading.AppName == "" || reading.AppName == s.currentApp {
		return
	}

	from := s.currentApp
	if from != "" {
		if err := s.rec.AppendAppEvent(from, "", models.AppSwitchFrom, now); err != nil {
			log.Printf("Failed to append app event: %v", err)
		}
	}
	if err := s.rec.AppendAppEvent(reading.AppName, reading.WindowTitle, models.AppSwitchTo, now); err != nil {
		log.Printf("Failed to append app event: %v", err)
	}

	if from == "" {
		from = "none"
	}
	s.append(models.EventAppSwitch, fmt.Sprintf("%s -> %s", from, reading.AppName), now)
	s.currentApp = reading.AppName
}

// closeAppSession ends the open app session when the user goes inactive, so
// idle time is never credited to the last focused app.
func (s *Service) closeAppSession(now time.Time) {
	if s.currentApp == "" {
		return
	}
	if err := s.rec.AppendAppEvent(s.currentApp, "", models.AppSwitchFrom, now); err != nil {
		log.Printf("Failed to append app event: %v", err)
	}
	s.currentApp = ""
}

func (s *Service) shutdown() {
	s.closeAppSession(time.Now())
	s.append(models.EventTrackerStop, "", time.Time{})
	s.running = false
}

func (s *Service) append(typ models.EventType, detail string, at time.Time) {
	if _, err := s.rec.AppendEvent(typ, detail, at); err != nil {
		log.Printf("Failed to append %s event: %v", typ, err)
	}
}
