package probe

// Reading is one sample of the machine's activity-relevant state.
type Reading struct {
	ScreenOn    bool
	IdleSeconds float64
	AppName     string
	WindowTitle string
}

// Detector samples the platform's idle/screen/focus state. Implementations
// live outside this module (subprocess or D-Bus probes); the tracker only
// consumes the interface.
type Detector interface {
	// Sample returns the current reading.
	Sample() (*Reading, error)

	// IsAvailable checks if this detector can run on the current system.
	IsAvailable() bool

	// Close cleans up any resources used by the detector.
	Close() error
}
