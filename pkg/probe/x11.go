package probe

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// X11Detector samples idle time, monitor power and window focus through the
// standard X11 command line tools. Each of the three probes degrades
// independently: a missing tool yields a safe default, not an error, so a
// partial install still produces a usable event stream.
type X11Detector struct{}

func NewX11Detector() *X11Detector {
	return &X11Detector{}
}

func (d *X11Detector) Sample() (*Reading, error) {
	reading := &Reading{
		ScreenOn:    d.screenOn(),
		IdleSeconds: d.idleSeconds(),
	}
	reading.AppName, reading.WindowTitle = d.focusedWindow()
	return reading, nil
}

func (d *X11Detector) IsAvailable() bool {
	if os.Getenv("DISPLAY") == "" {
		return false
	}
	_, err := exec.LookPath("xprintidle")
	return err == nil
}

func (d *X11Detector) Close() error { return nil }

// idleSeconds shells out to xprintidle; zero when unavailable, so a box
// without the tool never spuriously goes idle.
func (d *X11Detector) idleSeconds() float64 {
	out, err := exec.Command("xprintidle").Output()
	if err != nil {
		return 0
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0
	}
	return float64(ms) / 1000.0
}

// screenOn queries xset; an unavailable tool reads as "on".
func (d *X11Detector) screenOn() bool {
	out, err := exec.Command("xset", "-q").Output()
	if err != nil {
		return true
	}
	return strings.Contains(string(out), "Monitor is On")
}

// focusedWindow queries xdotool for the active window's class and title.
func (d *X11Detector) focusedWindow() (string, string) {
	id, err := exec.Command("xdotool", "getactivewindow").Output()
	if err != nil {
		return "", ""
	}
	windowID := strings.TrimSpace(string(id))

	class, err := exec.Command("xdotool", "getwindowclassname", windowID).Output()
	if err != nil {
		return "", ""
	}

	title, _ := exec.Command("xdotool", "getwindowname", windowID).Output()
	return strings.ToLower(strings.TrimSpace(string(class))), strings.TrimSpace(string(title))
}

// New returns the first available detector for this system. Systems without
// a usable display probe get an error rather than a silently empty stream.
func New() (Detector, error) {
	x11 := NewX11Detector()
	if x11.IsAvailable() {
		return x11, nil
	}
	return nil, fmt.Errorf("no platform probe available (xprintidle not found or no DISPLAY)")
}
