package notification

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dooshek/mstts/internal/logger"
)

const appTitle = "mstts"

// Notifier defines the interface for system notifications
type Notifier interface {
	Notify(title, message string) error
}

// SilentNotifier is a no-op implementation for headless runs
type SilentNotifier struct{}

func NewSilent() Notifier {
	return &SilentNotifier{}
}

func (s *SilentNotifier) Notify(title, message string) error { return nil }

// getenv is swapped in tests
var getenv = os.Getenv

// NewFor returns the silent notifier when quiet is set or no graphical
// session is available, and the platform notifier otherwise
func NewFor(quiet bool) Notifier {
	if quiet || headless(runtime.GOOS) {
		logger.Debug("Desktop notifications disabled")
		return NewSilent()
	}
	return New()
}

// headless reports a Linux session without an X11 or Wayland display
func headless(goos string) bool {
	if goos == "darwin" {
		return false
	}
	return getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == ""
}

type baseNotifier struct {
	platform platformNotifier
}

type platformNotifier interface {
	send(title, message string) error
}

// New creates a new platform-specific notification service
func New() Notifier {
	logger.Debug("Initializing notification system")
	var platform platformNotifier
	switch runtime.GOOS {
	case "darwin":
		logger.Debug("Using Darwin (macOS) notifier")
		platform = newDarwinNotifier()
	default:
		logger.Debug("Using Linux notifier")
		platform = newLinuxNotifier()
	}
	return &baseNotifier{platform: platform}
}

func (n *baseNotifier) Notify(title, message string) error {
	return n.platform.send(title, message)
}

// FailureObserver raises a desktop notification for every failed synthesis
type FailureObserver struct {
	notifier Notifier
}

// NewFailureObserver wraps notifier as a tts.Observer
func NewFailureObserver(notifier Notifier) *FailureObserver {
	return &FailureObserver{notifier: notifier}
}

// ObserveSynthesis notifies when ok is false
func (o *FailureObserver) ObserveSynthesis(platform string, bytes int, ok bool, took time.Duration) {
	if ok {
		return
	}
	if err := o.notifier.Notify(appTitle, formatFailureMessage(platform, took)); err != nil {
		logger.Debugf("Failed to send failure notification: %v", err)
	}
}

func formatFailureMessage(platform string, took time.Duration) string {
	return fmt.Sprintf("Speech synthesis on %s failed after %s", platform, took.Round(time.Millisecond))
}
