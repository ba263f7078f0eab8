package notification

import (
	"fmt"

	"github.com/dooshek/mstts/internal/logger"
)

type darwinNotifier struct {
	run func(name string, args ...string) error
}

func newDarwinNotifier() platformNotifier {
	return &darwinNotifier{run: runCommand}
}

func (n *darwinNotifier) send(title, message string) error {
	logger.Debugf("Sending macOS notification: %s - %s", title, message)
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	if err := n.run("osascript", "-e", script); err != nil {
		logger.Error("Failed to send macOS notification", err)
		return err
	}
	return nil
}
