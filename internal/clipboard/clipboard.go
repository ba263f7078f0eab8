package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dooshek/mstts/internal/logger"
)

// ErrNoClipboardTool is returned when no clipboard reader is installed
var ErrNoClipboardTool = errors.New("no clipboard tool found (install wl-clipboard or xclip)")

var (
	lookPath = exec.LookPath
	output   = func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).Output()
	}
)

// readCommand picks the clipboard reader for the current session
func readCommand() ([]string, error) {
	if runtime.GOOS == "darwin" {
		return []string{"pbpaste"}, nil
	}

	candidates := [][]string{
		{"xclip", "-selection", "clipboard", "-o"},
		{"xsel", "--clipboard", "--output"},
	}
	if isWayland() {
		candidates = append([][]string{{"wl-paste", "--no-newline"}}, candidates...)
	}

	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoClipboardTool
}

// Read returns the current clipboard text with surrounding whitespace trimmed
func Read() (string, error) {
	cmd, err := readCommand()
	if err != nil {
		return "", err
	}

	logger.Debugf("clipboard: reading with %s", cmd[0])
	out, err := output(cmd[0], cmd[1:]...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != "" || os.Getenv("XDG_SESSION_TYPE") == "wayland"
}
