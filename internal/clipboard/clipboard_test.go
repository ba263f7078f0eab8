package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTools(t *testing.T, installed ...string) *[]string {
	t.Helper()
	origLook, origOut := lookPath, output
	t.Cleanup(func() { lookPath, output = origLook, origOut })

	lookPath = func(file string) (string, error) {
		for _, name := range installed {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", exec.ErrNotFound
	}

	var ran []string
	output = func(name string, args ...string) ([]byte, error) {
		ran = append([]string{name}, args...)
		return []byte("  Grüße aus Köln\n"), nil
	}
	return &ran
}

func TestRead_X11(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("pbpaste is always used on macOS")
	}
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("XDG_SESSION_TYPE", "x11")
	ran := stubTools(t, "xclip", "wl-paste")

	text, err := Read()
	require.NoError(t, err)
	assert.Equal(t, "Grüße aus Köln", text)
	assert.Equal(t, []string{"xclip", "-selection", "clipboard", "-o"}, *ran)
}

func TestRead_WaylandPrefersWlPaste(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("pbpaste is always used on macOS")
	}
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	ran := stubTools(t, "xclip", "wl-paste")

	_, err := Read()
	require.NoError(t, err)
	assert.Equal(t, "wl-paste", (*ran)[0])
}

func TestRead_NoTool(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("pbpaste is always used on macOS")
	}
	stubTools(t)

	_, err := Read()
	assert.True(t, errors.Is(err, ErrNoClipboardTool))
}
