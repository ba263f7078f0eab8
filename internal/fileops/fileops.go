package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/dooshek/mstts/internal/logger"
)

// ErrConfigNotFound is returned when a configuration file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrProcessAlreadyRunning is returned when another mstts daemon is running
var ErrProcessAlreadyRunning = errors.New("mstts process is already running")

// ErrInvalidFilename is returned for names that would escape the audio directory
var ErrInvalidFilename = errors.New("invalid audio filename")

// FileOps interface defines operations for managing files in the mstts config directory
type FileOps interface {
	// GetConfigDir returns the full path to the mstts config directory
	GetConfigDir() string

	// GetAudioDir returns the full path to the synthesized audio directory
	GetAudioDir() string

	// SaveConfig saves data to a file in the config directory
	SaveConfig(filename string, data []byte) error

	// LoadConfig loads data from a file in the config directory
	LoadConfig(filename string) ([]byte, error)

	// SaveAudio saves synthesized audio and returns its full path
	SaveAudio(filename string, data []byte) (string, error)

	// ListAudio returns the saved audio files, sorted by name
	ListAudio() ([]string, error)

	// DeleteAudio deletes a saved audio file
	DeleteAudio(filename string) error

	// EnsureDirectories creates necessary directories if they don't exist
	EnsureDirectories() error

	// SavePID saves the current process ID to a file
	SavePID() error

	// CheckPID checks if another instance is running
	// Returns ErrProcessAlreadyRunning if another instance is running
	CheckPID() error

	// CleanupPID removes the PID file
	CleanupPID() error

	// HandleExit ensures proper cleanup of PID file on application exit
	HandleExit()
}

// DefaultFileOps implements FileOps interface
type DefaultFileOps struct {
	configDir string
}

// NewDefaultFileOps creates a new DefaultFileOps rooted at ~/.config/mstts
func NewDefaultFileOps() (*DefaultFileOps, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewFileOps(filepath.Join(homeDir, ".config", "mstts")), nil
}

// NewFileOps creates a DefaultFileOps rooted at configDir
func NewFileOps(configDir string) *DefaultFileOps {
	return &DefaultFileOps{configDir: configDir}
}

func (f *DefaultFileOps) GetConfigDir() string {
	return f.configDir
}

func (f *DefaultFileOps) GetAudioDir() string {
	return filepath.Join(f.configDir, "audio")
}

func (f *DefaultFileOps) SaveConfig(filename string, data []byte) error {
	path := filepath.Join(f.configDir, filename)
	return os.WriteFile(path, data, 0o600) // holds API keys
}

func (f *DefaultFileOps) LoadConfig(filename string) ([]byte, error) {
	path := filepath.Join(f.configDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrConfigNotFound
	}
	return os.ReadFile(path)
}

func (f *DefaultFileOps) audioPath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(f.GetAudioDir(), filename), nil
}

func (f *DefaultFileOps) SaveAudio(filename string, data []byte) (string, error) {
	path, err := f.audioPath(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	logger.Debugf("Saved %d bytes of audio to %s", len(data), path)
	return path, nil
}

func (f *DefaultFileOps) ListAudio() ([]string, error) {
	files, err := os.ReadDir(f.GetAudioDir())
	if err != nil {
		return nil, err
	}

	var audio []string
	for _, file := range files {
		if !file.IsDir() {
			audio = append(audio, file.Name())
		}
	}
	sort.Strings(audio)
	return audio, nil
}

func (f *DefaultFileOps) DeleteAudio(filename string) error {
	path, err := f.audioPath(filename)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (f *DefaultFileOps) EnsureDirectories() error {
	// Create config directory
	if err := os.MkdirAll(f.configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create audio directory
	if err := os.MkdirAll(f.GetAudioDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	return nil
}

func (f *DefaultFileOps) getPIDFilePath() string {
	return filepath.Join(f.configDir, "mstts.pid")
}

func (f *DefaultFileOps) SavePID() error {
	pidFile := f.getPIDFilePath()
	pid := os.Getpid()
	return os.WriteFile(pidFile, []byte(strconv.Itoa(pid)), 0o644)
}

func (f *DefaultFileOps) CheckPID() error {
	pidFile := f.getPIDFilePath()

	data, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // PID file doesn't exist, application is not running
		}
		return fmt.Errorf("error reading PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("invalid PID in file: %w", err)
	}

	// Check if process exists by sending signal 0
	process, err := os.FindProcess(pid)
	if err != nil {
		return nil // Process doesn't exist
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return ErrProcessAlreadyRunning
	}

	// If we get here, the process doesn't exist but the PID file does
	logger.Debug("Found stale PID file, will be overwritten")
	return nil
}

func (f *DefaultFileOps) CleanupPID() error {
	return os.Remove(f.getPIDFilePath())
}

func (f *DefaultFileOps) HandleExit() {
	if err := f.CleanupPID(); err != nil {
		logger.Error("Failed to cleanup PID file on exit", err)
	}
}
