package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dooshek/mstts/internal/logger"
)

// PlatformStats holds synthesis statistics for a single TTS platform
type PlatformStats struct {
	Requests     int     `json:"requests"`
	Failures     int     `json:"failures"`
	Bytes        int64   `json:"bytes"`
	TotalSeconds float64 `json:"total_seconds"`
}

// Stats holds all synthesis statistics
type Stats struct {
	Platforms map[string]*PlatformStats `json:"platforms"`
}

// StatsManager manages synthesis statistics persistence
type StatsManager struct {
	stats    Stats
	filePath string
	mu       sync.Mutex
}

// NewStatsManager creates a stats manager backed by ~/.config/mstts/stats.json
func NewStatsManager() (*StatsManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewStatsManagerAt(filepath.Join(homeDir, ".config", "mstts", "stats.json")), nil
}

// NewStatsManagerAt creates a stats manager backed by filePath and loads existing data
func NewStatsManagerAt(filePath string) *StatsManager {
	sm := &StatsManager{
		filePath: filePath,
		stats: Stats{
			Platforms: make(map[string]*PlatformStats),
		},
	}

	// Load existing stats if available
	if err := sm.load(); err != nil {
		logger.Debugf("Could not load stats (will start fresh): %v", err)
	}

	return sm
}

// ObserveSynthesis records one synthesis call and persists immediately
func (sm *StatsManager) ObserveSynthesis(platform string, bytes int, ok bool, took time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.stats.Platforms == nil {
		sm.stats.Platforms = make(map[string]*PlatformStats)
	}

	ps, exists := sm.stats.Platforms[platform]
	if !exists {
		ps = &PlatformStats{}
		sm.stats.Platforms[platform] = ps
	}

	ps.Requests++
	if !ok {
		ps.Failures++
	}
	ps.Bytes += int64(bytes)
	ps.TotalSeconds += took.Seconds()

	if err := sm.save(); err != nil {
		logger.Error("Failed to save stats after synthesis", err)
	}
}

// GetStats returns a deep copy of current statistics
func (sm *StatsManager) GetStats() Stats {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	statsCopy := Stats{
		Platforms: make(map[string]*PlatformStats),
	}

	for platform, ps := range sm.stats.Platforms {
		cp := *ps
		statsCopy.Platforms[platform] = &cp
	}

	return statsCopy
}

// GetStatsJSON returns statistics as a JSON string (for D-Bus)
func (sm *StatsManager) GetStatsJSON() (string, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, err := json.Marshal(sm.stats)
	if err != nil {
		return "", fmt.Errorf("failed to marshal stats to JSON: %w", err)
	}

	return string(data), nil
}

// Reset clears all statistics and persists empty state
func (sm *StatsManager) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.stats = Stats{
		Platforms: make(map[string]*PlatformStats),
	}

	if err := sm.save(); err != nil {
		return fmt.Errorf("failed to save reset stats: %w", err)
	}

	return nil
}

func (sm *StatsManager) load() error {
	data, err := os.ReadFile(sm.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("Stats file not found, starting fresh: %s", sm.filePath)
			return nil
		}
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	if err := json.Unmarshal(data, &sm.stats); err != nil {
		return fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	if sm.stats.Platforms == nil {
		sm.stats.Platforms = make(map[string]*PlatformStats)
	}

	logger.Debugf("Loaded stats from %s", sm.filePath)
	return nil
}

func (sm *StatsManager) save() error {
	dir := filepath.Dir(sm.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	data, err := json.MarshalIndent(sm.stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Write atomically by writing to temp file and renaming
	tempFile := sm.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}

	if err := os.Rename(tempFile, sm.filePath); err != nil {
		return fmt.Errorf("failed to rename temp stats file: %w", err)
	}

	return nil
}
