package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dooshek/mstts/internal/tts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ tts.Observer = (*StatsManager)(nil)

func newTestManager(t *testing.T) (*StatsManager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "stats.json")
	return NewStatsManagerAt(path), path
}

func TestObserveSynthesis(t *testing.T) {
	sm, _ := newTestManager(t)

	sm.ObserveSynthesis("microsoft", 1000, true, 500*time.Millisecond)
	sm.ObserveSynthesis("microsoft", 0, false, 250*time.Millisecond)
	sm.ObserveSynthesis("openai", 42, true, time.Second)

	s := sm.GetStats()
	require.Len(t, s.Platforms, 2)

	ms := s.Platforms["microsoft"]
	assert.Equal(t, 2, ms.Requests)
	assert.Equal(t, 1, ms.Failures)
	assert.Equal(t, int64(1000), ms.Bytes)
	assert.InDelta(t, 0.75, ms.TotalSeconds, 1e-9)

	assert.Equal(t, 1, s.Platforms["openai"].Requests)
	assert.Equal(t, 0, s.Platforms["openai"].Failures)
}

func TestPersistence(t *testing.T) {
	sm, path := newTestManager(t)
	sm.ObserveSynthesis("microsoft", 10, true, time.Second)

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file renamed away")

	reloaded := NewStatsManagerAt(path)
	assert.Equal(t, 1, reloaded.GetStats().Platforms["microsoft"].Requests)
}

func TestGetStats_IsCopy(t *testing.T) {
	sm, _ := newTestManager(t)
	sm.ObserveSynthesis("microsoft", 10, true, 0)

	s := sm.GetStats()
	s.Platforms["microsoft"].Requests = 99

	assert.Equal(t, 1, sm.GetStats().Platforms["microsoft"].Requests)
}

func TestGetStatsJSON(t *testing.T) {
	sm, _ := newTestManager(t)
	sm.ObserveSynthesis("microsoft", 3, false, 0)

	raw, err := sm.GetStatsJSON()
	require.NoError(t, err)

	var decoded Stats
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, 1, decoded.Platforms["microsoft"].Failures)
}

func TestReset(t *testing.T) {
	sm, path := newTestManager(t)
	sm.ObserveSynthesis("microsoft", 3, true, 0)

	require.NoError(t, sm.Reset())
	assert.Empty(t, sm.GetStats().Platforms)
	assert.Empty(t, NewStatsManagerAt(path).GetStats().Platforms)
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	sm := NewStatsManagerAt(path)
	assert.Empty(t, sm.GetStats().Platforms)
}

func TestConcurrentObserve(t *testing.T) {
	sm, _ := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.ObserveSynthesis("microsoft", 1, true, time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, sm.GetStats().Platforms["microsoft"].Requests)
}
