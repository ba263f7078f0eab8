package dbus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	audio tts.Audio
}

func (s *stubProvider) Name() string                 { return "microsoft" }
func (s *stubProvider) DefaultLanguage() string      { return "en-us" }
func (s *stubProvider) SupportedLanguages() []string { return []string{"en-us", "de-de"} }
func (s *stubProvider) Synthesize(context.Context, string, string) tts.Audio {
	return s.audio
}

type stubStats struct {
	json string
	err  error
}

func (s stubStats) GetStatsJSON() (string, error) { return s.json, s.err }

type signal struct {
	name string
	args []interface{}
}

type signalRecorder struct {
	mu   sync.Mutex
	sent []signal
}

func (r *signalRecorder) emit(name string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, signal{name, args})
}

func newTestServer(t *testing.T, audio tts.Audio, stats StatsSource) (*Server, *fileops.DefaultFileOps, *signalRecorder) {
	t.Helper()
	m := tts.NewManager()
	require.NoError(t, m.Register(&stubProvider{audio: audio}))

	store := fileops.NewFileOps(filepath.Join(t.TempDir(), "mstts"))
	require.NoError(t, store.EnsureDirectories())

	rec := &signalRecorder{}
	s := NewServer(m, store, stats)
	s.emit = rec.emit
	t.Cleanup(s.Stop)
	return s, store, rec
}

func TestSynthesize_SavesAudioAndSignals(t *testing.T) {
	s, store, rec := newTestServer(t, tts.Audio{Format: tts.FormatMP3, Data: []byte("MP3")}, nil)

	path, derr := s.Synthesize("hello", "de-de")
	require.Nil(t, derr)
	assert.Equal(t, store.GetAudioDir(), filepath.Dir(path))
	assert.Equal(t, ".mp3", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MP3", string(data))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, SignalAudioReady, rec.sent[0].name)
	assert.Equal(t, []interface{}{path}, rec.sent[0].args)
}

func TestSynthesize_Failure(t *testing.T) {
	s, store, rec := newTestServer(t, tts.Audio{}, nil)

	path, derr := s.Synthesize("hello", "")
	require.NotNil(t, derr)
	assert.Empty(t, path)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, SignalSynthesisError, rec.sent[0].name)

	files, err := store.ListAudio()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSynthesize_UnsupportedLanguage(t *testing.T) {
	s, _, rec := newTestServer(t, tts.Audio{Format: tts.FormatMP3}, nil)

	_, derr := s.Synthesize("hello", "xx-yy")
	require.NotNil(t, derr)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, SignalSynthesisError, rec.sent[0].name)
}

func TestLanguageMethods(t *testing.T) {
	s, _, _ := newTestServer(t, tts.Audio{}, nil)

	lang, derr := s.GetDefaultLanguage()
	require.Nil(t, derr)
	assert.Equal(t, "en-us", lang)

	langs, derr := s.GetSupportedLanguages()
	require.Nil(t, derr)
	assert.Equal(t, []string{"en-us", "de-de"}, langs)
}

func TestLanguageMethods_NoProvider(t *testing.T) {
	s := NewServer(tts.NewManager(), nil, nil)
	defer s.Stop()

	_, derr := s.GetDefaultLanguage()
	assert.NotNil(t, derr)
	_, derr = s.GetSupportedLanguages()
	assert.NotNil(t, derr)
}

func TestGetStats(t *testing.T) {
	s, _, _ := newTestServer(t, tts.Audio{}, nil)
	out, derr := s.GetStats()
	require.Nil(t, derr)
	assert.Equal(t, "{}", out)

	s, _, _ = newTestServer(t, tts.Audio{}, stubStats{json: `{"platforms":{}}`})
	out, derr = s.GetStats()
	require.Nil(t, derr)
	assert.Equal(t, `{"platforms":{}}`, out)

	s, _, _ = newTestServer(t, tts.Audio{}, stubStats{err: errors.New("disk")})
	_, derr = s.GetStats()
	assert.NotNil(t, derr)
}

func TestIntrospectNode(t *testing.T) {
	node := introspectNode()
	require.Len(t, node.Interfaces, 1)
	iface := node.Interfaces[0]
	assert.Equal(t, dbusInterface, iface.Name)

	var methods []string
	for _, m := range iface.Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"Synthesize", "GetDefaultLanguage", "GetSupportedLanguages", "GetStats"}, methods)

	var signals []string
	for _, sig := range iface.Signals {
		signals = append(signals, sig.Name)
	}
	assert.Equal(t, []string{SignalAudioReady, SignalSynthesisError}, signals)

	assert.NotNil(t, introspect.NewIntrospectable(node))
}

func TestWait_ReturnsAfterStop(t *testing.T) {
	s := NewServer(tts.NewManager(), nil, nil)
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	s.Stop()
	<-done
}
