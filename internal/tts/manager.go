package tts

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/types"
)

// Manager keeps the registered providers and routes synthesis calls to them
type Manager struct {
	providers   map[string]LanguageProvider
	defaultName string
	observers   []Observer
	mu          sync.RWMutex
}

// NewManager creates an empty manager. Observers are notified after every GetAudio call.
func NewManager(observers ...Observer) *Manager {
	return &Manager{
		providers: make(map[string]LanguageProvider),
		observers: observers,
	}
}

// NewManagerFromConfig registers every provider the configuration has
// credentials for and makes cfg.TTS.Platform the default
func NewManagerFromConfig(cfg *types.Config, observers ...Observer) (*Manager, error) {
	m := NewManager(observers...)

	if cfg.TTS.Microsoft.APIKey != "" {
		if err := m.Register(NewMicrosoftProvider(cfg.TTS.Microsoft)); err != nil {
			return nil, err
		}
	}
	if cfg.TTS.OpenAI.APIKey != "" {
		if err := m.Register(NewOpenAIProvider(cfg.TTS.OpenAI)); err != nil {
			return nil, err
		}
		if err := m.Register(NewRealtimeProvider(cfg.TTS.OpenAI.APIKey, cfg.TTS.Realtime)); err != nil {
			return nil, err
		}
	}

	platform := string(cfg.TTS.Platform)
	if platform == "" {
		platform = string(types.PlatformMicrosoft)
	}
	if err := m.SetDefault(platform); err != nil {
		return nil, fmt.Errorf("failed to select default platform: %w", err)
	}

	logger.Infof("Initialized TTS Manager with platforms %s (default: %s)", strings.Join(m.Platforms(), ", "), platform)
	return m, nil
}

// Register adds a provider under its name. The first registered provider
// becomes the default.
func (m *Manager) Register(p LanguageProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if _, exists := m.providers[name]; exists {
		return fmt.Errorf("TTS platform %q already registered", name)
	}
	m.providers[name] = p
	if m.defaultName == "" {
		m.defaultName = name
	}

	logger.Debugf("Registered TTS platform: %s (default language %s, %d languages)",
		name, p.DefaultLanguage(), len(p.SupportedLanguages()))
	return nil
}

// SetDefault selects the provider used when a call names no platform
func (m *Manager) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, name)
	}
	m.defaultName = name
	return nil
}

// Default returns the default platform name
func (m *Manager) Default() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// Platforms returns registered platform names, sorted
func (m *Manager) Platforms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Provider returns the provider for a platform; empty name selects the default
func (m *Manager) Provider(name string) (LanguageProvider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.defaultName
	}
	p, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, name)
	}
	return p, nil
}

// GetAudio validates the request and hands it to the platform's provider
func (m *Manager) GetAudio(ctx context.Context, platform string, message string, language string) (Audio, error) {
	p, err := m.Provider(platform)
	if err != nil {
		return Audio{}, err
	}
	if message == "" {
		return Audio{}, ErrEmptyMessage
	}
	if language != "" && !slices.Contains(p.SupportedLanguages(), language) {
		return Audio{}, fmt.Errorf("%w: %s does not support %s", ErrUnsupportedLanguage, p.Name(), language)
	}

	started := time.Now()
	audio := p.Synthesize(ctx, message, language)
	took := time.Since(started)

	for _, o := range m.observers {
		o.ObserveSynthesis(p.Name(), len(audio.Data), audio.OK(), took)
	}

	if !audio.OK() {
		return Audio{}, fmt.Errorf("%w: %s", ErrSynthesisFailed, p.Name())
	}
	return audio, nil
}
