package state

import (
	"sync"

	"github.com/dooshek/mstts/internal/tts"
	"github.com/dooshek/mstts/internal/types"
)

var (
	once     sync.Once
	instance *AppState
)

// AppState is the process-wide configuration and provider registry
type AppState struct {
	Config  *types.Config
	Manager *tts.Manager
}

// Init sets the process state; later calls are ignored
func Init(cfg *types.Config, manager *tts.Manager) {
	once.Do(func() {
		instance = &AppState{
			Config:  cfg,
			Manager: manager,
		}
	})
}

func Get() *AppState {
	if instance == nil {
		panic("AppState not initialized")
	}
	return instance
}

// GetPlatform returns the configured default platform
func (s *AppState) GetPlatform() types.Platform {
	if s.Config.TTS.Platform == "" {
		return types.PlatformMicrosoft
	}
	return s.Config.TTS.Platform
}

// GetListenAddr returns the HTTP API address
func (s *AppState) GetListenAddr() string {
	return s.Config.Server.ListenAddr
}
