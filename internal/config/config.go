package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/dooshek/mstts/internal/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configFilename = "mstts.yaml"

	defaultListenAddr = "127.0.0.1:5002"
)

// Defaults returns a configuration with every schema default filled in.
// Values from the config file, .env and the environment override these.
func Defaults() *types.Config {
	return &types.Config{
		TTS: types.TTSConfig{
			Platform: types.PlatformMicrosoft,
			Microsoft: types.MicrosoftConfig{
				Language: tts.DefaultLanguage,
				Gender:   tts.MicrosoftDefaultGender,
				Type:     tts.MicrosoftDefaultType,
				Rate:     0,
				Volume:   0,
				Pitch:    tts.MicrosoftDefaultPitch,
				Contour:  tts.MicrosoftDefaultContour,
				Region:   tts.MicrosoftDefaultRegion,
			},
			OpenAI: types.OpenAIConfig{
				Model:    types.OpenAIModelTTS1HD,
				Voice:    types.OpenAIVoiceNova,
				Speed:    1.0,
				Format:   string(tts.FormatMP3),
				Language: tts.DefaultLanguage,
			},
			Realtime: types.RealtimeConfig{
				Model:    types.RealtimeModelDefault,
				Voice:    types.OpenAIVoiceNova,
				Language: tts.DefaultLanguage,
			},
		},
		Server: types.ServerConfig{
			ListenAddr: defaultListenAddr,
		},
	}
}

// LoadConfig loads ~/.config/mstts/mstts.yaml, applies .env and environment
// overrides and validates the result. It returns nil, nil when neither the
// file nor the environment provide any credentials.
func LoadConfig() (*types.Config, error) {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file operations: %w", err)
	}

	if err := fileOps.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}

	return LoadConfigFrom(fileOps)
}

// LoadConfigFrom is LoadConfig against an explicit config directory
func LoadConfigFrom(fileOps fileops.FileOps) (*types.Config, error) {
	config := Defaults()

	data, err := fileOps.LoadConfig(configFilename)
	switch {
	case errors.Is(err, fileops.ErrConfigNotFound):
		logger.Debugf("No config file in %s, using defaults and environment", fileOps.GetConfigDir())
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.TTS.Microsoft.APIKey == "" && config.TTS.OpenAI.APIKey == "" {
		return nil, nil
	}

	// An OpenAI key alone selects OpenAI over the Microsoft default
	if config.TTS.Platform == types.PlatformMicrosoft && config.TTS.Microsoft.APIKey == "" {
		logger.Infof("No Microsoft API key configured, using platform %s", types.PlatformOpenAI)
		config.TTS.Platform = types.PlatformOpenAI
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig validates config and merges it into the existing config file
func SaveConfig(config *types.Config) error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return fmt.Errorf("failed to initialize file operations: %w", err)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	return SaveConfigTo(fileOps, config)
}

// SaveConfigTo is SaveConfig against an explicit config directory
func SaveConfigTo(fileOps fileops.FileOps, config *types.Config) error {
	// Try to load existing config first
	existing := Defaults()
	data, err := fileOps.LoadConfig(configFilename)
	switch {
	case errors.Is(err, fileops.ErrConfigNotFound):
		existing = nil
	case err != nil:
		// Just log the error but continue with new config
		logger.Warnf("Failed to load existing config: %v", err)
		existing = nil
	default:
		if err := yaml.Unmarshal(data, existing); err != nil {
			logger.Warnf("Failed to parse existing config: %v", err)
			existing = nil
		}
	}

	if existing != nil {
		// We have an existing config, merge the new settings into it
		mergeConfigs(existing, config)
		config = existing
	}

	if err := Validate(config); err != nil {
		return err
	}

	out, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileOps.SaveConfig(configFilename, out); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// mergeConfigs merges sourceConfig into targetConfig, preserving existing
// values in targetConfig that sourceConfig does not set. Platform sections
// are replaced as a whole when the source carries an API key for them.
func mergeConfigs(targetConfig, sourceConfig *types.Config) {
	if sourceConfig.TTS.Platform != "" {
		targetConfig.TTS.Platform = sourceConfig.TTS.Platform
	}

	if sourceConfig.TTS.Microsoft.APIKey != "" {
		targetConfig.TTS.Microsoft = sourceConfig.TTS.Microsoft
	}

	if sourceConfig.TTS.OpenAI.APIKey != "" {
		targetConfig.TTS.OpenAI = sourceConfig.TTS.OpenAI
		if sourceConfig.TTS.Realtime.Model != "" {
			targetConfig.TTS.Realtime = sourceConfig.TTS.Realtime
		}
	}

	if sourceConfig.Server.ListenAddr != "" {
		targetConfig.Server.ListenAddr = sourceConfig.Server.ListenAddr
	}
	if sourceConfig.Server.SaveAudio {
		targetConfig.Server.SaveAudio = true
	}
}
