package tts

import (
	"context"
	"fmt"
	"io"

	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/types"
	"github.com/dooshek/mstts/pkg/wav"
	"github.com/sashabaranov/go-openai"
)

const (
	// OpenAI PCM responses are 24kHz mono 16-bit
	openAIPCMSampleRate = 24000
	openAIPCMChannels   = 1
)

// OpenAIProvider implements LanguageProvider for OpenAI TTS API
type OpenAIProvider struct {
	client *openai.Client
	config types.OpenAIConfig
}

// OpenAIOption configures the OpenAI provider
type OpenAIOption func(*openai.ClientConfig)

// WithOpenAIBaseURL sets a custom base URL (for testing or proxies)
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openai.ClientConfig) {
		c.BaseURL = url
	}
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config types.OpenAIConfig, opts ...OpenAIOption) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	for _, opt := range opts {
		opt(&clientConfig)
	}

	// Set defaults
	if config.Model == "" {
		config.Model = types.OpenAIModelTTS1HD // Better quality
	}
	if config.Voice == "" {
		config.Voice = types.OpenAIVoiceNova
	}
	if config.Speed == 0 {
		config.Speed = 1.0
	}
	if config.Format == "" {
		config.Format = string(FormatMP3)
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Name returns provider name
func (p *OpenAIProvider) Name() string {
	return string(types.PlatformOpenAI)
}

// DefaultLanguage returns the configured language
func (p *OpenAIProvider) DefaultLanguage() string {
	return p.config.Language
}

// SupportedLanguages returns the shared locale table. OpenAI detects the
// language from the input, so the tag only passes the Manager's check.
func (p *OpenAIProvider) SupportedLanguages() []string {
	return SupportedLanguages()
}

// Synthesize converts text to speech and returns audio data
func (p *OpenAIProvider) Synthesize(ctx context.Context, message string, language string) Audio {
	if language == "" {
		language = p.config.Language
	}

	logger.Infof("Generating OpenAI TTS for text (length: %d chars, language: %s) with voice: %s",
		len(message), language, p.config.Voice)

	response, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.Model),
		Input:          message,
		Voice:          openai.SpeechVoice(p.config.Voice),
		Speed:          p.config.Speed,
		ResponseFormat: openai.SpeechResponseFormat(p.config.Format),
	})
	if err != nil {
		logger.Error("OpenAI TTS API error", err)
		return Audio{}
	}
	defer response.Close()

	audioData, err := io.ReadAll(response)
	if err != nil {
		logger.Error("Failed to read OpenAI audio data", err)
		return Audio{}
	}

	format := AudioFormat(p.config.Format)
	if format == FormatPCM {
		audioData, err = wav.ConvertPCMToWAV(audioData, openAIPCMChannels, openAIPCMSampleRate)
		if err != nil {
			logger.Error("Failed to wrap PCM audio", err)
			return Audio{}
		}
		format = FormatWAV
	}

	logger.Infof("Generated %d bytes of %s audio (%s)", len(audioData), format, estimateFileSize(len(audioData)))

	return Audio{Format: format, Data: audioData}
}

// estimateFileSize provides human-readable size estimate
func estimateFileSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	} else if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	} else {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
