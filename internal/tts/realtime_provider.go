package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	openairt "github.com/WqyJh/go-openai-realtime"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/types"
	"github.com/dooshek/mstts/pkg/wav"
)

const (
	realtimeResponseTimeout = 30 * time.Second
	realtimeReadTimeout     = 5 * time.Second
	realtimeSampleRate      = 24000
	realtimeChannels        = 1
)

// RealtimeProvider implements LanguageProvider using OpenAI Realtime API
type RealtimeProvider struct {
	config          types.RealtimeConfig
	clientConfig    openairt.ClientConfig
	responseTimeout time.Duration
}

// RealtimeOption configures the Realtime provider
type RealtimeOption func(*RealtimeProvider)

// WithRealtimeBaseURL overrides the websocket endpoint
func WithRealtimeBaseURL(url string) RealtimeOption {
	return func(p *RealtimeProvider) {
		p.clientConfig.BaseURL = url
	}
}

// WithRealtimeResponseTimeout bounds the wait for a complete response
func WithRealtimeResponseTimeout(d time.Duration) RealtimeOption {
	return func(p *RealtimeProvider) {
		p.responseTimeout = d
	}
}

// NewRealtimeProvider creates a new Realtime TTS provider
func NewRealtimeProvider(apiKey string, config types.RealtimeConfig, opts ...RealtimeOption) *RealtimeProvider {
	// Set defaults
	if config.Model == "" {
		config.Model = types.RealtimeModelDefault
	}
	if config.Voice == "" {
		config.Voice = types.OpenAIVoiceNova
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}

	p := &RealtimeProvider{
		config:          config,
		clientConfig:    openairt.DefaultConfig(apiKey),
		responseTimeout: realtimeResponseTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns provider name
func (p *RealtimeProvider) Name() string {
	return string(types.PlatformOpenAIRealtime)
}

// DefaultLanguage returns the configured language
func (p *RealtimeProvider) DefaultLanguage() string {
	return p.config.Language
}

// SupportedLanguages returns the shared locale table
func (p *RealtimeProvider) SupportedLanguages() []string {
	return SupportedLanguages()
}

func realtimeInstructions(language string) string {
	return fmt.Sprintf("You are a text-to-speech system. Speak the provided text naturally and clearly in the language with locale tag %s. Do not add any additional commentary or explanation.", language)
}

// Synthesize streams the message through a Realtime session and returns
// the collected PCM16 audio wrapped as WAV
func (p *RealtimeProvider) Synthesize(ctx context.Context, message string, language string) Audio {
	if language == "" {
		language = p.config.Language
	}

	logger.Infof("Generating Realtime TTS for text (length: %d chars) with voice: %s", len(message), p.config.Voice)

	pcm, err := p.collect(ctx, message, language)
	if err != nil {
		logger.Error("Realtime TTS failed", err)
		return Audio{}
	}

	data, err := wav.ConvertPCMToWAV(pcm, realtimeChannels, realtimeSampleRate)
	if err != nil {
		logger.Error("Failed to wrap realtime PCM audio", err)
		return Audio{}
	}
	return Audio{Format: FormatWAV, Data: data}
}

func (p *RealtimeProvider) collect(ctx context.Context, message string, language string) ([]byte, error) {
	client := openairt.NewClientWithConfig(p.clientConfig)

	conn, err := client.Connect(ctx, openairt.WithModel(p.config.Model))
	if err != nil {
		return nil, fmt.Errorf("realtime API connection failed: %w", err)
	}
	defer conn.Close()

	voice := openairt.Voice(p.config.Voice)

	err = conn.SendMessage(ctx, &openairt.SessionUpdateEvent{
		Session: openairt.ClientSession{
			Modalities:        []openairt.Modality{openairt.ModalityText, openairt.ModalityAudio},
			Voice:             voice,
			OutputAudioFormat: openairt.AudioFormatPcm16,
			Instructions:      realtimeInstructions(language),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session update failed: %w", err)
	}

	err = conn.SendMessage(ctx, &openairt.ConversationItemCreateEvent{
		Item: openairt.MessageItem{
			Type: openairt.MessageItemTypeMessage,
			Role: openairt.MessageRoleUser,
			Content: []openairt.MessageContentPart{
				{
					Type: openairt.MessageContentTypeInputText,
					Text: message,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("conversation item creation failed: %w", err)
	}

	// Request response with audio and text (API requires both)
	err = conn.SendMessage(ctx, &openairt.ResponseCreateEvent{
		Response: openairt.ResponseCreateParams{
			Modalities:        []openairt.Modality{openairt.ModalityAudio, openairt.ModalityText},
			Voice:             voice,
			OutputAudioFormat: openairt.AudioFormatPcm16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("response creation failed: %w", err)
	}

	var audioData []byte

	timeout := time.NewTimer(p.responseTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-timeout.C:
			return nil, fmt.Errorf("timeout waiting for audio response")
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgCtx, cancel := context.WithTimeout(ctx, realtimeReadTimeout)
		event, err := conn.ReadMessage(msgCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("message read failed: %w", err)
		}

		switch event.ServerEventType() {
		case openairt.ServerEventTypeResponseAudioDelta:
			deltaEvent := event.(openairt.ResponseAudioDeltaEvent)
			chunk, err := base64.StdEncoding.DecodeString(deltaEvent.Delta)
			if err != nil {
				logger.Warnf("Skipping undecodable audio delta: %v", err)
				continue
			}
			audioData = append(audioData, chunk...)

		case openairt.ServerEventTypeResponseDone:
			logger.Debugf("Realtime audio complete, total size: %d bytes", len(audioData))
			if len(audioData) == 0 {
				return nil, fmt.Errorf("no audio data received")
			}
			return audioData, nil

		case openairt.ServerEventTypeError:
			errorEvent := event.(openairt.ErrorEvent)
			return nil, fmt.Errorf("realtime API error: %s: %s", errorEvent.Error.Type, errorEvent.Error.Message)

		default:
			logger.Debugf("Received event: %s", event.ServerEventType())
		}
	}
}
