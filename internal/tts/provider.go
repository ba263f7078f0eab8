package tts

import (
	"context"
	"errors"
	"time"
)

// LanguageProvider defines the interface for text-to-speech providers
// registered with the Manager
type LanguageProvider interface {
	// Name returns the platform name the provider is registered under
	Name() string

	// DefaultLanguage returns the language used when a call passes none
	DefaultLanguage() string

	// SupportedLanguages returns the locale tags the provider accepts
	SupportedLanguages() []string

	// Synthesize converts message to audio. An empty language selects the
	// default language. A failed call returns the zero Audio.
	Synthesize(ctx context.Context, message string, language string) Audio
}

// Observer receives one notification per Manager.GetAudio call
type Observer interface {
	ObserveSynthesis(platform string, bytes int, ok bool, took time.Duration)
}

// AudioFormat represents supported audio formats
type AudioFormat string

const (
	FormatOpus AudioFormat = "opus"
	FormatMP3  AudioFormat = "mp3"
	FormatAAC  AudioFormat = "aac"
	FormatFLAC AudioFormat = "flac"
	FormatWAV  AudioFormat = "wav"
	FormatPCM  AudioFormat = "pcm"
)

// Audio is the result of a synthesis call: a format tag and the raw payload.
// The zero value signals failure.
type Audio struct {
	Format AudioFormat
	Data   []byte
}

// OK reports whether the synthesis produced a result
func (a Audio) OK() bool {
	return a.Format != ""
}

// ContentType returns the MIME type for the audio format
func (a Audio) ContentType() string {
	switch a.Format {
	case FormatMP3:
		return "audio/mpeg"
	case FormatWAV:
		return "audio/wav"
	case FormatOpus:
		return "audio/opus"
	case FormatAAC:
		return "audio/aac"
	case FormatFLAC:
		return "audio/flac"
	case FormatPCM:
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}

var (
	// ErrUnknownPlatform is returned when no provider is registered under the name
	ErrUnknownPlatform = errors.New("unknown TTS platform")

	// ErrUnsupportedLanguage is returned when a provider does not list the language
	ErrUnsupportedLanguage = errors.New("language not supported by platform")

	// ErrEmptyMessage is returned when attempting to synthesize empty text
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrSynthesisFailed is returned when a provider returns no audio
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)
