package types

import "github.com/sashabaranov/go-openai"

// Platform names a registered TTS backend
type Platform string

const (
	PlatformMicrosoft      Platform = "microsoft"
	PlatformOpenAI         Platform = "openai"
	PlatformOpenAIRealtime Platform = "openai_realtime"
)

// Voice genders accepted by the Microsoft platform
const (
	GenderFemale = "Female"
	GenderMale   = "Male"
)

// Genders lists the accepted gender values in schema order
var Genders = []string{GenderFemale, GenderMale}

// MicrosoftConfig holds the Microsoft Cognitive Services speech settings.
// Keys mirror the platform schema: api_key, language, gender, type, rate,
// volume, pitch, contour, region.
type MicrosoftConfig struct {
	APIKey   string `yaml:"api_key" json:"api_key" env:"MSTTS_API_KEY"`
	Language string `yaml:"language" json:"language" env:"MSTTS_LANGUAGE"`
	Gender   string `yaml:"gender" json:"gender" env:"MSTTS_GENDER"`
	Type     string `yaml:"type" json:"type" env:"MSTTS_TYPE"`       // voice name, e.g. ZiraRUS
	Rate     int    `yaml:"rate" json:"rate" env:"MSTTS_RATE"`       // percent, -100..100
	Volume   int    `yaml:"volume" json:"volume" env:"MSTTS_VOLUME"` // percent, -100..100
	Pitch    string `yaml:"pitch" json:"pitch" env:"MSTTS_PITCH"`
	Contour  string `yaml:"contour" json:"contour" env:"MSTTS_CONTOUR"`
	Region   string `yaml:"region" json:"region" env:"MSTTS_REGION"`
}

// OpenAIConfig holds OpenAI TTS specific configuration
type OpenAIConfig struct {
	APIKey   string  `yaml:"api_key" json:"api_key" env:"OPENAI_API_KEY"`
	Model    string  `yaml:"model" json:"model"`       // "tts-1" or "tts-1-hd"
	Voice    string  `yaml:"voice" json:"voice"`       // "alloy", "nova", ...
	Speed    float64 `yaml:"speed" json:"speed"`       // 0.25-4.0, default 1.0
	Format   string  `yaml:"format" json:"format"`     // "mp3", "opus", "aac", "flac", "wav", "pcm"
	Language string  `yaml:"language" json:"language"` // default language tag
}

// RealtimeConfig holds OpenAI Realtime API TTS specific configuration
type RealtimeConfig struct {
	Model    string `yaml:"model" json:"model"` // "gpt-4o-realtime-preview" or "gpt-4o-mini-realtime-preview"
	Voice    string `yaml:"voice" json:"voice"`
	Language string `yaml:"language" json:"language"`
}

// TTSConfig holds configuration for Text-to-Speech
type TTSConfig struct {
	Platform  Platform        `yaml:"platform" json:"platform" env:"MSTTS_PLATFORM"`
	Microsoft MicrosoftConfig `yaml:"microsoft" json:"microsoft"`
	OpenAI    OpenAIConfig    `yaml:"openai" json:"openai"`
	Realtime  RealtimeConfig  `yaml:"realtime" json:"realtime"`
}

// ServerConfig holds settings for the HTTP API and metrics endpoint
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr" env:"MSTTS_LISTEN_ADDR"`
	SaveAudio  bool   `yaml:"save_audio" json:"save_audio"`
}

type Config struct {
	TTS    TTSConfig    `yaml:"tts" json:"tts"`
	Server ServerConfig `yaml:"server" json:"server"`
}

// OpenAI defaults
const (
	OpenAIModelTTS1   = string(openai.TTSModel1)
	OpenAIModelTTS1HD = string(openai.TTSModel1HD)
	OpenAIVoiceNova   = string(openai.VoiceNova)
)

// Realtime defaults
const (
	RealtimeModelDefault = "gpt-4o-realtime-preview"
)
