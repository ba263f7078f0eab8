package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/types"
)

const (
	// MicrosoftDefaultOutput is kept on the provider but never sent;
	// requests always ask for MicrosoftOutputFormat.
	MicrosoftDefaultOutput = "audio-16khz-128kbitrate-mono-mp3"

	// MicrosoftOutputFormat is the X-Microsoft-OutputFormat header value
	MicrosoftOutputFormat = "audio-24khz-160kbitrate-mono-mp3"

	microsoftPath = "cognitiveservices/v1"

	headerSubscriptionKey = "Ocp-Apim-Subscription-Key"
	headerOutputFormat    = "X-Microsoft-OutputFormat"
	contentTypeSSML       = "application/ssml+xml"
)

// Microsoft defaults, applied by the configuration layer
const (
	MicrosoftDefaultGender  = types.GenderFemale
	MicrosoftDefaultType    = "ZiraRUS"
	MicrosoftDefaultPitch   = "default"
	MicrosoftDefaultContour = ""
	MicrosoftDefaultRegion  = "eastus"
)

// MicrosoftProvider implements LanguageProvider for the Microsoft
// Cognitive Services text-to-speech REST API
type MicrosoftProvider struct {
	apiKey    string
	lang      string
	gender    string
	voiceType string
	output    string
	rate      string
	volume    string
	pitch     string
	contour   string
	region    string

	client   *http.Client
	endpoint func(region string) string
}

// MicrosoftOption configures the Microsoft provider
type MicrosoftOption func(*MicrosoftProvider)

// WithMicrosoftHTTPClient sets a custom HTTP client
func WithMicrosoftHTTPClient(client *http.Client) MicrosoftOption {
	return func(p *MicrosoftProvider) {
		p.client = client
	}
}

// WithMicrosoftEndpoint overrides how the request URL is built from the region
func WithMicrosoftEndpoint(endpoint func(region string) string) MicrosoftOption {
	return func(p *MicrosoftProvider) {
		p.endpoint = endpoint
	}
}

// MicrosoftEndpoint returns the synthesis URL for a region
func MicrosoftEndpoint(region string) string {
	return "https://" + region + ".tts.speech.microsoft.com/" + microsoftPath
}

// NewMicrosoftProvider creates a provider from an already validated configuration
func NewMicrosoftProvider(cfg types.MicrosoftConfig, opts ...MicrosoftOption) *MicrosoftProvider {
	p := &MicrosoftProvider{
		apiKey:    cfg.APIKey,
		lang:      cfg.Language,
		gender:    cfg.Gender,
		voiceType: cfg.Type,
		output:    MicrosoftDefaultOutput,
		rate:      percent(cfg.Rate),
		volume:    percent(cfg.Volume),
		pitch:     cfg.Pitch,
		contour:   cfg.Contour,
		region:    cfg.Region,
		client:    http.DefaultClient,
		endpoint:  MicrosoftEndpoint,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func percent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

// Name returns provider name
func (p *MicrosoftProvider) Name() string {
	return string(types.PlatformMicrosoft)
}

// DefaultLanguage returns the configured language
func (p *MicrosoftProvider) DefaultLanguage() string {
	return p.lang
}

// SupportedLanguages returns the Microsoft locale table
func (p *MicrosoftProvider) SupportedLanguages() []string {
	return SupportedLanguages()
}

// VoiceSettings describes the stored voice parameters
type VoiceSettings struct {
	Gender  string `json:"gender"`
	Type    string `json:"type"`
	Rate    string `json:"rate"`
	Volume  string `json:"volume"`
	Pitch   string `json:"pitch"`
	Contour string `json:"contour"`
	Region  string `json:"region"`
	Output  string `json:"output"`
}

// Voice returns the stored voice parameters. Only the region reaches the
// remote service; the HTTP API reports the rest alongside the languages.
func (p *MicrosoftProvider) Voice() VoiceSettings {
	return VoiceSettings{
		Gender:  p.gender,
		Type:    p.voiceType,
		Rate:    p.rate,
		Volume:  p.volume,
		Pitch:   p.pitch,
		Contour: p.contour,
		Region:  p.region,
		Output:  p.output,
	}
}

// Synthesize posts the message to the regional endpoint and returns the
// response body as mp3. Transport errors are logged and yield the zero Audio.
// The HTTP status is not inspected.
func (p *MicrosoftProvider) Synthesize(ctx context.Context, message string, language string) Audio {
	if language == "" {
		language = p.lang
	}
	// The endpoint only receives the body; language is not part of the request.
	logger.Debugf("Microsoft TTS: %d chars, language %s, voice %s", len(message), language, p.voiceType)

	body := ReplaceUmlauts(message)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(p.region), strings.NewReader(body))
	if err != nil {
		logger.Error("Error occurred for Microsoft TTS", err)
		return Audio{}
	}
	req.Header.Set(headerSubscriptionKey, p.apiKey)
	req.Header.Set("Content-Type", contentTypeSSML)
	req.Header.Set(headerOutputFormat, MicrosoftOutputFormat)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error("Error occurred for Microsoft TTS", err)
		return Audio{}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Error occurred for Microsoft TTS", err)
		return Audio{}
	}
	if data == nil {
		data = []byte{}
	}

	logger.Debugf("Microsoft TTS: status %d, %d bytes", resp.StatusCode, len(data))
	return Audio{Format: FormatMP3, Data: data}
}
