package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dooshek/mstts/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	p := NewOpenAIProvider(types.OpenAIConfig{APIKey: "test-key"})

	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, types.OpenAIModelTTS1HD, p.config.Model)
	assert.Equal(t, types.OpenAIVoiceNova, p.config.Voice)
	assert.Equal(t, 1.0, p.config.Speed)
	assert.Equal(t, "mp3", p.config.Format)
	assert.Equal(t, "en-us", p.DefaultLanguage())
	assert.Len(t, p.SupportedLanguages(), 42)
}

func TestOpenAIProvider_Synthesize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/speech"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello world", req["input"])
		assert.Equal(t, "onyx", req["voice"])

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mock audio data"))
	}))
	defer server.Close()

	p := NewOpenAIProvider(types.OpenAIConfig{APIKey: "test-key", Voice: "onyx"}, WithOpenAIBaseURL(server.URL+"/v1"))

	audio := p.Synthesize(context.Background(), "Hello world", "")

	require.True(t, audio.OK())
	assert.Equal(t, FormatMP3, audio.Format)
	assert.Equal(t, "mock audio data", string(audio.Data))
}

func TestOpenAIProvider_Synthesize_PCMWrappedAsWAV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0, 0, 1, 0})
	}))
	defer server.Close()

	p := NewOpenAIProvider(types.OpenAIConfig{APIKey: "test-key", Format: "pcm"}, WithOpenAIBaseURL(server.URL+"/v1"))

	audio := p.Synthesize(context.Background(), "Hello", "")

	require.True(t, audio.OK())
	assert.Equal(t, FormatWAV, audio.Format)
	assert.Equal(t, "RIFF", string(audio.Data[:4]))
	assert.Len(t, audio.Data, 48)
}

func TestOpenAIProvider_Synthesize_APIError(t *testing.T) {
	logs := captureLogs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"server exploded","type":"server_error"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(types.OpenAIConfig{APIKey: "test-key"}, WithOpenAIBaseURL(server.URL+"/v1"))

	audio := p.Synthesize(context.Background(), "Hello", "")

	assert.False(t, audio.OK())
	assert.Equal(t, 1, errorLines(logs))
}

func TestNewRealtimeProvider_Defaults(t *testing.T) {
	p := NewRealtimeProvider("test-key", types.RealtimeConfig{})

	assert.Equal(t, "openai_realtime", p.Name())
	assert.Equal(t, types.RealtimeModelDefault, p.config.Model)
	assert.Equal(t, types.OpenAIVoiceNova, p.config.Voice)
	assert.Equal(t, "en-us", p.DefaultLanguage())
}

func TestRealtimeProvider_Synthesize_CancelledContext(t *testing.T) {
	logs := captureLogs(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	audio := NewRealtimeProvider("test-key", types.RealtimeConfig{}).Synthesize(ctx, "Hello", "de-de")

	assert.False(t, audio.OK())
	assert.Equal(t, 1, errorLines(logs))
}

func TestRealtimeInstructions_MentionLanguage(t *testing.T) {
	assert.Contains(t, realtimeInstructions("pl-pl"), "pl-pl")
}
