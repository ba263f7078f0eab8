package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/dooshek/mstts/internal/types"
	"github.com/dooshek/mstts/pkg/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// realtimeSession records what the client sent to the fake Realtime endpoint
type realtimeSession struct {
	mu     sync.Mutex
	auth   string
	model  string
	events []string
}

func (s *realtimeSession) clientEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

// newRealtimeServer answers the three client events with replies. When
// repeat is set it is sent every 10ms afterwards until the client leaves.
func newRealtimeServer(t *testing.T, replies []string, repeat string) (string, *realtimeSession) {
	t.Helper()
	session := &realtimeSession{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.mu.Lock()
		session.auth = r.Header.Get("Authorization")
		session.model = r.URL.Query().Get("model")
		session.mu.Unlock()

		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()
		ctx := r.Context()

		for i := 0; i < 3; i++ {
			_, data, err := c.Read(ctx)
			if err != nil {
				return
			}
			var ev struct {
				Type string `json:"type"`
			}
			_ = json.Unmarshal(data, &ev)
			session.mu.Lock()
			session.events = append(session.events, ev.Type)
			session.mu.Unlock()
		}

		// Answer the client's close handshake while writing
		ctx = c.CloseRead(ctx)

		for _, reply := range replies {
			if err := c.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
				return
			}
		}
		for repeat != "" {
			if err := c.Write(ctx, websocket.MessageText, []byte(repeat)); err != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}

		<-ctx.Done()
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/realtime", session
}

func audioDelta(chunk []byte) string {
	return `{"type":"response.audio.delta","response_id":"r1","item_id":"i1","delta":"` +
		base64.StdEncoding.EncodeToString(chunk) + `"}`
}

const (
	responseDone  = `{"type":"response.done","response":{"id":"r1","object":"realtime.response","status":"completed","output":[]}}`
	audioDoneNoop = `{"type":"response.audio.done","response_id":"r1","item_id":"i1","output_index":0,"content_index":0}`
)

func newTestRealtimeProvider(url string, opts ...RealtimeOption) *RealtimeProvider {
	opts = append([]RealtimeOption{WithRealtimeBaseURL(url)}, opts...)
	return NewRealtimeProvider("test-key", types.RealtimeConfig{Model: "test-model"}, opts...)
}

func TestRealtimeProvider_Synthesize_CollectsDeltas(t *testing.T) {
	url, session := newRealtimeServer(t, []string{
		audioDelta([]byte{1, 2, 3, 4}),
		`{"type":"response.audio.delta","response_id":"r1","item_id":"i1","delta":"!!not base64!!"}`,
		audioDelta([]byte{5, 6}),
		responseDone,
	}, "")

	audio := newTestRealtimeProvider(url).Synthesize(context.Background(), "Hallo", "de-de")
	require.True(t, audio.OK())
	assert.Equal(t, FormatWAV, audio.Format)

	want, err := wav.ConvertPCMToWAV([]byte{1, 2, 3, 4, 5, 6}, realtimeChannels, realtimeSampleRate)
	require.NoError(t, err)
	assert.Equal(t, want, audio.Data)

	assert.Equal(t, []string{"session.update", "conversation.item.create", "response.create"}, session.clientEvents())
	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Equal(t, "Bearer test-key", session.auth)
	assert.Equal(t, "test-model", session.model)
}

func TestRealtimeProvider_Synthesize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		replies []string
		repeat  string
		timeout time.Duration
		wantErr string
	}{
		{
			name:    "api error",
			replies: []string{`{"type":"error","error":{"type":"invalid_request_error","message":"Invalid voice"}}`},
			wantErr: "realtime API error: invalid_request_error: Invalid voice",
		},
		{
			name:    "done without audio",
			replies: []string{responseDone},
			wantErr: "no audio data received",
		},
		{
			name:    "response timeout",
			repeat:  audioDoneNoop,
			timeout: 50 * time.Millisecond,
			wantErr: "timeout waiting for audio response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, _ := newRealtimeServer(t, tt.replies, tt.repeat)
			var opts []RealtimeOption
			if tt.timeout > 0 {
				opts = append(opts, WithRealtimeResponseTimeout(tt.timeout))
			}
			p := newTestRealtimeProvider(url, opts...)

			_, err := p.collect(context.Background(), "Hallo", "de-de")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRealtimeProvider_Synthesize_ErrorYieldsZeroAudio(t *testing.T) {
	logs := captureLogs(t)
	url, _ := newRealtimeServer(t, []string{responseDone}, "")

	audio := newTestRealtimeProvider(url).Synthesize(context.Background(), "Hallo", "")

	assert.Equal(t, Audio{}, audio)
	assert.Equal(t, 1, errorLines(logs))
}
