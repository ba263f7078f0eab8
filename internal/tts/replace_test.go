package tts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceUmlauts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello world", "Hello world"},
		{"empty", "", ""},
		{"lower a", "ä", "&#228;"},
		{"lower o", "ö", "&#246;"},
		{"lower u", "ü", "&#252;"},
		{"upper A", "Ä", "&#196;"},
		{"upper O", "Ö", "&#214;"},
		{"upper U", "Ü", "&#220;"},
		{"name", "Müller", "M&#252;ller"},
		{"sentence", "Öl über Äpfel", "&#214;l &#252;ber &#196;pfel"},
		{"repeated", "üüü", "&#252;&#252;&#252;"},
		{"eszett untouched", "Straße", "Straße"},
		{"other accents untouched", "café señor", "café señor"},
		{"markup untouched", "<b>&amp;</b>", "<b>&amp;</b>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceUmlauts(tt.in))
		})
	}
}

func TestSupportedLanguages_ReturnsCopy(t *testing.T) {
	langs := SupportedLanguages()
	langs[0] = "xx-yy"
	assert.Equal(t, "ar-eg", SupportedLanguages()[0])
	assert.Contains(t, SupportedLanguages(), "zh-tw")
	assert.NotContains(t, SupportedLanguages(), "en-US")
}

func TestAudio_ContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", Audio{Format: FormatMP3}.ContentType())
	assert.Equal(t, "audio/wav", Audio{Format: FormatWAV}.ContentType())
	assert.Equal(t, "application/octet-stream", Audio{}.ContentType())
	assert.False(t, Audio{}.OK())
}
