package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestWizard_Microsoft(t *testing.T) {
	clearEnv(t)
	f := newTestFileOps(t)
	var out bytes.Buffer

	in := answers(
		"",       // platform: default microsoft
		"",       // api key is required
		"my-key", // api key
		"",       // region: default
		"xx-yy",  // not a supported language
		"de-de",
		"Male",
		"",    // type: default
		"150", // out of range
		"25",
		"-10",
		"y",
	)

	c, err := NewWizard(in, &out, f).Run()
	require.NoError(t, err)

	ms := c.TTS.Microsoft
	assert.Equal(t, types.PlatformMicrosoft, c.TTS.Platform)
	assert.Equal(t, "my-key", ms.APIKey)
	assert.Equal(t, "eastus", ms.Region)
	assert.Equal(t, "de-de", ms.Language)
	assert.Equal(t, "Male", ms.Gender)
	assert.Equal(t, "ZiraRUS", ms.Type)
	assert.Equal(t, 25, ms.Rate)
	assert.Equal(t, -10, ms.Volume)

	assert.Contains(t, out.String(), "A value is required.")
	assert.Contains(t, out.String(), "Choose one of:")
	assert.Contains(t, out.String(), "between -100 and 100")

	loaded, err := LoadConfigFrom(f)
	require.NoError(t, err)
	assert.Equal(t, ms, loaded.TTS.Microsoft)
}

func TestWizard_OpenAI(t *testing.T) {
	clearEnv(t)
	f := newTestFileOps(t)

	c, err := NewWizard(answers("openai", "sk-test", "alloy", "", ""), &bytes.Buffer{}, f).Run()
	require.NoError(t, err)
	assert.Equal(t, types.PlatformOpenAI, c.TTS.Platform)
	assert.Equal(t, "sk-test", c.TTS.OpenAI.APIKey)
	assert.Equal(t, "alloy", c.TTS.OpenAI.Voice)
	assert.Equal(t, "en-us", c.TTS.OpenAI.Language)
}

func TestWizard_Declined(t *testing.T) {
	f := newTestFileOps(t)

	_, err := NewWizard(answers("", "k", "", "", "", "", "", "", "n"), &bytes.Buffer{}, f).Run()
	assert.True(t, errors.Is(err, ErrWizardCancelled))

	_, err = f.LoadConfig(configFilename)
	assert.True(t, errors.Is(err, fileops.ErrConfigNotFound))
}

func TestWizard_InputClosed(t *testing.T) {
	_, err := NewWizard(strings.NewReader(""), &bytes.Buffer{}, newTestFileOps(t)).Run()
	assert.Error(t, err)
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "yes", cleanResponse("  yes\r\n"))
	assert.Equal(t, "ab", cleanResponse("a\x1bb"))
	assert.Equal(t, "", cleanResponse("\n"))
}
