package tts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avashisht/ttsbox/internal/tts"
)

func TestVoicesDefaults(t *testing.T) {
	voices := tts.Voices()
	require.Len(t, voices, 13)
	assert.Equal(t, "us", voices[0].ID)
	assert.Equal(t, "en", voices[0].Language)
	assert.Equal(t, "com", voices[0].TLD)
}

func TestVoiceByID(t *testing.T) {
	voice := tts.VoiceByID("uk")
	assert.Equal(t, "uk", voice.ID)
	assert.Equal(t, "co.uk", voice.TLD)

	// Empty and unknown ids fall back to the default voice.
	assert.Equal(t, tts.DefaultVoiceID, tts.VoiceByID("").ID)
	assert.Equal(t, tts.DefaultVoiceID, tts.VoiceByID("klingon").ID)
}

func TestLoadVoicesFile(t *testing.T) {
	t.Cleanup(tts.ResetVoices)

	content := `
[[voices]]
id = "us"
name = "American English"
language = "en"
tld = "com"

[[voices]]
id = "nl"
name = "Dutch"
language = "nl"
tld = "nl"
`
	path := filepath.Join(t.TempDir(), "voices.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, tts.LoadVoicesFile(path))

	voices := tts.Voices()
	require.Len(t, voices, 2)
	assert.Equal(t, "nl", tts.VoiceByID("nl").ID)
}

func TestLoadVoicesFileRequiresDefault(t *testing.T) {
	t.Cleanup(tts.ResetVoices)

	content := `
[[voices]]
id = "nl"
name = "Dutch"
language = "nl"
tld = "nl"
`
	path := filepath.Join(t.TempDir(), "voices.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	err := tts.LoadVoicesFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback voice")
}

func TestLoadVoicesFileRejectsEmpty(t *testing.T) {
	t.Cleanup(tts.ResetVoices)

	path := filepath.Join(t.TempDir(), "voices.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	err := tts.LoadVoicesFile(path)
	require.Error(t, err)
}

func TestLoadVoicesFileMissing(t *testing.T) {
	err := tts.LoadVoicesFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
