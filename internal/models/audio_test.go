package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avashisht/ttsbox/internal/models"
)

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.CategorySoundEffect, models.NormalizeCategory("sound_effect"))
	assert.Equal(t, models.CategoryVoice, models.NormalizeCategory("voice"))
	assert.Equal(t, models.CategorySong, models.NormalizeCategory("song"))
	assert.Equal(t, models.CategoryText, models.NormalizeCategory("text"))
	assert.Equal(t, models.CategoryJSON, models.NormalizeCategory("json"))
	assert.Equal(t, models.CategoryOther, models.NormalizeCategory("other"))

	assert.Equal(t, models.CategoryOther, models.NormalizeCategory(""))
	assert.Equal(t, models.CategoryOther, models.NormalizeCategory("music"))
	assert.Equal(t, models.CategoryOther, models.NormalizeCategory("Sound_Effect"))
}

func TestParseVolume(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, models.ParseVolume(""))
	assert.Equal(t, 0.5, models.ParseVolume("0.5"))
	assert.Equal(t, 0.0, models.ParseVolume("0"))
	assert.Equal(t, 1.0, models.ParseVolume("1"))

	// Unparseable or out-of-range values fall back to full volume.
	assert.Equal(t, 1.0, models.ParseVolume("abc"))
	assert.Equal(t, 1.0, models.ParseVolume("-0.1"))
	assert.Equal(t, 1.0, models.ParseVolume("1.5"))
}

func TestDefaultPlaceholder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bird_chirp", models.DefaultPlaceholder("Bird Chirp"))
	assert.Equal(t, "alarm", models.DefaultPlaceholder("alarm"))
	assert.Equal(t, "a_b_c", models.DefaultPlaceholder("A b C"))
}

func TestFileRecordFilename(t *testing.T) {
	t.Parallel()

	rec := models.FileRecord{URL: "/audio/bird.wav"}
	assert.Equal(t, "bird.wav", rec.Filename())

	rec = models.FileRecord{URL: "bird.wav"}
	assert.Equal(t, "bird.wav", rec.Filename())
}
