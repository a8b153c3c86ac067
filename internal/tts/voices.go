package tts

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/avashisht/ttsbox/internal/models"
)

// DefaultVoiceID is the fallback used when a request names no voice or an
// unknown one.
const DefaultVoiceID = "us"

// defaultVoices lists the gTTS regional variants the service supports out of
// the box. Order is stable; /gtts/voices returns it as-is.
var defaultVoices = []models.Voice{
	{ID: "us", Name: "American English", Language: "en", TLD: "com"},
	{ID: "au", Name: "Australian English", Language: "en", TLD: "com.au"},
	{ID: "uk", Name: "British English", Language: "en", TLD: "co.uk"},
	{ID: "ca", Name: "Canadian English", Language: "en", TLD: "ca"},
	{ID: "in", Name: "Indian English", Language: "en", TLD: "co.in"},
	{ID: "de-de", Name: "German (Germany)", Language: "de", TLD: "de"},
	{ID: "es-es", Name: "Spanish (Spain)", Language: "es", TLD: "es"},
	{ID: "es-mx", Name: "Spanish (Mexico)", Language: "es", TLD: "com.mx"},
	{ID: "fr-fr", Name: "French (France)", Language: "fr", TLD: "fr"},
	{ID: "it-it", Name: "Italian (Italy)", Language: "it", TLD: "it"},
	{ID: "ja", Name: "Japanese", Language: "ja", TLD: "co.jp"},
	{ID: "pt-pt", Name: "Portuguese (Portugal)", Language: "pt", TLD: "pt"},
	{ID: "pt-br", Name: "Portuguese (Brazil)", Language: "pt", TLD: "com.br"},
}

var (
	voicesMu sync.RWMutex
	voices   = defaultVoices
)

// Voices returns a copy of the active voice table.
func Voices() []models.Voice {
	voicesMu.RLock()
	defer voicesMu.RUnlock()

	out := make([]models.Voice, len(voices))
	copy(out, voices)
	return out
}

// VoiceByID returns the voice for id, falling back to DefaultVoiceID for
// empty or unknown ids.
func VoiceByID(id string) models.Voice {
	voicesMu.RLock()
	defer voicesMu.RUnlock()

	var fallback models.Voice
	for _, v := range voices {
		if v.ID == id {
			return v
		}
		if v.ID == DefaultVoiceID {
			fallback = v
		}
	}
	return fallback
}

// voicesFile is the TOML shape of an external voice table:
//
//	[[voices]]
//	id = "us"
//	name = "American English"
//	language = "en"
//	tld = "com"
type voicesFile struct {
	Voices []models.Voice `toml:"voices"`
}

// LoadVoicesFile replaces the voice table with the contents of a TOML file.
// The table must contain the default voice so fallback keeps working.
func LoadVoicesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read voices file %s: %w", path, err)
	}

	var parsed voicesFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse voices file %s: %w", path, err)
	}
	if len(parsed.Voices) == 0 {
		return fmt.Errorf("voices file %s defines no voices", path)
	}

	hasDefault := false
	for _, v := range parsed.Voices {
		if v.ID == DefaultVoiceID {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		return fmt.Errorf("voices file %s is missing the %q fallback voice", path, DefaultVoiceID)
	}

	voicesMu.Lock()
	voices = parsed.Voices
	voicesMu.Unlock()
	return nil
}

// ResetVoices restores the built-in table. Used by tests.
func ResetVoices() {
	voicesMu.Lock()
	voices = defaultVoices
	voicesMu.Unlock()
}
