package models

import (
	"strconv"
	"strings"
)

// Audio categories. Anything outside this set is coerced to CategoryOther.
const (
	CategorySoundEffect = "sound_effect"
	CategoryVoice       = "voice"
	CategorySong        = "song"
	CategoryText        = "text"
	CategoryJSON        = "json"
	CategoryOther       = "other"
)

// Source types for FileRecord.Source.
const (
	SourceLocal   = "local"
	SourceUnknown = "unknown"
)

// SourceMetadata is a denormalized copy of the on-disk file attributes.
type SourceMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type Source struct {
	Type     string          `json:"type"`
	Metadata *SourceMetadata `json:"metadata,omitempty"`
}

// FileRecord is one metadata entry describing a single stored audio (or
// config) file. The URL field always points at /audio/<filename-on-disk>.
type FileRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Size        int64   `json:"size"`
	Category    string  `json:"category"`
	Source      Source  `json:"source"`
	Date        string  `json:"date"`
	Volume      float64 `json:"volume"`
	Placeholder string  `json:"placeholder"`
	URL         string  `json:"url"`
}

// Filename returns the on-disk filename component of the record URL.
func (r *FileRecord) Filename() string {
	if i := strings.LastIndex(r.URL, "/"); i >= 0 {
		return r.URL[i+1:]
	}
	return r.URL
}

// NormalizeCategory validates a category form value, coercing anything
// invalid (including empty) to CategoryOther.
func NormalizeCategory(category string) string {
	switch category {
	case CategorySoundEffect, CategoryVoice, CategorySong, CategoryText, CategoryJSON, CategoryOther:
		return category
	default:
		return CategoryOther
	}
}

// ParseVolume parses a volume form value. Anything unparseable or outside
// [0, 1] falls back to 1.0.
func ParseVolume(value string) float64 {
	if value == "" {
		return 1.0
	}
	volume, err := strconv.ParseFloat(value, 64)
	if err != nil || volume < 0 || volume > 1 {
		return 1.0
	}
	return volume
}

// DefaultPlaceholder derives the substitution token used by the frontend when
// none was supplied: the lowercase name with spaces replaced by underscores.
func DefaultPlaceholder(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
