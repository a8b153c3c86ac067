package models

// Voice is one entry of the supported voice table exposed at /gtts/voices.
// Language and TLD together select the regional TTS variant.
type Voice struct {
	ID       string `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Language string `json:"language" toml:"language"`
	TLD      string `json:"tld" toml:"tld"`
}
