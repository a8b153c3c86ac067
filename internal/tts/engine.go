// Package tts bridges to the external text-to-speech and audio conversion
// tools. Both are invoked as subprocesses; nothing in here decodes or
// generates audio itself beyond reading WAV headers.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/avashisht/ttsbox/internal/models"
)

var (
	// ErrTextEmpty is returned when synthesis is requested for empty text.
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrEmptyAudio is returned when the engine produced no audio data.
	ErrEmptyAudio = errors.New("received empty audio data")
)

// Synthesizer produces encoded speech audio for the given text and voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice models.Voice) ([]byte, error)
}

// GTTSEngine shells out to the gtts-cli binary, which returns MP3 audio for a
// language + TLD voice variant.
type GTTSEngine struct {
	binary string
}

// NewGTTSEngine creates an engine around the given gtts-cli binary path.
func NewGTTSEngine(binary string) *GTTSEngine {
	return &GTTSEngine{binary: binary}
}

// Synthesize runs the engine and returns the raw MP3 bytes.
func (e *GTTSEngine) Synthesize(ctx context.Context, text string, voice models.Voice) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	tmp, err := os.CreateTemp("", "ttsbox-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("create temp file for tts output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := []string{
		"--lang", voice.Language,
		"--tld", voice.TLD,
		"--output", tmpPath,
		text,
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("tts engine execution failed: %w - output: %s", err, string(output))
	}

	audioData, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read audio data from temp file: %w", err)
	}
	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}
