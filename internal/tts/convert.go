package tts

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// ErrInvalidWAV is returned when WAV header parsing fails.
var ErrInvalidWAV = errors.New("invalid WAV data")

// Converter transcodes encoded audio to WAV with the requested channel count
// and sample rate.
type Converter interface {
	ToWAV(ctx context.Context, data []byte, channels, sampleRate int) ([]byte, error)
}

// FFmpegConverter shells out to ffmpeg for the MP3 to WAV conversion.
type FFmpegConverter struct {
	binary string
}

// NewFFmpegConverter creates a converter around the given ffmpeg binary path.
func NewFFmpegConverter(binary string) *FFmpegConverter {
	return &FFmpegConverter{binary: binary}
}

// ToWAV writes data to a temp file, transcodes it and returns the WAV bytes.
func (c *FFmpegConverter) ToWAV(ctx context.Context, data []byte, channels, sampleRate int) ([]byte, error) {
	in, err := os.CreateTemp("", "ttsbox-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("create conversion input file: %w", err)
	}
	inPath := in.Name()
	defer os.Remove(inPath)

	if _, err := in.Write(data); err != nil {
		in.Close()
		return nil, fmt.Errorf("write conversion input file: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("close conversion input file: %w", err)
	}

	out, err := os.CreateTemp("", "ttsbox-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create conversion output file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	args := []string{
		"-y",
		"-i", inPath,
		"-vn",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		outPath,
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg execution failed: %w - output: %s", err, string(output))
	}

	wavData, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read converted audio: %w", err)
	}
	if len(wavData) == 0 {
		return nil, ErrEmptyAudio
	}

	return wavData, nil
}

// WAVDuration computes the playback duration in seconds from a WAV header:
// data chunk length divided by the fmt chunk byte rate.
func WAVDuration(data []byte) (float64, error) {
	const headerSize = 12

	if len(data) < headerSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var byteRate uint32
	var dataSize uint32
	haveFmt, haveData := false, false

	offset := headerSize
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return 0, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidWAV)
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			haveFmt = true
		case "data":
			dataSize = chunkSize
			haveData = true
		}

		// Chunks are word-aligned; odd sizes carry one padding byte.
		offset = body + int(chunkSize)
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || !haveData {
		return 0, fmt.Errorf("%w: fmt or data chunk missing", ErrInvalidWAV)
	}
	if byteRate == 0 {
		return 0, fmt.Errorf("%w: zero byte rate", ErrInvalidWAV)
	}

	return float64(dataSize) / float64(byteRate), nil
}
