package tts_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avashisht/ttsbox/internal/tts"
)

// buildWAV assembles a minimal PCM WAV file with the given data chunk size
// and byte rate.
func buildWAV(t *testing.T, byteRate, dataSize uint32) []byte {
	t.Helper()

	var buf []byte
	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(36+dataSize)...)
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...)        // PCM
	buf = append(buf, u16(1)...)        // mono
	buf = append(buf, u32(44100)...)    // sample rate
	buf = append(buf, u32(byteRate)...) // byte rate
	buf = append(buf, u16(2)...)        // block align
	buf = append(buf, u16(16)...)       // bits per sample

	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(dataSize)...)
	buf = append(buf, make([]byte, dataSize)...)
	return buf
}

func TestWAVDuration(t *testing.T) {
	t.Parallel()

	// 88200 bytes/s at 88200 data bytes is exactly one second.
	wav := buildWAV(t, 88200, 88200)
	duration, err := tts.WAVDuration(wav)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, duration, 0.0001)

	wav = buildWAV(t, 88200, 44100)
	duration, err = tts.WAVDuration(wav)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, duration, 0.0001)
}

func TestWAVDurationRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := tts.WAVDuration([]byte("not a wav file"))
	require.ErrorIs(t, err, tts.ErrInvalidWAV)

	_, err = tts.WAVDuration(nil)
	require.ErrorIs(t, err, tts.ErrInvalidWAV)
}

func TestWAVDurationRejectsZeroByteRate(t *testing.T) {
	t.Parallel()

	wav := buildWAV(t, 0, 44100)
	_, err := tts.WAVDuration(wav)
	require.ErrorIs(t, err, tts.ErrInvalidWAV)
}

func TestWAVDurationMissingDataChunk(t *testing.T) {
	t.Parallel()

	wav := buildWAV(t, 88200, 88200)
	// Truncate right after the RIFF header: fmt and data chunks both gone.
	_, err := tts.WAVDuration(wav[:12])
	require.ErrorIs(t, err, tts.ErrInvalidWAV)
}

func TestFFmpegConverterMissingBinary(t *testing.T) {
	t.Parallel()

	converter := tts.NewFFmpegConverter("/nonexistent/ffmpeg")
	_, err := converter.ToWAV(context.Background(), []byte("mp3data"), 1, 44100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg execution failed")
}
