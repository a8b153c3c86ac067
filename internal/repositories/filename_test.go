package repositories_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avashisht/ttsbox/internal/repositories"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bird.wav", repositories.SanitizeFilename("bird.wav"))
	assert.Equal(t, "bird_chirp.wav", repositories.SanitizeFilename("bird chirp.wav"))
	assert.Equal(t, "a_b_c_d_e_f_g_.wav", repositories.SanitizeFilename(`a<b>c:d"e|f?g*.wav`))

	// Path components are stripped, forward and backward slashes alike.
	assert.Equal(t, "passwd", repositories.SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "evil.wav", repositories.SanitizeFilename(`C:\sounds\evil.wav`))

	// Leading dots go so the file cannot hide as a dot-file.
	assert.Equal(t, "hidden.wav", repositories.SanitizeFilename(".hidden.wav"))
}

func TestUniqueFilenameNoCollision(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name, err := repositories.UniqueFilename("bird", "wav", dir)
	require.NoError(t, err)
	assert.Equal(t, "bird.wav", name)
}

func TestUniqueFilenameNumericSuffix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "bird.wav")

	name, err := repositories.UniqueFilename("bird", "wav", dir)
	require.NoError(t, err)
	assert.Equal(t, "bird_1.wav", name)

	touch(t, dir, "bird_1.wav")
	name, err = repositories.UniqueFilename("bird", "wav", dir)
	require.NoError(t, err)
	assert.Equal(t, "bird_2.wav", name)
}

func TestUniqueFilenameNoExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "notes")

	name, err := repositories.UniqueFilename("notes", "", dir)
	require.NoError(t, err)
	assert.Equal(t, "notes_1", name)
}

func TestUniqueFilenameTimestampFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "bird.wav")
	for i := 1; i <= 1000; i++ {
		touch(t, dir, "bird_"+strconv.Itoa(i)+".wav")
	}

	name, err := repositories.UniqueFilename("bird", "wav", dir)
	require.NoError(t, err)
	assert.Regexp(t, `^bird_\d{10,}\.wav$`, name)
}

func TestUniqueFilenameSanitizesBase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name, err := repositories.UniqueFilename("bird chirp", "wav", dir)
	require.NoError(t, err)
	assert.Equal(t, "bird_chirp.wav", name)
}
