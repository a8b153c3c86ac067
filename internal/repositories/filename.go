package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrAllocationExhausted is returned when no collision-free filename could be
// generated, numeric suffixes and the timestamp fallback included.
var ErrAllocationExhausted = errors.New("cannot generate unique filename")

// maxSuffixAttempts bounds the numeric suffix search before falling back to a
// unix-timestamp suffix.
const maxSuffixAttempts = 1000

// SanitizeFilename strips path components and replaces characters that are
// invalid in common filesystems. Spaces become underscores so generated names
// stay shell-friendly.
func SanitizeFilename(name string) string {
	// Drop any directory part a client may have smuggled into the name.
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	replacer := strings.NewReplacer(
		"<", "_",
		">", "_",
		":", "_",
		"\"", "_",
		"|", "_",
		"?", "_",
		"*", "_",
		" ", "_",
	)
	name = replacer.Replace(name)

	// A bare dot-file would vanish into directory listings; keep the stem.
	return strings.TrimLeft(name, ".")
}

// UniqueFilename returns a filesystem-safe filename guaranteed (at call time)
// not to exist in dir. Collisions are resolved with numeric suffixes
// (base_1.ext, base_2.ext, ...) up to maxSuffixAttempts, then a unix
// timestamp suffix as a last resort.
func UniqueFilename(baseName, extension, dir string) (string, error) {
	filename := SanitizeFilename(joinName(baseName, extension))
	if !fileExists(filepath.Join(dir, filename)) {
		return filename, nil
	}

	for counter := 1; counter <= maxSuffixAttempts; counter++ {
		filename = SanitizeFilename(joinName(fmt.Sprintf("%s_%d", baseName, counter), extension))
		if !fileExists(filepath.Join(dir, filename)) {
			return filename, nil
		}
	}

	timestamp := time.Now().Unix()
	filename = SanitizeFilename(joinName(fmt.Sprintf("%s_%d", baseName, timestamp), extension))
	if !fileExists(filepath.Join(dir, filename)) {
		return filename, nil
	}

	return "", fmt.Errorf("%w for %s", ErrAllocationExhausted, joinName(baseName, extension))
}

func joinName(base, extension string) string {
	if extension == "" {
		return base
	}
	return base + "." + extension
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
