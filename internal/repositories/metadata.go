package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/avashisht/ttsbox/internal/models"
)

// Metadata is the process-wide store, set by InitMetadata.
var Metadata *MetadataStore

// ErrInvalidFormat is returned when the metadata file parses as JSON but does
// not contain an array.
var ErrInvalidFormat = errors.New("metadata file must contain a JSON array")

// ErrRecordNotFound is returned by lookups for unknown record ids.
var ErrRecordNotFound = errors.New("record not found")

// MetadataStore keeps the full record list in memory behind one mutex and
// flushes it to the backing JSON file after every mutation. Flushes go
// through a temp file plus rename so readers never see a partial write.
type MetadataStore struct {
	path string

	mu      sync.Mutex
	records []models.FileRecord
}

// InitMetadata opens the store at path and installs it as the global.
func InitMetadata(path string) error {
	store, err := OpenMetadata(path)
	if err != nil {
		return err
	}
	Metadata = store
	return nil
}

// OpenMetadata loads the backing JSON file. An absent or empty file is
// initialized to an empty array. Each loaded record gets missing fields
// back-filled with defaults.
func OpenMetadata(path string) (*MetadataStore, error) {
	store := &MetadataStore{path: path, records: []models.FileRecord{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		if flushErr := store.flushLocked(); flushErr != nil {
			return nil, flushErr
		}
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata file %s: %w", path, err)
	}

	// Reject non-array shapes explicitly; json.Unmarshal into a slice would
	// report objects as a bare type error.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in metadata file %s: %w", path, err)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}

	var loaded []loadRecord
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("invalid JSON in metadata file %s: %w", path, err)
	}

	store.records = make([]models.FileRecord, 0, len(loaded))
	for i := range loaded {
		store.records = append(store.records, loaded[i].materialize())
	}

	log.Printf("Loaded %d metadata entries from %s", len(store.records), path)
	return store, nil
}

// loadRecord mirrors FileRecord with pointers where the zero value is a
// legal stored value (volume 0, empty placeholder), so a missing key can be
// told apart from an explicit zero.
type loadRecord struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Size        int64         `json:"size"`
	Category    string        `json:"category"`
	Source      models.Source `json:"source"`
	Date        string        `json:"date"`
	Volume      *float64      `json:"volume"`
	Placeholder *string       `json:"placeholder"`
	URL         string        `json:"url"`
}

// materialize builds the record, filling fields older metadata files may be
// missing.
func (lr *loadRecord) materialize() models.FileRecord {
	rec := models.FileRecord{
		ID:       lr.ID,
		Name:     lr.Name,
		Type:     lr.Type,
		Size:     lr.Size,
		Category: lr.Category,
		Source:   lr.Source,
		Date:     lr.Date,
		URL:      lr.URL,
	}
	if lr.Volume != nil {
		rec.Volume = *lr.Volume
	} else {
		rec.Volume = 1
	}
	if lr.Placeholder != nil {
		rec.Placeholder = *lr.Placeholder
	} else {
		rec.Placeholder = lr.Name
	}
	if rec.Source.Type == "" {
		rec.Source.Type = models.SourceUnknown
	}
	if rec.Date == "" {
		rec.Date = "Unknown"
	}
	if rec.Category == "" {
		rec.Category = "unknown"
	}
	if rec.Source.Type == models.SourceLocal && rec.Source.Metadata == nil {
		rec.Source.Metadata = &models.SourceMetadata{
			Name: rec.Name,
			Type: rec.Type,
			Size: rec.Size,
		}
	}
	return rec
}

// flushLocked writes the full array, pretty-printed, to a temp file and
// renames it over the backing file. Callers must hold mu (or be the only
// reference, as during Open).
func (s *MetadataStore) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".metadata-*")
	if err != nil {
		return fmt.Errorf("create metadata temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write metadata temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close metadata temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace metadata file: %w", err)
	}
	return nil
}

// List returns a copy of the full record list.
func (s *MetadataStore) List() []models.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.FileRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *MetadataStore) Get(id string) (models.FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.FileRecord{}, false
}

// Append adds records and flushes once. On flush failure the in-memory list
// is rolled back.
func (s *MetadataStore) Append(recs ...models.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := len(s.records)
	s.records = append(s.records, recs...)
	if err := s.flushLocked(); err != nil {
		s.records = s.records[:prev]
		return err
	}
	return nil
}

// Replace swaps the record with the given id for rec and flushes.
func (s *MetadataStore) Replace(id string, rec models.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		prev := s.records[i]
		s.records[i] = rec
		if err := s.flushLocked(); err != nil {
			s.records[i] = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// UpdateByURL applies fn to the first record whose URL matches and flushes.
// Returns false when no record matches (not an error: the original keeps the
// file even when its metadata entry has gone missing).
func (s *MetadataStore) UpdateByURL(url string, fn func(*models.FileRecord)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].URL != url {
			continue
		}
		prev := s.records[i]
		fn(&s.records[i])
		if err := s.flushLocked(); err != nil {
			s.records[i] = prev
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// RemoveByURL drops every record whose URL matches and flushes.
func (s *MetadataStore) RemoveByURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		if rec.URL != url {
			kept = append(kept, rec)
		}
	}
	prev := s.records
	s.records = kept
	if err := s.flushLocked(); err != nil {
		s.records = prev
		return err
	}
	return nil
}

// Reset empties the record list and flushes.
func (s *MetadataStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.records
	s.records = []models.FileRecord{}
	if err := s.flushLocked(); err != nil {
		s.records = prev
		return err
	}
	return nil
}
