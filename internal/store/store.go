// Package store implements the flat-file record store backing the site's
// editable content. Each collection is one pretty-printed JSON array on disk;
// records are free-form objects with a reserved "id" attribute assigned on
// creation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// Record is one entry in a collection. Apart from the reserved "id" key its
// shape is collection-specific and not validated here.
type Record map[string]interface{}

// ID returns the record's id, or "" if it has none.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

var (
	// ErrNotFound is returned when no record with the requested id exists.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidName is returned for collection names that fail the
	// identifier pattern. Such names never reach the filesystem.
	ErrInvalidName = errors.New("invalid collection name")

	// ErrRead wraps I/O or parse failures on read. A missing file is not an
	// error; it reads as an empty collection.
	ErrRead = errors.New("collection read failed")

	// ErrWrite wraps I/O failures on write.
	ErrWrite = errors.New("collection write failed")
)

var collectionNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidCollectionName reports whether name is a safe collection identifier.
func ValidCollectionName(name string) bool {
	return collectionNameRegex.MatchString(name)
}

// Store persists one JSON collection file per logical name under a data
// directory. It provides no locking: two concurrent read-modify-write cycles
// on the same collection race and the last writer wins.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir, creating the directory if
// needed.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", ErrWrite, err)
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) collectionPath(name string) (string, error) {
	if !ValidCollectionName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dataDir, name+".json"), nil
}

// Read returns all records of the named collection in file order. A missing
// file yields an empty collection.
func (s *Store) Read(name string) ([]Record, error) {
	path, err := s.collectionPath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, name, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Write replaces the named collection with records, pretty-printed. The file
// is written to a temp file first and renamed over the old one so readers
// never observe a half-written collection.
func (s *Store) Write(name string, records []Record) error {
	path, err := s.collectionPath(name)
	if err != nil {
		return err
	}

	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dataDir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Create assigns a fresh id to body, appends it to the collection and
// persists. The returned record includes the generated id; any "id" supplied
// by the caller is discarded.
func (s *Store) Create(name string, body Record) (Record, error) {
	records, err := s.Read(name)
	if err != nil {
		return nil, err
	}

	created := Record{}
	for k, v := range body {
		created[k] = v
	}
	created["id"] = uuid.NewString()

	records = append(records, created)
	if err := s.Write(name, records); err != nil {
		return nil, err
	}
	return created, nil
}

// Update shallow-merges partial into the record with the given id, preserving
// fields the caller did not send, and persists the collection in place.
// A field cannot be removed by omitting it; that matches the editor's
// full-draft submissions. The id itself is immutable.
func (s *Store) Update(name, id string, partial Record) (Record, error) {
	records, err := s.Read(name)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		for k, v := range partial {
			if k == "id" {
				continue
			}
			rec[k] = v
		}
		records[i] = rec
		if err := s.Write(name, records); err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, ErrNotFound
}

// Delete removes the record with the given id, shifting subsequent records
// up, and persists. The collection is untouched when the id is unknown.
func (s *Store) Delete(name, id string) error {
	records, err := s.Read(name)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		return s.Write(name, records)
	}
	return ErrNotFound
}

// Find returns the record with the given id.
func (s *Store) Find(name, id string) (Record, error) {
	records, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}
