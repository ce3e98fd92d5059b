package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
)

// Store persists the structured-observations artifact: a JSON object keyed
// by student name whose values are the student's records in date order.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for the artifact at path.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the artifact location.
func (s *Store) Path() string { return s.path }

// Save writes groups to the artifact, replacing any previous content.
func (s *Store) Save(groups []StudentGroup) error {
	doc := make(map[string][]ObservationRecord, len(groups))
	for _, g := range groups {
		doc[g.Name] = g.Records
	}
	return WriteJSON(s.fs, s.path, doc)
}

// Load reads the artifact back as groups in ascending name order.
func (s *Store) Load() ([]StudentGroup, error) {
	var doc map[string][]ObservationRecord
	if err := ReadJSON(s.fs, s.path, &doc); err != nil {
		return nil, err
	}
	groups := make([]StudentGroup, 0, len(doc))
	for _, name := range slices.Sorted(maps.Keys(doc)) {
		groups = append(groups, StudentGroup{Name: name, Records: doc[name]})
	}
	return groups, nil
}

// SaveResults writes integrated records as a JSON array.
func SaveResults(fs afero.Fs, path string, records []IntegratedRecord) error {
	if records == nil {
		records = []IntegratedRecord{}
	}
	return WriteJSON(fs, path, records)
}

// LoadResults reads records written by SaveResults.
func LoadResults(fs afero.Fs, path string) ([]IntegratedRecord, error) {
	var out []IntegratedRecord
	if err := ReadJSON(fs, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteJSON marshals v with four-space indentation and replaces path
// atomically through a temporary file in the same directory.
func WriteJSON(fs afero.Fs, path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(name)
		return err
	}
	if err := fs.Rename(name, path); err != nil {
		_ = fs.Remove(name)
		return err
	}
	return nil
}

// ReadJSON decodes the JSON document at path into v.
func ReadJSON(fs afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
