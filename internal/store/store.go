// Package store is the simple save/load/delete persistence collaborator for
// photo entries. Records live in one JSON file; transform values are clamped
// on the way in so stale or hand-edited files can't push unsafe values into
// the scene.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/lumenforge/treelight/internal/registry"
)

// Record is one persisted photo or card.
type Record struct {
	Key       string                  `json:"key"`
	Kind      registry.EntryKind      `json:"kind"`
	SourceURL string                  `json:"url,omitempty"`
	Message   string                  `json:"message,omitempty"`
	Signature string                  `json:"signature,omitempty"`
	Transform registry.FrameTransform `json:"transform"`
}

// Store is a file-backed record set keyed by content key.
type Store struct {
	mu      sync.Mutex
	path    string
	records map[string]Record
}

// Open loads the store at path, creating an empty one if the file is absent.
func Open(path string) (*Store, error) {
	s := &Store{path: path, records: map[string]Record{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	for _, r := range recs {
		r.Transform = r.Transform.Clamp()
		s.records[r.Key] = r
	}
	return s, nil
}

// Put saves a record, clamping its transform, and flushes to disk.
func (s *Store) Put(r Record) error {
	if r.Key == "" {
		return fmt.Errorf("store: record has no key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Transform = r.Transform.Clamp()
	s.records[r.Key] = r
	return s.flush()
}

// Get returns the record for key.
func (s *Store) Get(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	return r, ok
}

// Delete removes a record and flushes.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return s.flush()
}

// List returns all records sorted by key.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Entries converts the stored records into bindable photo entries, sorted by
// key for a stable order.
func (s *Store) Entries() []registry.PhotoEntry {
	recs := s.List()
	out := make([]registry.PhotoEntry, len(recs))
	for i, r := range recs {
		out[i] = registry.PhotoEntry{
			Kind:      r.Kind,
			Key:       r.Key,
			SourceURL: r.SourceURL,
			Message:   r.Message,
			Signature: r.Signature,
			Transform: r.Transform,
			Editable:  true,
		}
	}
	return out
}

func (s *Store) flush() error {
	recs := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Key < recs[j].Key })
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}
