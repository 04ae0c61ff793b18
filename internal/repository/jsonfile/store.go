// Package jsonfile persists the page → EditSet mapping as a single
// pretty-printed JSON file with whole-file overwrite semantics.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pagesmith/internal/domain"
	"pagesmith/internal/observability"
)

// Store implements domain.EditRepository on top of one JSON file.
//
// A process-local mutex serializes reads and writes; across processes the
// last completed save wins in full. The deployment assumption is a single
// editor behind a single server process.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path. The file and its
// directory are created lazily on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// LoadAll reads the persisted mapping. A missing, corrupt, or non-object
// file yields an empty mapping and no error: the read path fails open so a
// bad store file can never take down page rendering.
func (s *Store) LoadAll(ctx context.Context) (domain.PageEdits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			observability.Warn("edit store unreadable, treating as empty",
				"path", s.path, "error", err.Error())
		}
		return domain.PageEdits{}, nil
	}

	var edits domain.PageEdits
	if err := json.Unmarshal(raw, &edits); err != nil {
		observability.Warn("edit store corrupt, treating as empty",
			"path", s.path, "error", err.Error())
		return domain.PageEdits{}, nil
	}

	if edits == nil {
		return domain.PageEdits{}, nil
	}

	for page, set := range edits {
		edits[page] = set.Normalize()
	}

	return edits, nil
}

// SaveAll atomically replaces the whole persisted mapping: the JSON is
// written to a temp file in the target directory and renamed over the store
// file, so readers never observe a partial write.
func (s *Store) SaveAll(ctx context.Context, edits domain.PageEdits) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		observability.StoreWriteDuration.Observe(time.Since(start).Seconds())
	}()

	raw, err := json.MarshalIndent(edits, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	observability.StorePages.Set(float64(len(edits)))
	return nil
}
