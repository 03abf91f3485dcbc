package checkpoint

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dialektlab/entn/internal/files"
)

// Store persists the highest fully processed input id as a single
// plain-text integer. Save must only be called after the record's
// outcome has been durably written to the result sink.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored id. The second return is false when no
// checkpoint exists yet (first run).
func (s *Store) Load() (int64, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read checkpoint file: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt checkpoint file %s: %w", s.path, err)
	}
	return id, true, nil
}

// Save atomically replaces the stored id. A concurrent reader never
// observes a partial value.
func (s *Store) Save(id int64) error {
	data := []byte(strconv.FormatInt(id, 10) + "\n")
	if err := files.AtomicWrite(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Path returns the checkpoint file location.
func (s *Store) Path() string { return s.path }
