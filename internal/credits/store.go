package credits

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps the credits record in one JSON file. It is the default
// backend: a flat single-key store, written on every mutation.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt record is treated as absent; the ledger re-defaults.
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (s *FileStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// NewStoreFromEnv picks the Postgres backend when CREDITS_PG_DSN is set and
// reachable, otherwise the file store at path.
func NewStoreFromEnv(path string) Store {
	dsn := strings.TrimSpace(os.Getenv("CREDITS_PG_DSN"))
	if dsn == "" {
		return NewFileStore(path)
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		return NewFileStore(path)
	}
	return s
}
