package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// DefaultFileName is the session file inside the state directory.
const DefaultFileName = "session.json"

// Record is the persisted session. User is only kept for demo tokens,
// which cannot be revalidated against a backend.
type Record struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// TokenStore persists the session between runs. Load returns nil and no
// error when nothing is stored.
type TokenStore interface {
	Load() (*Record, error)
	Save(rec Record) error
	Clear() error
}

// FileTokenStore keeps the record in a JSON file readable only by the owner.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore stores the session in dir/session.json.
func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{path: filepath.Join(dir, DefaultFileName)}
}

// Path returns the session file location.
func (f *FileTokenStore) Path() string {
	return f.path
}

func (f *FileTokenStore) Load() (*Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeStateReadFailed, "failed to read session file", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, perrors.NewStateCorruptError(f.path, err)
	}
	if rec.Token == "" {
		return nil, nil
	}
	return &rec, nil
}

// Save writes the record through a temporary file so a crash never leaves
// a truncated session behind.
func (f *FileTokenStore) Save(rec Record) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to create state directory", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to encode session", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to write session file", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to write session file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to write session file", err)
	}
	if err := tmp.Close(); err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to write session file", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to write session file", err)
	}
	return nil
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to remove session file", err)
	}
	return nil
}

// MemoryTokenStore keeps the record in memory.
type MemoryTokenStore struct {
	mu  sync.Mutex
	rec *Record
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Load() (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return nil, nil
	}
	cp := *m.rec
	return &cp, nil
}

func (m *MemoryTokenStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
