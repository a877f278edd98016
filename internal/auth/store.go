package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/alnah/go-resultview/internal/yamlutil"
)

// Pair is a stored session.
type Pair struct {
	Username string `yaml:"username,omitempty"`
	Access   string `yaml:"access"`
	Refresh  string `yaml:"refresh"`
}

// IsZero reports whether the pair holds no tokens.
func (p Pair) IsZero() bool {
	return p.Access == "" && p.Refresh == ""
}

// TokenStore persists the session tokens.
// Tokens returns ErrNoSession when nothing is stored.
type TokenStore interface {
	Tokens() (Pair, error)
	SetTokens(Pair) error
	Clear() error
}

var (
	_ TokenStore = (*MemoryStore)(nil)
	_ TokenStore = (*FileStore)(nil)
)

// MemoryStore keeps tokens in memory. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	pair Pair
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Tokens() (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair.IsZero() {
		return Pair{}, ErrNoSession
	}
	return m.pair, nil
}

func (m *MemoryStore) SetTokens(p Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = p
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = Pair{}
	return nil
}

// tokenFileMode keeps the token file private to the user.
const tokenFileMode = 0o600

// FileStore keeps tokens in a YAML file readable only by the user.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore at path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the token file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Tokens() (Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var p Pair
	if err := yamlutil.ReadFile(f.path, &p); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, yamlutil.ErrNilData) {
			return Pair{}, ErrNoSession
		}
		return Pair{}, fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	if p.IsZero() {
		return Pair{}, ErrNoSession
	}
	return p, nil
}

func (f *FileStore) SetTokens(p Pair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := yamlutil.WriteFile(f.path, p, tokenFileMode); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	return nil
}
