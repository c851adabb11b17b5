package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the auth token on the client. An empty token means
// logged out.
type TokenStore interface {
	// Get returns the stored token, or "" when there is none or it cannot be
	// read.
	Get() string
	// Set stores token. An empty token removes it.
	Set(token string) error
	// Clear removes the token.
	Clear() error
}

// FileStore keeps the token in one file readable only by the owner.
type FileStore struct {
	path string
}

var _ TokenStore = (*FileStore)(nil)

// NewFileStore returns a store for the file named key under dir. An empty dir
// resolves to the user config directory joined with "tracewire".
func NewFileStore(dir, key string) (*FileStore, error) {
	if key == "" {
		key = DefaultStorageKey
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve token directory: %w", err)
		}
		dir = filepath.Join(base, "tracewire")
	}
	return &FileStore{path: filepath.Join(dir, key)}, nil
}

// Path returns the token file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get() string {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *FileStore) Set(token string) error {
	if token == "" {
		return s.Clear()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in memory for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

var _ TokenStore = (*MemoryStore)(nil)

func (m *MemoryStore) Get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemoryStore) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error { return m.Set("") }
