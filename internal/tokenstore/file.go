package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vaulthub/hubctl/internal/secure"
)

// File stores the session token in a 0600 file for hosts without a
// usable keyring (headless servers, CI). After the first read the
// plaintext is cached in a memguard enclave so repeated Gets within one
// process don't keep re-reading the file or leave extra plaintext
// copies in ordinary memory.
type File struct {
	path string

	mu    sync.Mutex
	cache *secure.Buffer
}

// NewFile creates a file-backed store at path. Parent directories are
// created on first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Set(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	f.replaceCache(token)
	return nil
}

func (f *File) Get() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cache != nil {
		token, err := f.cache.OpenString()
		if err == nil && token != "" {
			return token, nil
		}
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotFound
	}

	f.replaceCache(token)
	return token, nil
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cache != nil {
		f.cache.Destroy()
		f.cache = nil
	}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

func (f *File) Source() string { return "file" }

// replaceCache swaps the enclave under f.mu.
func (f *File) replaceCache(token string) {
	if f.cache != nil {
		f.cache.Destroy()
	}
	f.cache = secure.NewBuffer([]byte(token))
}
