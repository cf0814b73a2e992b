package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"signa/internal/domain"
)

const storageFilename = "storage.json"

var (
	// ErrUnavailable is returned by Probe when the home directory cannot hold the storage file.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrCorrupt is returned when the storage file cannot be decoded.
	ErrCorrupt = errors.New("storage file is corrupt")
)

// FileStorage persists a flat string map to <dir>/storage.json.
type FileStorage struct {
	dir        string
	passphrase string
	kdf        kdfParams
	mu         sync.Mutex
}

// NewFileStorage returns a plaintext FileStorage rooted at dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir, kdf: defaultKDF()}
}

// NewSealedFileStorage returns a FileStorage whose file is encrypted under passphrase.
func NewSealedFileStorage(dir, passphrase string) *FileStorage {
	return &FileStorage{dir: dir, passphrase: passphrase, kdf: defaultKDF()}
}

// Path returns the location of the storage file.
func (s *FileStorage) Path() string {
	return filepath.Join(s.dir, storageFilename)
}

// Sealed reports whether the file is encrypted.
func (s *FileStorage) Sealed() bool { return s.passphrase != "" }

// Probe checks that the home directory exists and is a directory.
func (s *FileStorage) Probe() error {
	if s.dir == "" {
		return fmt.Errorf("%w: no home directory", ErrUnavailable)
	}
	fi, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnavailable, s.dir)
	}
	return nil
}

// Get returns the value stored under key.
func (s *FileStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set writes all values in one rewrite of the file.
func (s *FileStorage) Set(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		m[k] = v
	}
	return s.save(m)
}

// Remove deletes keys in one rewrite of the file. A corrupt file is replaced
// by an empty map, so Remove always leaves the storage readable.
func (s *FileStorage) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		m = make(map[string]string)
	}
	for _, k := range keys {
		delete(m, k)
	}
	return s.save(m)
}

func (s *FileStorage) load() (map[string]string, error) {
	m := make(map[string]string)
	b, ok, err := readFile(s.Path())
	if err != nil {
		return nil, err
	}
	if !ok {
		return m, nil
	}
	if s.Sealed() {
		if b, err = unseal(s.passphrase, b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrCorrupt)
	}
	return m, nil
}

func (s *FileStorage) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if s.Sealed() {
		if b, err = seal(s.passphrase, b, s.kdf); err != nil {
			return err
		}
	}
	return writeFileAtomic(s.Path(), b, 0o600)
}

// Compile-time assertion that FileStorage implements domain.Storage.
var _ domain.Storage = (*FileStorage)(nil)
