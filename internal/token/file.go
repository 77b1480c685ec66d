package token

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the credential in a single file, mode 0600. It is the
// default backend when no Redis is configured.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore at path. The parent directory is created
// lazily on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the credential file. A missing file means logged out.
func (s *FileStore) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredential
		}
		return "", err
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", ErrNoCredential
	}
	return v, nil
}

// Save writes the credential, creating the parent directory if needed.
func (s *FileStore) Save(_ context.Context, value string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(value+"\n"), 0o600)
}

// Clear removes the credential file. Absence is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
