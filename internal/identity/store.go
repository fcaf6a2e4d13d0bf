// Package identity manages the anonymous identity lifecycle: device-held
// credentials, session tokens, and the user's optional profile.
package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Credentials are the device-held identity: a user ID and its session
// token. Losing them loses the identity; there is no account recovery.
type Credentials struct {
	UserID string `yaml:"user_id"`
	Token  string `yaml:"token"`
}

// CredentialStore persists credentials across launches.
type CredentialStore interface {
	// Load returns the stored credentials, or nil when none exist.
	Load() (*Credentials, error)
	Save(creds *Credentials) error
	Clear() error
}

// FileStore keeps credentials in a YAML file with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads credentials from disk. A missing file means no identity yet.
func (s *FileStore) Load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if creds.UserID == "" || creds.Token == "" {
		return nil, nil
	}
	return &creds, nil
}

// Save writes credentials to disk, creating parent directories as needed.
func (s *FileStore) Save(creds *Credentials) error {
	raw, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. Clearing a missing file is fine.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
