package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

// SessionFile persists the last established identity so a restart resumes
// the same user instead of minting a new anonymous one.
type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Load returns the stored identity. A missing file is not an error.
func (f *SessionFile) Load() (domain.Identity, bool, error) {
	if f == nil || f.path == "" {
		return domain.Identity{}, false, nil
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("read session file: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return domain.Identity{}, false, fmt.Errorf("parse session file: %w", err)
	}
	if id.UID == "" {
		return domain.Identity{}, false, nil
	}
	return id, true, nil
}

// Save writes id atomically (temp file + rename).
func (f *SessionFile) Save(id domain.Identity) error {
	if f == nil || f.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear forgets the stored identity.
func (f *SessionFile) Clear() error {
	if f == nil || f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
