// Package appidfile persists the last-used App ID in steam_appid.txt.
// Loading is best-effort and never fails; saving reports every I/O error.
package appidfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/five82/farmer/internal/appid"
	"github.com/five82/farmer/internal/logger"
)

// DefaultPath is relative to the working directory, where the Steamworks
// runtime also looks for it.
const DefaultPath = "steam_appid.txt"

// Load returns the ID stored at path, or 0 if the file is missing,
// unreadable, malformed or holds 0.
func Load(path string) appid.ID {
	id, _ := read(path)
	return id
}

// Save overwrites path with the decimal form of id and nothing else.
func Save(path string, id appid.ID) error {
	if !id.Valid() {
		return fmt.Errorf("save app id: %w", appid.ErrInvalidIdentifier)
	}
	resolved := resolvePath(path)

	if dir := filepath.Dir(resolved); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create app id dir: %w", err)
		}
	}
	if err := os.WriteFile(resolved, []byte(id.String()), 0o644); err != nil {
		return fmt.Errorf("write app id: %w", err)
	}
	return nil
}

// Store binds a path so the resolver and the launcher share one location.
// Store satisfies appid.Loader.
type Store struct {
	Path string
	Log  *logger.Logger
}

// Load is the package Load, logging a warning when the file exists but
// does not hold a usable ID.
func (s Store) Load() appid.ID {
	id, err := read(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.OrNop(s.Log).Warn().Err(err).Str("path", resolvePath(s.Path)).
			Msg("ignoring persisted app id")
	}
	return id
}

// Save is the package Save.
func (s Store) Save(id appid.ID) error {
	return Save(s.Path, id)
}

func read(path string) (appid.ID, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return 0, err
	}
	id, err := appid.Parse(string(data))
	if err != nil {
		return 0, err
	}
	return id, nil
}

func resolvePath(path string) string {
	if path == "" {
		return DefaultPath
	}
	return path
}
