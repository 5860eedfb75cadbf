package shared

import (
	"fmt"
	"os"
	"path/filepath"

	gap "github.com/muesli/go-app-paths"
)

const appName = "cadence"

// DefaultDataDir returns the platform data directory for the application,
// creating it if necessary.
func DefaultDataDir() (string, error) {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.DataDirs()
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("no data directory available for %s", appName)
	}

	dir := dirs[0]
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// DefaultConfigPath returns the platform config file path for the application.
func DefaultConfigPath() (string, error) {
	scope := gap.NewScope(gap.User, appName)
	path, err := scope.ConfigPath("config.toml")
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return path, nil
}

// DefaultDatabasePath returns the default location of the local store.
func DefaultDatabasePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cadence.db"), nil
}
