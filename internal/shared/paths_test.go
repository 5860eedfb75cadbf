package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDataDir(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dataHome, appName); dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected the directory to be created: %v", err)
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	path, err := DefaultDatabasePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dataHome, appName, "cadence.db"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(configHome, appName, "config.toml"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("expected the config directory to be created: %v", err)
	}
}
