package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store reads and writes YAML files in one configuration directory.
type Store struct {
	dir string
}

// NewStore resolves the per-user configuration directory for appName.
func NewStore(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(configDir, appName)), nil
}

// NewStoreAt uses dir as the configuration directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the configuration directory.
func (store *Store) Dir() string {
	return store.dir
}

func (store *Store) path(name string) string {
	return filepath.Join(store.dir, name)
}

func (store *Store) writeYAML(name string, value any) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	target := store.path(name)
	temp := target + ".tmp"
	if err := os.WriteFile(temp, serialized, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(temp, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
