package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores credentials as a JSON object in a single file,
// created with 0600 permissions.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend writing to the given path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// DefaultFileBackend places the credential file in the user config
// directory: ~/.config/walkon/credentials.json
func DefaultFileBackend() (*FileBackend, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return NewFileBackend(filepath.Join(configDir, "walkon", "credentials.json")), nil
}

func (b *FileBackend) Name() string { return "file" }

// Path returns the credential file path.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Get(key string) (string, error) {
	values, err := b.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (b *FileBackend) Set(key, value string) error {
	values, err := b.read()
	if err != nil {
		return err
	}
	if value == "" {
		delete(values, key)
	} else {
		values[key] = value
	}
	return b.write(values)
}

func (b *FileBackend) Delete(key string) error {
	values, err := b.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return b.write(values)
}

// read loads the credential file. A missing file is an empty map.
func (b *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return values, nil
}

func (b *FileBackend) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(b.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
