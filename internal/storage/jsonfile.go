package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JSONFileSlot stores each slot value as a JSON document on disk, one
// file per key under a data directory.
type JSONFileSlot struct {
	dir string
}

func NewJSONFileSlot(dir string) (*JSONFileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONFileSlot{dir: dir}, nil
}

func (s *JSONFileSlot) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot file: %w", err)
	}
	return string(data), true, nil
}

func (s *JSONFileSlot) Put(_ context.Context, key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write slot file: %w", err)
	}
	return nil
}

// path maps a slot key to a file name, replacing separators so a key
// can never escape the data directory.
func (s *JSONFileSlot) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}
