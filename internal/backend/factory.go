package backend

import (
	"context"
	"fmt"
	"log/slog"

	"registro/internal/log"
	"registro/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case JSONFileBackend:
		return f.createJSONFileBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	slot, err := storage.NewSQLiteSlot(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite slot: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		log.FieldComponent, log.ComponentBackend,
		"db_path", config.SQLiteDBPath)

	return &BackendResult{
		Slot:    slot,
		Cleanup: slot.Close,
	}, nil
}

func (f *DefaultFactory) createJSONFileBackend(config Config) (*BackendResult, error) {
	slot, err := storage.NewJSONFileSlot(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JSON file slot: %w", err)
	}

	f.logger.Info("Initialized JSON file backend",
		log.FieldComponent, log.ComponentBackend,
		"data_directory", config.DataDirectory)

	return &BackendResult{
		Slot:    slot,
		Cleanup: nil, // No cleanup needed for file backend
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend", log.FieldComponent, log.ComponentBackend)

	return &BackendResult{
		Slot:    storage.NewMemorySlot(),
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
