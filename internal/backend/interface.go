package backend

import (
	"context"

	"registro/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the slot instance and optional cleanup function
type BackendResult struct {
	Slot    storage.Slot
	Cleanup CleanupFunc
}

// Factory creates slot backends based on configuration
type Factory interface {
	// CreateBackend creates a slot backend based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// JSON file backend specific
	DataDirectory string
}

// BackendType represents the type of slot backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	JSONFileBackend BackendType = "jsonfile"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, JSONFileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
