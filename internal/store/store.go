// Package store holds the in-memory expense list and writes it through
// to durable storage on every mutation.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"registro/internal/core"
	"registro/internal/log"
)

// Snapshotter persists and restores the full record list. Load never
// fails: unreadable or malformed durable data comes back as an empty
// (or partially recovered) list.
type Snapshotter interface {
	Load(ctx context.Context) []core.Expense
	Save(ctx context.Context, records []core.Expense) error
}

// Store keeps the records newest-first and persists the whole list
// after each mutation. The snapshotter is injected once at startup.
type Store struct {
	mu      sync.RWMutex
	records []core.Expense
	snap    Snapshotter
}

func New(snap Snapshotter) *Store {
	return &Store{snap: snap}
}

// Load replaces the in-memory records from the snapshotter. Called once
// at startup, before the store is shared.
func (s *Store) Load(ctx context.Context) {
	records := s.snap.Load(ctx)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	slog.InfoContext(ctx, "Store loaded",
		log.FieldComponent, log.ComponentStore,
		log.FieldOperation, log.OpLoad,
		log.FieldRecordCount, len(records))
}

// Add inserts the record at the head (most-recent-first) and persists.
// The in-memory insert sticks even when persisting fails; the next
// successful write re-persists the full list.
func (s *Store) Add(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	s.records = append([]core.Expense{e}, s.records...)
	snapshot := s.copyLocked()
	s.mu.Unlock()

	if err := s.snap.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist after add: %w", err)
	}
	return nil
}

// Remove deletes the record with the given id and persists. Removing an
// absent id is a no-op, not an error; the write-through still runs. The
// returned flag reports whether a record was actually removed.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	kept := s.records[:0:0]
	for _, e := range s.records {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(kept) < len(s.records)
	s.records = kept
	snapshot := s.copyLocked()
	s.mu.Unlock()

	if err := s.snap.Save(ctx, snapshot); err != nil {
		return removed, fmt.Errorf("persist after remove: %w", err)
	}
	return removed, nil
}

// All returns a copy of the records in store order (newest first).
// Consumers re-sort for display, so the order carries no contract.
func (s *Store) All() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.records {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// Len returns the current record count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// copyLocked duplicates the record slice; callers hold at least a read lock.
func (s *Store) copyLocked() []core.Expense {
	out := make([]core.Expense, len(s.records))
	copy(out, s.records)
	return out
}
