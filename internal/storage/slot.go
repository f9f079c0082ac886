// Package storage implements the durable slot the record list persists
// into: the slot port, its sqlite/jsonfile/memory backends, and the
// bridge that encodes records to and from the slot value.
package storage

import "context"

// Slot is a single-key durable string store, the persistence port the
// whole application writes through. Get reports ok=false when the key
// has never been written.
type Slot interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}
