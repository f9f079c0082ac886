package storage

import (
	"context"
	"fmt"
	"log/slog"

	"registro/internal/core"
	"registro/internal/log"
)

// Bridge connects the in-memory record list to a slot. Load is lenient:
// whatever is wrong with the stored document, the application starts
// with what could be recovered instead of failing. Save overwrites the
// whole document on every call.
type Bridge struct {
	slot Slot
	key  string
}

func NewBridge(slot Slot, key string) *Bridge {
	return &Bridge{slot: slot, key: key}
}

func (b *Bridge) Load(ctx context.Context) []core.Expense {
	value, ok, err := b.slot.Get(ctx, b.key)
	if err != nil {
		slog.WarnContext(ctx, "Slot read failed, starting empty",
			log.FieldComponent, log.ComponentStorage,
			log.FieldStorageKey, b.key,
			log.FieldError, err)
		return []core.Expense{}
	}
	if !ok {
		slog.InfoContext(ctx, "No saved records found, starting empty",
			log.FieldComponent, log.ComponentStorage,
			log.FieldStorageKey, b.key)
		return []core.Expense{}
	}

	records, dropped, err := DecodeRecords(value)
	if err != nil {
		slog.WarnContext(ctx, "Stored records unreadable, starting empty",
			log.FieldComponent, log.ComponentStorage,
			log.FieldStorageKey, b.key,
			log.FieldError, err)
		return []core.Expense{}
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "Dropped malformed records",
			log.FieldComponent, log.ComponentStorage,
			log.FieldStorageKey, b.key,
			"dropped", dropped,
			log.FieldRecordCount, len(records))
	}
	return records
}

func (b *Bridge) Save(ctx context.Context, records []core.Expense) error {
	value, err := EncodeRecords(records)
	if err != nil {
		return err
	}
	if err := b.slot.Put(ctx, b.key, value); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}
