package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONFileSlotRoundTrip(t *testing.T) {
	slot, err := NewJSONFileSlot(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewJSONFileSlot failed: %v", err)
	}

	ctx := context.Background()

	if _, ok, err := slot.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := slot.Put(ctx, "k", "[]"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value, ok, err := slot.Get(ctx, "k")
	if err != nil || !ok || value != "[]" {
		t.Fatalf("Get(k) = %q ok=%v err=%v, want %q ok=true", value, ok, err, "[]")
	}

	if err := slot.Put(ctx, "k", "updated"); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}
	value, _, err = slot.Get(ctx, "k")
	if err != nil || value != "updated" {
		t.Fatalf("Get(k) after overwrite = %q err=%v, want %q", value, err, "updated")
	}
}

func TestJSONFileSlotKeyStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewJSONFileSlot(dir)
	if err != nil {
		t.Fatalf("NewJSONFileSlot failed: %v", err)
	}

	ctx := context.Background()
	if err := slot.Put(ctx, "../escape/attempt", "x"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".._escape_attempt.json")); err != nil {
		t.Errorf("expected sanitized file inside data dir, stat failed: %v", err)
	}

	value, ok, err := slot.Get(ctx, "../escape/attempt")
	if err != nil || !ok || value != "x" {
		t.Errorf("Get after sanitized Put = %q ok=%v err=%v, want %q ok=true", value, ok, err, "x")
	}
}
