package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
	if s.Path() != ":memory:" {
		t.Fatalf("Path = %q, want :memory:", s.Path())
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "habitr.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("habits", "[]"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not rerun destructively.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	v, ok, err := s2.Lookup("habits")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "[]" {
		t.Fatalf("Lookup after reopen = %q, %v", v, ok)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != len(migrations) {
		t.Fatalf("user_version = %d, want %d", version, len(migrations))
	}
}

// ============================================================
// Slots
// ============================================================

func TestLookupMissing(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Lookup("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected missing slot, got %q, %v", v, ok)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.Put("theme", "light"); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := s.Lookup("theme")
	if !ok || v != "dark" {
		t.Fatalf("theme = %q, want dark", v)
	}

	slots, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot after overwrite, got %d", len(slots))
	}
	if slots[0].UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be set")
	}
}

func TestAllSortedByKey(t *testing.T) {
	s := newTestStore(t)
	s.Put("theme", "dark")
	s.Put("habits", "[]")
	s.Put("lastReset", "2026-01-01")

	slots, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"habits", "lastReset", "theme"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, k := range want {
		if slots[i].Key != k {
			t.Fatalf("slots[%d].Key = %q, want %q", i, slots[i].Key, k)
		}
	}
}

func TestAllEmpty(t *testing.T) {
	s := newTestStore(t)
	slots, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if slots != nil {
		t.Fatalf("expected nil slice, got %d items", len(slots))
	}
}

func TestPutAfterClose(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if err := s.Put("habits", "[]"); err == nil {
		t.Fatal("expected error writing to closed store")
	}
}
