package main

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/wrungel/sweep/internal/store"
)

// TestUpdateFlow_InsertThenAmend exercises the same store.ParseUpdateRecord
// + store.Update path runUpdate drives, without needing a TTY or stdin.
func TestUpdateFlow_InsertThenAmend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	insert, err := store.ParseUpdateRecord("cmd\ngit status\x00cwd\n/repo\x00start_ts\n100.0\x00session\nabc")
	if err != nil {
		t.Fatalf("parsing insert record: %v", err)
	}
	ctx := context.Background()
	id, err := s.Update(ctx, insert)
	if err != nil {
		t.Fatalf("inserting: %v", err)
	}

	amend, err := store.ParseUpdateRecord("id\n" + strconv.FormatInt(id, 10) + "\x00status\n0\x00end_ts\n101.5")
	if err != nil {
		t.Fatalf("parsing amend record: %v", err)
	}
	if _, err := s.Update(ctx, amend); err != nil {
		t.Fatalf("amending: %v", err)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Cmd != "git status" || e.Status != 0 || e.EndTS != 101.5 {
		t.Fatalf("unexpected merged entry: %+v", e)
	}
}

