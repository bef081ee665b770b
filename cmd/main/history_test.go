package main

import (
	"context"
	"path/filepath"
	"testing"
)

// setupTestHistory opens a history database in a temporary directory.
func setupTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	history, err := OpenHistory(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory() failed: %v", err)
	}
	t.Cleanup(func() { _ = history.Close() })
	return history
}

func TestHistoryRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	history := setupTestHistory(t)

	seed := int64(42)
	first, err := history.Record(ctx, GenerationRecord{WindowLength: 1, Seed: &seed, InitialText: "a", TargetLength: 4, Output: "ababa"})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("expected ID and timestamp to be assigned, got %+v", first)
	}
	second, err := history.Record(ctx, GenerationRecord{WindowLength: 2, InitialText: "hi", TargetLength: 10, Output: "hi there"})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	records, err := history.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Errorf("expected newest first, got %s then %s", records[0].ID, records[1].ID)
	}
	if records[0].Seed != nil {
		t.Errorf("expected no seed on the unseeded record, got %d", *records[0].Seed)
	}
	if records[1].Seed == nil || *records[1].Seed != 42 {
		t.Errorf("expected seed 42, got %v", records[1].Seed)
	}
	if records[1].Output != "ababa" || records[1].TargetLength != 4 {
		t.Errorf("unexpected stored record: %+v", records[1])
	}

	limited, err := history.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Errorf("expected only the newest record, got %+v", limited)
	}
}
