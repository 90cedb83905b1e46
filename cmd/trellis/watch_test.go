package main

import (
	"testing"
	"time"

	"github.com/groblegark/trellis/internal/model"
)

func TestDiffRecords_InitialQuery(t *testing.T) {
	seen := make(map[string]time.Time)
	now := time.Now()
	records := []*model.Record{
		{ID: "rec-a", UpdatedAt: now},
		{ID: "rec-b", UpdatedAt: now.Add(time.Second)},
	}

	changed := diffRecords(records, seen)
	if len(changed) != 2 {
		t.Fatalf("got %d changed, want 2", len(changed))
	}
	if len(seen) != 2 {
		t.Fatalf("got %d seen, want 2", len(seen))
	}
}

func TestDiffRecords_NoChanges(t *testing.T) {
	now := time.Now()
	seen := map[string]time.Time{
		"rec-a": now,
		"rec-b": now.Add(time.Second),
	}
	records := []*model.Record{
		{ID: "rec-a", UpdatedAt: now},
		{ID: "rec-b", UpdatedAt: now.Add(time.Second)},
	}

	changed := diffRecords(records, seen)
	if len(changed) != 0 {
		t.Fatalf("got %d changed, want 0", len(changed))
	}
}

func TestDiffRecords_NewRecord(t *testing.T) {
	now := time.Now()
	seen := map[string]time.Time{
		"rec-a": now,
	}
	records := []*model.Record{
		{ID: "rec-a", UpdatedAt: now},
		{ID: "rec-b", UpdatedAt: now},
	}

	changed := diffRecords(records, seen)
	if len(changed) != 1 {
		t.Fatalf("got %d changed, want 1", len(changed))
	}
	if changed[0].ID != "rec-b" {
		t.Errorf("got changed[0].ID=%q, want %q", changed[0].ID, "rec-b")
	}
}

func TestDiffRecords_UpdatedRecord(t *testing.T) {
	now := time.Now()
	seen := map[string]time.Time{
		"rec-a": now,
		"rec-b": now,
	}
	records := []*model.Record{
		{ID: "rec-a", UpdatedAt: now},
		{ID: "rec-b", UpdatedAt: now.Add(5 * time.Second)},
	}

	changed := diffRecords(records, seen)
	if len(changed) != 1 {
		t.Fatalf("got %d changed, want 1", len(changed))
	}
	if changed[0].ID != "rec-b" {
		t.Errorf("got changed[0].ID=%q, want %q", changed[0].ID, "rec-b")
	}
	// Verify seen map was updated.
	if !seen["rec-b"].Equal(now.Add(5 * time.Second)) {
		t.Error("seen map was not updated for rec-b")
	}
}

func TestDiffRecords_ZeroUpdatedAt(t *testing.T) {
	seen := make(map[string]time.Time)
	records := []*model.Record{
		{ID: "rec-a"}, // zero UpdatedAt
	}

	changed := diffRecords(records, seen)
	if len(changed) != 1 {
		t.Fatalf("got %d changed, want 1", len(changed))
	}

	// Second call with same zero UpdatedAt should not diff.
	changed = diffRecords(records, seen)
	if len(changed) != 0 {
		t.Fatalf("got %d changed on second call, want 0", len(changed))
	}
}
