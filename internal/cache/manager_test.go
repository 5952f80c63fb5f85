package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kybers/play/internal/domain"
	"github.com/kybers/play/internal/logging"
)

func testNodes() []domain.CategoryNode {
	return []domain.CategoryNode{
		{
			Category: domain.Category{ID: "10", Name: "News"},
			Channels: []domain.Channel{{ID: "1", Name: "CNN", CategoryID: "10"}},
		},
		{
			Category: domain.Category{ID: "11", Name: "Sports"},
		},
	}
}

func TestIsStale(t *testing.T) {
	m := NewManager(t.TempDir(), 12*time.Hour, logging.NullLogger())

	if !m.IsStale() {
		t.Error("never-synced manager must be stale")
	}

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.MarkSynced()

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"just synced", 0, false},
		{"inside window", 11 * time.Hour, false},
		{"exactly at window", 12 * time.Hour, false},
		{"past window", 12*time.Hour + time.Minute, true},
		{"far past window", 48 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.now = func() time.Time { return base.Add(tt.elapsed) }
			if got := m.IsStale(); got != tt.want {
				t.Errorf("IsStale() after %v = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := NewManager(dir, 12*time.Hour, logging.NullLogger())
	if _, ok := m.Snapshot(); ok {
		t.Error("fresh manager must have no snapshot")
	}

	if err := m.SaveSnapshot(testNodes()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	m.MarkSynced()

	nodes, ok := m.Snapshot()
	if !ok {
		t.Fatal("Snapshot() returned no data after save")
	}
	if len(nodes) != 2 || len(nodes[0].Channels) != 1 {
		t.Errorf("snapshot = %+v", nodes)
	}

	// A new manager over the same dir reads both files back
	m2 := NewManager(dir, 12*time.Hour, logging.NullLogger())
	nodes, ok = m2.Snapshot()
	if !ok {
		t.Fatal("Snapshot() empty after reload")
	}
	if nodes[0].Category.Name != "News" || nodes[0].Channels[0].Name != "CNN" {
		t.Errorf("reloaded snapshot = %+v", nodes)
	}
	if m2.LastSync().IsZero() {
		t.Error("last sync timestamp lost across reload")
	}
	if m2.IsStale() {
		t.Error("freshly synced state reloaded as stale")
	}
}

func TestSnapshotReturnsCopy(t *testing.T) {
	m := NewManager(t.TempDir(), 12*time.Hour, logging.NullLogger())
	if err := m.SaveSnapshot(testNodes()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	first, _ := m.Snapshot()
	first[0].Category.Name = "mutated"
	first[0].Expanded = true

	second, _ := m.Snapshot()
	if second[0].Category.Name != "News" || second[0].Expanded {
		t.Error("caller mutation leaked into the manager's snapshot")
	}
}

func TestCorruptFilesTreatedAsNeverSynced(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tv_snapshot.json"), []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sync_state.json"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir, 12*time.Hour, logging.NullLogger())
	if _, ok := m.Snapshot(); ok {
		t.Error("corrupt snapshot file must yield no snapshot")
	}
	if !m.IsStale() {
		t.Error("corrupt sync state must read as never-synced")
	}
}
