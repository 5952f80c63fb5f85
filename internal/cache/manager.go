// Package cache owns the live category snapshot: an in-memory tree backed
// by a file that survives restarts, plus the last-sync timestamp that
// drives the staleness predicate.
package cache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kybers/play/internal/domain"
)

const (
	snapshotFile  = "tv_snapshot.json"
	syncStateFile = "sync_state.json"
)

// syncState is the persisted sync bookkeeping.
type syncState struct {
	LiveSyncedAtMs int64 `json:"liveSyncedAtMs"`
}

// Manager tracks the live category tree and its freshness.
type Manager struct {
	dir    string
	window time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	nodes    []domain.CategoryNode // nil until first successful sync
	lastSync time.Time

	now func() time.Time
}

// NewManager creates a manager rooted at dir with the given staleness
// window, loading any persisted snapshot and sync timestamp. Corrupt
// files are treated as never-synced.
func NewManager(dir string, window time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		dir:    dir,
		window: window,
		logger: logger,
		now:    time.Now,
	}
	m.nodes = m.loadSnapshot()
	m.lastSync = m.loadSyncState()
	return m
}

// IsStale reports whether the live collection needs a resync: true when
// never synced, or when the last sync is older than the window.
func (m *Manager) IsStale() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastSync.IsZero() {
		return true
	}
	return m.now().Sub(m.lastSync) > m.window
}

// Snapshot returns the last known category tree, or false if none exists.
// The returned slice is a copy; callers may mutate it freely.
func (m *Manager) Snapshot() ([]domain.CategoryNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.nodes == nil {
		return nil, false
	}
	out := make([]domain.CategoryNode, len(m.nodes))
	copy(out, m.nodes)
	return out, true
}

// SaveSnapshot persists the tree to disk and replaces the in-memory copy.
func (m *Manager) SaveSnapshot(nodes []domain.CategoryNode) error {
	data, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(m.dir, snapshotFile), data, 0644); err != nil {
		return err
	}

	m.mu.Lock()
	m.nodes = make([]domain.CategoryNode, len(nodes))
	copy(m.nodes, nodes)
	m.mu.Unlock()

	m.logger.Debug("saved live snapshot", "categories", len(nodes))
	return nil
}

// MarkSynced records now as the last successful live sync.
func (m *Manager) MarkSynced() {
	m.mu.Lock()
	m.lastSync = m.now()
	ts := m.lastSync
	m.mu.Unlock()

	m.saveSyncState(ts)
}

// LastSync returns the last successful sync time (zero if never).
func (m *Manager) LastSync() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

func (m *Manager) loadSnapshot() []domain.CategoryNode {
	data, err := os.ReadFile(filepath.Join(m.dir, snapshotFile))
	if err != nil {
		return nil
	}

	var nodes []domain.CategoryNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		m.logger.Warn("snapshot file unreadable, ignoring", "error", err)
		return nil
	}
	return nodes
}

func (m *Manager) loadSyncState() time.Time {
	data, err := os.ReadFile(filepath.Join(m.dir, syncStateFile))
	if err != nil {
		return time.Time{}
	}

	var state syncState
	if err := json.Unmarshal(data, &state); err != nil {
		m.logger.Warn("sync state file unreadable, ignoring", "error", err)
		return time.Time{}
	}
	if state.LiveSyncedAtMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(state.LiveSyncedAtMs)
}

func (m *Manager) saveSyncState(ts time.Time) {
	state := syncState{LiveSyncedAtMs: ts.UnixMilli()}
	data, err := json.Marshal(state)
	if err != nil {
		m.logger.Error("failed to marshal sync state", "error", err)
		return
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		m.logger.Error("failed to create state directory", "error", err)
		return
	}
	if err := os.WriteFile(filepath.Join(m.dir, syncStateFile), data, 0644); err != nil {
		m.logger.Error("failed to write sync state", "error", err)
	}
}
