package overlay

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
	historyFile = "history.json"

	// maxHistorySize bounds the continue-watching list
	maxHistorySize = 20
)

// historyRecord is the on-disk form of a domain.HistoryEntry. The content
// payload uses the tagged item wrapper.
type historyRecord struct {
	Content        domain.ItemWrapper `json:"content"`
	LastPositionMs int64              `json:"lastPositionMs"`
	DurationMs     int64              `json:"durationMs"`
	Timestamp      int64              `json:"timestamp"`
}

// History implements domain.HistoryStore as a JSON file with
// move-to-front semantics and a size cap.
type History struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewHistory loads the history overlay from stateDir. A missing or
// unreadable file yields an empty list, never an error.
func NewHistory(stateDir string, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	h := &History{
		path:   filepath.Join(stateDir, historyFile),
		logger: logger,
	}
	h.entries = h.load()
	return h
}

// Add records an entry at the front. Any prior entry for the same
// (contentID, kind) is removed first, then the list is trimmed to the cap.
func (h *History) Add(entry domain.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	id, kind := entry.Content.GetContentID(), entry.Content.GetKind()
	kept := h.entries[:0:0]
	for _, e := range h.entries {
		if e.Content.GetContentID() == id && e.Content.GetKind() == kind {
			continue
		}
		kept = append(kept, e)
	}

	h.entries = append([]domain.HistoryEntry{entry}, kept...)
	if len(h.entries) > maxHistorySize {
		h.entries = h.entries[:maxHistorySize]
	}
	return h.save()
}

// List returns entries most-recent-first.
func (h *History) List() []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) load() []domain.HistoryEntry {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil
	}

	var records []historyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		h.logger.Warn("history file unreadable, starting empty", "path", h.path, "error", err)
		return nil
	}

	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, r := range records {
		content, err := r.Content.Unwrap()
		if err != nil {
			// Entries with an unknown payload are dropped, not fatal
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			Content:        content,
			LastPositionMs: r.LastPositionMs,
			DurationMs:     r.DurationMs,
			Timestamp:      r.Timestamp,
		})
	}
	return entries
}

func (h *History) save() error {
	records := make([]historyRecord, 0, len(h.entries))
	for _, e := range h.entries {
		w, err := domain.WrapItem(e.Content)
		if err != nil {
			return err
		}
		records = append(records, historyRecord{
			Content:        w,
			LastPositionMs: e.LastPositionMs,
			DurationMs:     e.DurationMs,
			Timestamp:      e.Timestamp,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(h.path, data, 0644)
}
