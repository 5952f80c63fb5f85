// Package overlay persists user-specific data (favorites, watch history)
// layered on top of the synced catalog. Overlay files are independent of
// the sync cycle: a full resync never touches them.
package overlay

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kybers/play/internal/domain"
)

const favoritesFile = "favorites.json"

// Favorites implements domain.FavoritesStore as a JSON file. Entries are
// denormalized item copies so favorites stay viewable offline even when a
// later sync drops their category.
type Favorites struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	entries []domain.CatalogItem
}

// NewFavorites loads the favorites overlay from stateDir. A missing or
// unreadable file yields an empty list, never an error.
func NewFavorites(stateDir string, logger *slog.Logger) *Favorites {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Favorites{
		path:   filepath.Join(stateDir, favoritesFile),
		logger: logger,
	}
	f.entries = f.load()
	return f
}

// Add inserts the item at the front. No-op if already present.
func (f *Favorites) Add(item domain.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.indexOf(item.GetContentID(), item.GetKind()) >= 0 {
		return nil
	}
	f.entries = append([]domain.CatalogItem{item}, f.entries...)
	return f.save()
}

// Remove deletes the entry matching (contentID, kind). No-op if absent.
func (f *Favorites) Remove(contentID string, kind domain.ContentKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(contentID, kind)
	if i < 0 {
		return nil
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return f.save()
}

// IsFavorite reports whether (contentID, kind) is present.
func (f *Favorites) IsFavorite(contentID string, kind domain.ContentKind) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(contentID, kind) >= 0
}

// List returns entries most-recently-favorited first.
func (f *Favorites) List() []domain.CatalogItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.CatalogItem, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Favorites) indexOf(contentID string, kind domain.ContentKind) int {
	for i, e := range f.entries {
		if e.GetContentID() == contentID && e.GetKind() == kind {
			return i
		}
	}
	return -1
}

func (f *Favorites) load() []domain.CatalogItem {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil
	}

	var wrappers []domain.ItemWrapper
	if err := json.Unmarshal(data, &wrappers); err != nil {
		f.logger.Warn("favorites file unreadable, starting empty", "path", f.path, "error", err)
		return nil
	}
	return domain.UnwrapItems(wrappers)
}

func (f *Favorites) save() error {
	wrappers, err := domain.WrapItems(f.entries)
	if err != nil {
		return err
	}
	data, err := json.Marshal(wrappers)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0644)
}
