package domain

import "context"

// CatalogClient is the remote catalog API. Every call may fail with a
// network or decode error; callers treat failure as "no data available now".
type CatalogClient interface {
	// Authenticate verifies the configured credentials against the server
	Authenticate(ctx context.Context) error

	// GetCategories returns the category list for one collection
	GetCategories(ctx context.Context, kind ContentKind) ([]Category, error)

	// GetItems returns the items of one category within a collection
	GetItems(ctx context.Context, kind ContentKind, categoryID string) ([]CatalogItem, error)

	// GetChannels returns the live streams of one category
	GetChannels(ctx context.Context, categoryID string) ([]Channel, error)

	// GetSeriesInfo returns seasons and episodes for one series
	GetSeriesInfo(ctx context.Context, seriesID string) (*SeriesInfo, error)
}

// ContentStore is the durable cache of synced catalog items.
// Batches commit atomically; rows survive until an explicit clear.
type ContentStore interface {
	// UpsertMany bulk-inserts items into a collection, replacing rows that
	// share a content id. The whole batch commits in one transaction.
	UpsertMany(kind ContentKind, items []CatalogItem) error

	// GetAll returns every cached item of a collection
	GetAll(kind ContentKind) ([]CatalogItem, error)

	// ChannelsByCategory returns cached live channels for one category
	ChannelsByCategory(categoryID string) ([]Channel, error)

	// Clear wipes one collection
	Clear(kind ContentKind) error

	// ClearAll wipes every collection
	ClearAll() error

	Close() error
}

// FavoritesStore persists the user's favorites overlay. Entries are
// denormalized item copies so they remain viewable offline.
type FavoritesStore interface {
	// Add inserts the item at the front; no-op if already present
	Add(item CatalogItem) error

	// Remove deletes the entry matching (contentID, kind); no-op if absent
	Remove(contentID string, kind ContentKind) error

	// IsFavorite reports whether (contentID, kind) is present
	IsFavorite(contentID string, kind ContentKind) bool

	// List returns entries most-recently-favorited first
	List() []CatalogItem
}

// HistoryStore persists the continue-watching overlay with move-to-front
// semantics and a bounded size.
type HistoryStore interface {
	// Add records an entry at the front, replacing any prior entry for the
	// same (contentID, kind)
	Add(entry HistoryEntry) error

	// List returns entries most-recent-first
	List() []HistoryEntry
}
