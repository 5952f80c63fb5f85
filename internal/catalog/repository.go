// Package catalog implements the read path of the sync engine: cached
// data when present, otherwise a fan-out fetch from the catalog client
// that populates the persistent store.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kybers/play/internal/domain"
)

// maxConcurrentFetches bounds the per-category fan-out so providers with
// hundreds of categories are not hammered with simultaneous requests.
const maxConcurrentFetches = 6

// Repository owns the cache-or-fetch decision per content kind.
type Repository struct {
	client domain.CatalogClient
	store  domain.ContentStore
	logger *slog.Logger

	// In-flight deduplication: concurrent cache-miss callers for the same
	// kind share a single upstream fetch.
	inflightMu sync.Mutex
	inflight   map[domain.ContentKind]*inflightFetch

	// Series detail is fetched lazily and kept in memory for the session
	seriesMu   sync.RWMutex
	seriesInfo map[string]*domain.SeriesInfo
}

type inflightFetch struct {
	done  chan struct{}
	items []domain.CatalogItem
}

// NewRepository creates a new content repository.
func NewRepository(client domain.CatalogClient, store domain.ContentStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		client:     client,
		store:      store,
		logger:     logger,
		inflight:   make(map[domain.ContentKind]*inflightFetch),
		seriesInfo: make(map[string]*domain.SeriesInfo),
	}
}

// Get returns all items of a kind. A populated store wins immediately with
// no freshness check; staleness is the live snapshot's concern, not this
// path's. On a miss the full catalog for that kind is fetched, persisted
// and returned. Fetch failures degrade to an empty list.
func (r *Repository) Get(ctx context.Context, kind domain.ContentKind) ([]domain.CatalogItem, error) {
	cached, err := r.store.GetAll(kind)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		r.logger.Debug("cache hit", "kind", kind, "count", len(cached))
		return cached, nil
	}

	// Join an in-flight fetch if one exists, else start it
	r.inflightMu.Lock()
	if f, ok := r.inflight[kind]; ok {
		r.inflightMu.Unlock()
		select {
		case <-f.done:
			return f.items, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &inflightFetch{done: make(chan struct{})}
	r.inflight[kind] = f
	r.inflightMu.Unlock()

	defer func() {
		r.inflightMu.Lock()
		delete(r.inflight, kind)
		r.inflightMu.Unlock()
		close(f.done)
	}()

	items, err := r.fetchAll(ctx, kind)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The read path absorbs upstream failures: no data available now
		r.logger.Warn("catalog fetch failed, returning empty", "kind", kind, "error", err)
		return nil, nil
	}

	if len(items) > 0 {
		if err := r.store.UpsertMany(kind, items); err != nil {
			r.logger.Error("failed to persist fetched items", "kind", kind, "error", err)
		}
	}

	f.items = items
	return items, nil
}

// Refresh fetches a kind unconditionally and persists the result. Unlike
// Get it propagates the category-listing failure so a sync run can abort.
func (r *Repository) Refresh(ctx context.Context, kind domain.ContentKind) ([]domain.CatalogItem, error) {
	items, err := r.fetchAll(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := r.store.UpsertMany(kind, items); err != nil {
			return nil, err
		}
	}
	r.logger.Info("refreshed collection", "kind", kind, "count", len(items))
	return items, nil
}

// fetchAll lists categories for a kind, fetches every category's items
// concurrently (bounded fan-out) and flattens the results in category
// order. A failed category contributes nothing; only the category listing
// itself is fatal. Nothing is persisted here.
func (r *Repository) fetchAll(ctx context.Context, kind domain.ContentKind) ([]domain.CatalogItem, error) {
	categories, err := r.client.GetCategories(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}

	results := make([][]domain.CatalogItem, len(categories))
	sem := make(chan struct{}, maxConcurrentFetches)
	var wg sync.WaitGroup

	for i, cat := range categories {
		wg.Add(1)
		go func(i int, cat domain.Category) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			items, err := r.client.GetItems(ctx, kind, cat.ID)
			if err != nil {
				r.logger.Warn("category fetch failed", "kind", kind, "categoryID", cat.ID, "error", err)
				return
			}
			results[i] = items
		}(i, cat)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []domain.CatalogItem
	for _, items := range results {
		all = append(all, items...)
	}
	r.logger.Debug("fetched catalog", "kind", kind, "categories", len(categories), "items", len(all))
	return all, nil
}

// LiveTree fetches the live category hierarchy with channels loaded
// eagerly per category, persisting the flattened channel set. Categories
// whose channel listing fails are kept with an empty channel list.
func (r *Repository) LiveTree(ctx context.Context) ([]domain.CategoryNode, error) {
	categories, err := r.client.GetCategories(ctx, domain.KindLive)
	if err != nil {
		return nil, err
	}

	nodes := make([]domain.CategoryNode, len(categories))
	sem := make(chan struct{}, maxConcurrentFetches)
	var wg sync.WaitGroup

	for i, cat := range categories {
		nodes[i] = domain.CategoryNode{Category: cat}
		wg.Add(1)
		go func(i int, cat domain.Category) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			channels, err := r.client.GetChannels(ctx, cat.ID)
			if err != nil {
				r.logger.Warn("channel fetch failed", "categoryID", cat.ID, "error", err)
				return
			}
			nodes[i].Channels = channels
		}(i, cat)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var flat []domain.CatalogItem
	for i := range nodes {
		for j := range nodes[i].Channels {
			flat = append(flat, &nodes[i].Channels[j])
		}
	}
	if len(flat) > 0 {
		if err := r.store.UpsertMany(domain.KindLive, flat); err != nil {
			r.logger.Error("failed to persist channels", "error", err)
		}
	}

	r.logger.Debug("built live tree", "categories", len(nodes), "channels", len(flat))
	return nodes, nil
}

// SeriesInfo returns the detail payload for one series, fetching it on
// first access and caching it in memory for the session.
func (r *Repository) SeriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error) {
	r.seriesMu.RLock()
	if info, ok := r.seriesInfo[seriesID]; ok {
		r.seriesMu.RUnlock()
		return info, nil
	}
	r.seriesMu.RUnlock()

	info, err := r.client.GetSeriesInfo(ctx, seriesID)
	if err != nil {
		r.logger.Error("failed to fetch series info", "seriesID", seriesID, "error", err)
		return nil, err
	}

	r.seriesMu.Lock()
	r.seriesInfo[seriesID] = info
	r.seriesMu.Unlock()

	return info, nil
}

// InvalidateSeriesInfo drops the in-memory series detail cache.
func (r *Repository) InvalidateSeriesInfo() {
	r.seriesMu.Lock()
	r.seriesInfo = make(map[string]*domain.SeriesInfo)
	r.seriesMu.Unlock()
}
