// Package search provides ranked fuzzy search over the cached catalog.
// It never touches the network: whatever the store holds is searchable.
package search

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/kybers/play/internal/domain"
)

// Result is one ranked search hit.
type Result struct {
	Item           domain.CatalogItem
	MatchedIndexes []int // Character positions that matched, for highlighting
	Score          int   // Higher is better
}

// itemIndex implements fuzzy.Source over pre-lowered titles.
type itemIndex struct {
	items       []domain.CatalogItem
	lowerTitles []string
}

func (idx *itemIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *itemIndex) Len() int            { return len(idx.items) }

// Service indexes the cached catalog for fuzzy matching.
type Service struct {
	store  domain.ContentStore
	logger *slog.Logger

	mu    sync.RWMutex
	index *itemIndex
}

// NewService creates a search service over the content store.
func NewService(store domain.ContentStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Search returns ranked matches for query across the given kinds (all
// kinds when none are named). The index is built lazily on first use.
func (s *Service) Search(query string, kinds ...domain.ContentKind) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	idx, err := s.ensureIndex()
	if err != nil {
		s.logger.Error("failed to build search index", "error", err)
		return nil
	}

	kindSet := make(map[domain.ContentKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		item := idx.items[m.Index]
		if len(kindSet) > 0 && !kindSet[item.GetKind()] {
			continue
		}
		results = append(results, Result{
			Item:           item,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}

	s.logger.Debug("search complete", "query", query, "results", len(results))
	return results
}

// Invalidate drops the index so the next search rebuilds it from the
// store. Call after a sync replaces the cached catalog.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()
}

func (s *Service) ensureIndex() (*itemIndex, error) {
	s.mu.RLock()
	if s.index != nil {
		idx := s.index
		s.mu.RUnlock()
		return idx, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil {
		return s.index, nil
	}

	idx := &itemIndex{}
	for _, kind := range domain.Kinds() {
		items, err := s.store.GetAll(kind)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			idx.items = append(idx.items, item)
			idx.lowerTitles = append(idx.lowerTitles, strings.ToLower(item.GetTitle()))
		}
	}

	s.index = idx
	s.logger.Debug("built search index", "items", idx.Len())
	return idx, nil
}
