// Package syncer runs the periodic full resync: clear every collection,
// refetch everything, and mark the live snapshot fresh — or abort and
// leave the next scheduled run to retry.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kybers/play/internal/domain"
)

// catalogSource is the slice of the repository the orchestrator needs.
type catalogSource interface {
	LiveTree(ctx context.Context) ([]domain.CategoryNode, error)
	Refresh(ctx context.Context, kind domain.ContentKind) ([]domain.CatalogItem, error)
}

// snapshotSink is the slice of the cache manager the orchestrator needs.
type snapshotSink interface {
	SaveSnapshot(nodes []domain.CategoryNode) error
	MarkSynced()
	IsStale() bool
}

// Orchestrator performs full catalog resyncs on a fixed period.
type Orchestrator struct {
	source   catalogSource
	store    domain.ContentStore
	cache    snapshotSink
	creds    func() domain.Credentials
	interval time.Duration
	logger   *slog.Logger
}

// NewOrchestrator creates a sync orchestrator. creds is read at the start
// of every run so credential changes take effect without a restart.
func NewOrchestrator(
	source catalogSource,
	store domain.ContentStore,
	cache snapshotSink,
	creds func() domain.Credentials,
	interval time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		source:   source,
		store:    store,
		cache:    cache,
		creds:    creds,
		interval: interval,
		logger:   logger,
	}
}

// Run executes RunOnce on the configured period until ctx is cancelled.
// An immediate run happens first when the live snapshot is stale. A failed
// run is not retried inline; the next tick covers it.
func (o *Orchestrator) Run(ctx context.Context) {
	if o.cache.IsStale() {
		if err := o.RunOnce(ctx); err != nil {
			o.logger.Error("initial sync failed", "error", err)
		}
	}

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("sync loop stopped")
			return
		case <-ticker.C:
			if err := o.RunOnce(ctx); err != nil {
				o.logger.Error("scheduled sync failed", "error", err)
			}
		}
	}
}

// RunOnce performs one full resync. Steps run in order: credential check,
// clear all collections, refetch live tree, movies, series. The first
// failing step aborts the run; the store is then left empty until the next
// scheduled run, while the last good live snapshot remains visible.
func (o *Orchestrator) RunOnce(ctx context.Context) error {
	started := time.Now()

	if !o.creds().Complete() {
		o.logger.Error("sync skipped, no credentials stored")
		return domain.ErrMissingCredentials
	}

	o.logger.Info("starting full catalog sync")

	if err := o.store.ClearAll(); err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}

	tree, err := o.source.LiveTree(ctx)
	if err != nil {
		return fmt.Errorf("sync live channels: %w", err)
	}

	if _, err := o.source.Refresh(ctx, domain.KindMovie); err != nil {
		return fmt.Errorf("sync movies: %w", err)
	}

	if _, err := o.source.Refresh(ctx, domain.KindSeries); err != nil {
		return fmt.Errorf("sync series: %w", err)
	}

	if err := o.cache.SaveSnapshot(tree); err != nil {
		return fmt.Errorf("save live snapshot: %w", err)
	}
	o.cache.MarkSynced()

	o.logger.Info("full catalog sync complete", "categories", len(tree), "took", time.Since(started))
	return nil
}
