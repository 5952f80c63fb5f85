package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kybers/play/internal/domain"
	"github.com/kybers/play/internal/logging"
	"github.com/kybers/play/internal/store"
)

// fakeClient implements domain.CatalogClient with canned responses and
// call counting.
type fakeClient struct {
	mu             sync.Mutex
	categories     map[domain.ContentKind][]domain.Category
	items          map[string][]domain.CatalogItem // Keyed by category id
	channels       map[string][]domain.Channel
	seriesInfo     map[string]*domain.SeriesInfo
	failCategories map[string]error // Per-category GetItems failures
	categoriesErr  error

	categoryCalls   atomic.Int32
	itemCalls       atomic.Int32
	seriesInfoCalls atomic.Int32

	itemsBarrier chan struct{} // When set, GetItems blocks until closed
}

func (f *fakeClient) Authenticate(ctx context.Context) error { return nil }

func (f *fakeClient) GetCategories(ctx context.Context, kind domain.ContentKind) ([]domain.Category, error) {
	f.categoryCalls.Add(1)
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories[kind], nil
}

func (f *fakeClient) GetItems(ctx context.Context, kind domain.ContentKind, categoryID string) ([]domain.CatalogItem, error) {
	f.itemCalls.Add(1)
	if f.itemsBarrier != nil {
		<-f.itemsBarrier
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failCategories[categoryID]; ok {
		return nil, err
	}
	return f.items[categoryID], nil
}

func (f *fakeClient) GetChannels(ctx context.Context, categoryID string) ([]domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failCategories[categoryID]; ok {
		return nil, err
	}
	return f.channels[categoryID], nil
}

func (f *fakeClient) GetSeriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error) {
	f.seriesInfoCalls.Add(1)
	info, ok := f.seriesInfo[seriesID]
	if !ok {
		return nil, errors.New("unknown series")
	}
	return info, nil
}

func newTestStore(t *testing.T) domain.ContentStore {
	t.Helper()
	s, err := store.NewContentStore(t.TempDir(), "", logging.NullLogger())
	if err != nil {
		t.Fatalf("NewContentStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func movieCatalog() *fakeClient {
	return &fakeClient{
		categories: map[domain.ContentKind][]domain.Category{
			domain.KindMovie: {
				{ID: "a", Name: "Action"},
				{ID: "b", Name: "Drama"},
			},
		},
		items: map[string][]domain.CatalogItem{
			"a": {&domain.Movie{ID: "m1", Name: "Heat", CategoryID: "a"}, &domain.Movie{ID: "m2", Name: "Ronin", CategoryID: "a"}},
			"b": {&domain.Movie{ID: "m3", Name: "Ikiru", CategoryID: "b"}},
		},
	}
}

func TestGetFetchesOnMissAndPersists(t *testing.T) {
	client := movieCatalog()
	s := newTestStore(t)
	repo := NewRepository(client, s, logging.NullLogger())

	items, err := repo.Get(context.Background(), domain.KindMovie)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	// Results flatten in category order
	wantOrder := []string{"m1", "m2", "m3"}
	for i, want := range wantOrder {
		if items[i].GetContentID() != want {
			t.Errorf("items[%d] = %s, want %s", i, items[i].GetContentID(), want)
		}
	}

	// Fetched items landed in the store
	cached, err := s.GetAll(domain.KindMovie)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(cached) != 3 {
		t.Errorf("store holds %d items, want 3", len(cached))
	}
}

func TestGetServesCacheWithoutFetching(t *testing.T) {
	client := movieCatalog()
	s := newTestStore(t)
	repo := NewRepository(client, s, logging.NullLogger())

	if _, err := repo.Get(context.Background(), domain.KindMovie); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	before := client.categoryCalls.Load()

	for i := 0; i < 3; i++ {
		items, err := repo.Get(context.Background(), domain.KindMovie)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("got %d items, want 3", len(items))
		}
	}

	if got := client.categoryCalls.Load(); got != before {
		t.Errorf("cache hits still reached the client: %d calls, want %d", got, before)
	}
}

func TestGetAbsorbsCategoryListingFailure(t *testing.T) {
	client := movieCatalog()
	client.categoriesErr = domain.ErrServerOffline
	repo := NewRepository(client, newTestStore(t), logging.NullLogger())

	items, err := repo.Get(context.Background(), domain.KindMovie)
	if err != nil {
		t.Fatalf("Get() error = %v, want nil (read path absorbs failures)", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestGetPartialCategoryFailure(t *testing.T) {
	client := movieCatalog()
	client.failCategories = map[string]error{"a": errors.New("timeout")}
	repo := NewRepository(client, newTestStore(t), logging.NullLogger())

	items, err := repo.Get(context.Background(), domain.KindMovie)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	// Category a contributes nothing, category b survives
	if len(items) != 1 || items[0].GetContentID() != "m3" {
		t.Errorf("items = %v, want [m3]", ids(items))
	}
}

func TestGetDeduplicatesConcurrentFetches(t *testing.T) {
	client := movieCatalog()
	client.itemsBarrier = make(chan struct{})
	repo := NewRepository(client, newTestStore(t), logging.NullLogger())

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]domain.CatalogItem, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.Get(context.Background(), domain.KindMovie)
		}(i)
	}

	// Let every caller reach the join point, then release the fetch
	for client.categoryCalls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(client.itemsBarrier)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d error = %v", i, errs[i])
		}
		if len(results[i]) != 3 {
			t.Errorf("caller %d got %d items, want 3", i, len(results[i]))
		}
	}
	if got := client.categoryCalls.Load(); got != 1 {
		t.Errorf("category listing fetched %d times, want 1", got)
	}
}

func TestGetContextCancellation(t *testing.T) {
	client := movieCatalog()
	repo := NewRepository(client, newTestStore(t), logging.NullLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, domain.KindMovie)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestRefreshPropagatesFailure(t *testing.T) {
	client := movieCatalog()
	client.categoriesErr = domain.ErrServerOffline
	repo := NewRepository(client, newTestStore(t), logging.NullLogger())

	_, err := repo.Refresh(context.Background(), domain.KindMovie)
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("Refresh() error = %v, want ErrServerOffline", err)
	}
}

func TestRefreshOverwritesCache(t *testing.T) {
	client := movieCatalog()
	s := newTestStore(t)
	repo := NewRepository(client, s, logging.NullLogger())

	if _, err := repo.Refresh(context.Background(), domain.KindMovie); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// Upstream renames a movie; a new refresh must replace the row
	client.mu.Lock()
	client.items["a"] = []domain.CatalogItem{&domain.Movie{ID: "m1", Name: "Heat (1995)", CategoryID: "a"}}
	client.mu.Unlock()

	if _, err := repo.Refresh(context.Background(), domain.KindMovie); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	cached, _ := s.GetAll(domain.KindMovie)
	for _, item := range cached {
		if item.GetContentID() == "m1" && item.GetTitle() != "Heat (1995)" {
			t.Errorf("m1 title = %q, want %q", item.GetTitle(), "Heat (1995)")
		}
	}
}

func TestLiveTree(t *testing.T) {
	client := &fakeClient{
		categories: map[domain.ContentKind][]domain.Category{
			domain.KindLive: {
				{ID: "10", Name: "News"},
				{ID: "11", Name: "Sports"},
				{ID: "12", Name: "Kids"},
			},
		},
		channels: map[string][]domain.Channel{
			"10": {{ID: "1", Name: "CNN", CategoryID: "10"}, {ID: "2", Name: "BBC", CategoryID: "10"}},
			"11": {{ID: "3", Name: "ESPN", CategoryID: "11"}},
		},
		failCategories: map[string]error{"12": errors.New("timeout")},
	}
	s := newTestStore(t)
	repo := NewRepository(client, s, logging.NullLogger())

	nodes, err := repo.LiveTree(context.Background())
	if err != nil {
		t.Fatalf("LiveTree() error = %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	if len(nodes[0].Channels) != 2 || len(nodes[1].Channels) != 1 {
		t.Errorf("channel counts = [%d %d], want [2 1]", len(nodes[0].Channels), len(nodes[1].Channels))
	}
	// A failed category keeps its node with no channels
	if len(nodes[2].Channels) != 0 {
		t.Errorf("failed category has %d channels, want 0", len(nodes[2].Channels))
	}

	// Channels were persisted for offline reads
	cached, _ := s.ChannelsByCategory("10")
	if len(cached) != 2 {
		t.Errorf("store holds %d channels for category 10, want 2", len(cached))
	}
}

func TestSeriesInfoCachedPerSession(t *testing.T) {
	client := movieCatalog()
	client.seriesInfo = map[string]*domain.SeriesInfo{
		"9": {Series: domain.Series{ID: "9", Name: "Lost"}},
	}
	repo := NewRepository(client, newTestStore(t), logging.NullLogger())

	for i := 0; i < 3; i++ {
		info, err := repo.SeriesInfo(context.Background(), "9")
		if err != nil {
			t.Fatalf("SeriesInfo() error = %v", err)
		}
		if info.Series.Name != "Lost" {
			t.Errorf("series name = %q", info.Series.Name)
		}
	}
	if got := client.seriesInfoCalls.Load(); got != 1 {
		t.Errorf("client fetched series info %d times, want 1", got)
	}

	repo.InvalidateSeriesInfo()
	if _, err := repo.SeriesInfo(context.Background(), "9"); err != nil {
		t.Fatalf("SeriesInfo() after invalidate error = %v", err)
	}
	if got := client.seriesInfoCalls.Load(); got != 2 {
		t.Errorf("client fetched series info %d times after invalidate, want 2", got)
	}
}

func ids(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.GetContentID()
	}
	return out
}
