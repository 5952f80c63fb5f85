package domain

import "fmt"

// ContentKind distinguishes the three catalog collections.
type ContentKind string

const (
	KindLive   ContentKind = "live"
	KindMovie  ContentKind = "movie"
	KindSeries ContentKind = "series"
)

// Kinds lists every catalog collection in sync order.
func Kinds() []ContentKind {
	return []ContentKind{KindLive, KindMovie, KindSeries}
}

// Valid reports whether k names a known collection.
func (k ContentKind) Valid() bool {
	switch k {
	case KindLive, KindMovie, KindSeries:
		return true
	}
	return false
}

// CatalogItem is the polymorphic interface shared by channels, movies and
// series. Identity is (GetContentID, GetKind).
type CatalogItem interface {
	// GetContentID returns the provider-side identifier for this item
	GetContentID() string

	// GetTitle returns the display title
	GetTitle() string

	// GetCoverURL returns the poster/icon image URL
	GetCoverURL() string

	// GetKind returns the collection this item belongs to
	GetKind() ContentKind
}

// Category is a provider-side grouping of catalog items.
// Immutable once fetched; identity is ID.
type Category struct {
	ID       string
	Name     string
	ParentID int
}

// Channel represents a live TV stream.
type Channel struct {
	ID         string // Provider stream id
	Name       string
	IconURL    string
	CategoryID string
}

func (c *Channel) GetContentID() string { return c.ID }
func (c *Channel) GetTitle() string     { return c.Name }
func (c *Channel) GetCoverURL() string  { return c.IconURL }
func (c *Channel) GetKind() ContentKind { return KindLive }

// Movie represents a VOD entry.
type Movie struct {
	ID           string
	Name         string
	IconURL      string
	Rating       string
	ContainerExt string // File extension used to build the playback URL
	CategoryID   string
}

func (m *Movie) GetContentID() string { return m.ID }
func (m *Movie) GetTitle() string     { return m.Name }
func (m *Movie) GetCoverURL() string  { return m.IconURL }
func (m *Movie) GetKind() ContentKind { return KindMovie }

// Series represents a series container. Episodes are fetched lazily via
// SeriesInfo, not carried here.
type Series struct {
	ID          string
	Name        string
	CoverURL    string
	Plot        string
	Cast        string
	Director    string
	Genre       string
	ReleaseDate string
	Rating      string
}

func (s *Series) GetContentID() string { return s.ID }
func (s *Series) GetTitle() string     { return s.Name }
func (s *Series) GetCoverURL() string  { return s.CoverURL }
func (s *Series) GetKind() ContentKind { return KindSeries }

// Season is a season header inside a series detail response.
type Season struct {
	Number int
	Name   string
}

// Episode is a playable unit inside a series.
type Episode struct {
	ID           string
	Num          int
	Title        string
	ContainerExt string
	Plot         string
	SeasonNum    int
}

// EpisodeCode returns the formatted episode code (e.g., "S01E05").
func (e Episode) EpisodeCode() string {
	return fmt.Sprintf("S%02dE%02d", e.SeasonNum, e.Num)
}

// SeriesInfo is the full detail payload for one series.
type SeriesInfo struct {
	Series   Series
	Seasons  []Season
	Episodes map[string][]Episode // Keyed by season number as the API sends it
}

// CategoryNode pairs a category with its eagerly loaded channels.
// The live snapshot persisted by the cache manager is a []CategoryNode.
type CategoryNode struct {
	Category Category
	Channels []Channel
	Expanded bool
	Loading  bool
}

// HistoryEntry records a continue-watching position for one item.
type HistoryEntry struct {
	Content        CatalogItem
	LastPositionMs int64
	DurationMs     int64
	Timestamp      int64 // Epoch millis when the entry was recorded
}

// Credentials identifies the subscriber account on the catalog server.
type Credentials struct {
	ServerURL string
	Username  string
	Password  string
}

// Complete reports whether all fields required for a sync are present.
func (c Credentials) Complete() bool {
	return c.ServerURL != "" && c.Username != "" && c.Password != ""
}
