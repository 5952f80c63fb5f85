// Package hierarchy builds the flattened, displayable category tree for
// live content: category headers, expanded channel rows and empty-state
// markers, with the favorites overlay merged in as a synthetic pinned
// category.
package hierarchy

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kybers/play/internal/domain"
)

// FavoritesCategoryID is the fixed id of the synthetic favorites category.
const FavoritesCategoryID = "favorites"

// FavoritesCategoryName is its display name.
const FavoritesCategoryName = "Favorites"

// RowKind discriminates the flattened row types.
type RowKind int

const (
	RowHeader RowKind = iota
	RowChannel
	RowEmpty
)

// Row is one entry of the flattened display sequence.
type Row struct {
	Kind     RowKind
	Category domain.Category // Header rows
	Expanded bool            // Header rows
	Channel  domain.Channel  // Channel rows
	ParentID string          // Channel and empty rows: owning category id
}

type node struct {
	category domain.Category
	channels []domain.Channel
	expanded bool
	loading  bool
}

// Tree is the mutable view-model. Not safe for concurrent use; it belongs
// to the single sequence driving the display.
type Tree struct {
	nodes []*node // Favorites node pinned at index 0
	rows  []Row
}

// NewTree builds a tree from the synced category nodes and the favorites
// overlay. Favorites are filtered to live channels, pinned first and
// expanded by default; all other categories start collapsed. Inputs are
// copied, never aliased.
func NewTree(nodes []domain.CategoryNode, favorites []domain.CatalogItem) *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, &node{
		category: domain.Category{ID: FavoritesCategoryID, Name: FavoritesCategoryName},
		channels: favoriteChannels(favorites),
		expanded: true,
	})
	for _, n := range nodes {
		t.nodes = append(t.nodes, &node{
			category: n.Category,
			channels: append([]domain.Channel(nil), n.Channels...),
			expanded: n.Expanded,
			loading:  n.Loading,
		})
	}
	t.rebuildRows()
	return t
}

// Rebuild replaces the catalog categories with a fresh sync result while
// preserving the expansion state of categories whose id survives, and
// refreshing the favorites overlay.
func (t *Tree) Rebuild(nodes []domain.CategoryNode, favorites []domain.CatalogItem) {
	expanded := make(map[string]bool, len(t.nodes))
	for _, n := range t.nodes {
		expanded[n.category.ID] = n.expanded
	}

	rebuilt := []*node{{
		category: domain.Category{ID: FavoritesCategoryID, Name: FavoritesCategoryName},
		channels: favoriteChannels(favorites),
		expanded: expanded[FavoritesCategoryID],
	}}
	for _, n := range nodes {
		rebuilt = append(rebuilt, &node{
			category: n.Category,
			channels: append([]domain.Channel(nil), n.Channels...),
			expanded: expanded[n.Category.ID],
			loading:  n.Loading,
		})
	}
	t.nodes = rebuilt
	t.rebuildRows()
}

// Rows returns a copy of the current flattened sequence.
func (t *Tree) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Toggle flips a category's expansion. Exactly one category may be
// expanded at a time: expanding one collapses the rest. Toggling a
// category whose items are still loading is refused.
func (t *Tree) Toggle(categoryID string) {
	target := t.findNode(categoryID)
	if target == nil || target.loading {
		return
	}

	wasExpanded := target.expanded
	for _, n := range t.nodes {
		n.expanded = false
	}
	if !wasExpanded {
		target.expanded = true
	}
	t.rebuildRows()
}

// SetFavorite adds a channel to the front of the synthetic favorites
// category. The edit is structural and in place: no other category's rows
// or expansion state move.
func (t *Tree) SetFavorite(ch domain.Channel) {
	fav := t.nodes[0]
	for _, existing := range fav.channels {
		if existing.ID == ch.ID {
			return
		}
	}

	wasEmpty := len(fav.channels) == 0
	fav.channels = append([]domain.Channel{ch}, fav.channels...)

	if !fav.expanded {
		return
	}
	// Favorites is pinned first, so its header is row 0
	if wasEmpty {
		// Replace the empty marker with the channel row
		t.rows[1] = Row{Kind: RowChannel, Channel: ch, ParentID: FavoritesCategoryID}
		return
	}
	t.rows = append(t.rows, Row{})
	copy(t.rows[2:], t.rows[1:])
	t.rows[1] = Row{Kind: RowChannel, Channel: ch, ParentID: FavoritesCategoryID}
}

// RemoveFavorite removes a channel from the synthetic favorites category
// by content id, in place.
func (t *Tree) RemoveFavorite(contentID string) {
	fav := t.nodes[0]
	idx := -1
	for i, ch := range fav.channels {
		if ch.ID == contentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	fav.channels = append(fav.channels[:idx], fav.channels[idx+1:]...)

	if !fav.expanded {
		return
	}
	rowIdx := 1 + idx
	if len(fav.channels) == 0 {
		t.rows[rowIdx] = Row{Kind: RowEmpty, Category: fav.category, ParentID: FavoritesCategoryID}
		return
	}
	t.rows = append(t.rows[:rowIdx], t.rows[rowIdx+1:]...)
}

// IsFavorite reports whether the channel id is in the favorites category.
func (t *Tree) IsFavorite(contentID string) bool {
	for _, ch := range t.nodes[0].channels {
		if ch.ID == contentID {
			return true
		}
	}
	return false
}

// Filter returns the flattened rows of a derived tree containing only
// channels whose name matches the query (and categories whose own name
// matches, with their full channel list). The tree itself is untouched;
// expansion state carries into the filtered view.
func (t *Tree) Filter(query string) []Row {
	query = strings.TrimSpace(query)
	if query == "" {
		return t.Rows()
	}

	var rows []Row
	for _, n := range t.nodes {
		var matched []domain.Channel
		for _, ch := range n.channels {
			if fuzzy.MatchNormalizedFold(query, ch.Name) {
				matched = append(matched, ch)
			}
		}
		if len(matched) == 0 && !fuzzy.MatchNormalizedFold(query, n.category.Name) {
			continue
		}
		if len(matched) == 0 {
			matched = append([]domain.Channel(nil), n.channels...)
		}

		rows = append(rows, Row{Kind: RowHeader, Category: n.category, Expanded: n.expanded})
		if !n.expanded {
			continue
		}
		if len(matched) == 0 {
			rows = append(rows, Row{Kind: RowEmpty, Category: n.category, ParentID: n.category.ID})
			continue
		}
		for _, ch := range matched {
			rows = append(rows, Row{Kind: RowChannel, Channel: ch, ParentID: n.category.ID})
		}
	}
	return rows
}

func (t *Tree) findNode(categoryID string) *node {
	for _, n := range t.nodes {
		if n.category.ID == categoryID {
			return n
		}
	}
	return nil
}

func (t *Tree) rebuildRows() {
	t.rows = t.rows[:0]
	for _, n := range t.nodes {
		t.rows = append(t.rows, Row{Kind: RowHeader, Category: n.category, Expanded: n.expanded})
		if !n.expanded {
			continue
		}
		if len(n.channels) == 0 {
			t.rows = append(t.rows, Row{Kind: RowEmpty, Category: n.category, ParentID: n.category.ID})
			continue
		}
		for _, ch := range n.channels {
			t.rows = append(t.rows, Row{Kind: RowChannel, Channel: ch, ParentID: n.category.ID})
		}
	}
}

func favoriteChannels(favorites []domain.CatalogItem) []domain.Channel {
	var channels []domain.Channel
	for _, item := range favorites {
		if ch, ok := item.(*domain.Channel); ok {
			channels = append(channels, *ch)
		}
	}
	return channels
}
