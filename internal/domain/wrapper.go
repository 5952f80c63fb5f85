package domain

import (
	"encoding/json"
	"fmt"
)

// ItemWrapper is the serialized form of a CatalogItem. The explicit kind
// tag selects the concrete type on decode; field probing is never used.
type ItemWrapper struct {
	Kind    ContentKind `json:"kind"`
	Channel *Channel    `json:"channel,omitempty"`
	Movie   *Movie      `json:"movie,omitempty"`
	Series  *Series     `json:"series,omitempty"`
}

// WrapItem converts a CatalogItem into its serializable wrapper.
func WrapItem(item CatalogItem) (ItemWrapper, error) {
	switch v := item.(type) {
	case *Channel:
		return ItemWrapper{Kind: KindLive, Channel: v}, nil
	case *Movie:
		return ItemWrapper{Kind: KindMovie, Movie: v}, nil
	case *Series:
		return ItemWrapper{Kind: KindSeries, Series: v}, nil
	default:
		return ItemWrapper{}, fmt.Errorf("wrap item: unsupported type %T", item)
	}
}

// Unwrap returns the concrete item carried by the wrapper.
func (w ItemWrapper) Unwrap() (CatalogItem, error) {
	switch w.Kind {
	case KindLive:
		if w.Channel != nil {
			return w.Channel, nil
		}
	case KindMovie:
		if w.Movie != nil {
			return w.Movie, nil
		}
	case KindSeries:
		if w.Series != nil {
			return w.Series, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, w.Kind)
	}
	return nil, fmt.Errorf("wrapper for kind %q has no payload", w.Kind)
}

// MarshalItem serializes one item as tagged JSON.
func MarshalItem(item CatalogItem) ([]byte, error) {
	w, err := WrapItem(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalItem decodes tagged JSON into a concrete item.
func UnmarshalItem(data []byte) (CatalogItem, error) {
	var w ItemWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return w.Unwrap()
}

// WrapItems converts a slice of items into wrappers, skipping nothing;
// an unsupported element fails the whole batch.
func WrapItems(items []CatalogItem) ([]ItemWrapper, error) {
	wrappers := make([]ItemWrapper, 0, len(items))
	for _, item := range items {
		w, err := WrapItem(item)
		if err != nil {
			return nil, err
		}
		wrappers = append(wrappers, w)
	}
	return wrappers, nil
}

// UnwrapItems converts wrappers back into items. Entries with an unknown
// kind or a missing payload are dropped rather than failing the read.
func UnwrapItems(wrappers []ItemWrapper) []CatalogItem {
	items := make([]CatalogItem, 0, len(wrappers))
	for _, w := range wrappers {
		item, err := w.Unwrap()
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}
