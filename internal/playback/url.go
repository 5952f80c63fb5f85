// Package playback builds the stable playable URLs handed to the player.
// Decoding and rendering the stream is someone else's job.
package playback

import (
	"fmt"
	"strings"

	"github.com/kybers/play/internal/domain"
)

// defaultContainerExt is used when a VOD record omits its container.
const defaultContainerExt = "mp4"

// StreamURL builds the playback URL for a channel or movie. Series
// containers are not directly playable; use EpisodeURL for their episodes.
func StreamURL(creds domain.Credentials, item domain.CatalogItem) (string, error) {
	base := strings.TrimRight(creds.ServerURL, "/")

	switch v := item.(type) {
	case *domain.Channel:
		return fmt.Sprintf("%s/live/%s/%s/%s.m3u8", base, creds.Username, creds.Password, v.ID), nil
	case *domain.Movie:
		ext := v.ContainerExt
		if ext == "" {
			ext = defaultContainerExt
		}
		return fmt.Sprintf("%s/movie/%s/%s/%s.%s", base, creds.Username, creds.Password, v.ID, ext), nil
	default:
		return "", fmt.Errorf("%w: kind %q", domain.ErrNotPlayable, item.GetKind())
	}
}

// EpisodeURL builds the playback URL for a series episode.
func EpisodeURL(creds domain.Credentials, ep domain.Episode) string {
	base := strings.TrimRight(creds.ServerURL, "/")
	ext := ep.ContainerExt
	if ext == "" {
		ext = defaultContainerExt
	}
	return fmt.Sprintf("%s/series/%s/%s/%s.%s", base, creds.Username, creds.Password, ep.ID, ext)
}
