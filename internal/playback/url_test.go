package playback

import (
	"errors"
	"testing"

	"github.com/kybers/play/internal/domain"
)

var testCreds = domain.Credentials{
	ServerURL: "http://example.com:8080",
	Username:  "alice",
	Password:  "secret",
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		name    string
		creds   domain.Credentials
		item    domain.CatalogItem
		want    string
		wantErr error
	}{
		{
			name:  "channel",
			creds: testCreds,
			item:  &domain.Channel{ID: "42", Name: "News"},
			want:  "http://example.com:8080/live/alice/secret/42.m3u8",
		},
		{
			name:  "movie with container",
			creds: testCreds,
			item:  &domain.Movie{ID: "7", Name: "Heat", ContainerExt: "mkv"},
			want:  "http://example.com:8080/movie/alice/secret/7.mkv",
		},
		{
			name:  "movie without container falls back to mp4",
			creds: testCreds,
			item:  &domain.Movie{ID: "7", Name: "Heat"},
			want:  "http://example.com:8080/movie/alice/secret/7.mp4",
		},
		{
			name:  "trailing slash on server URL",
			creds: domain.Credentials{ServerURL: "http://example.com/", Username: "u", Password: "p"},
			item:  &domain.Channel{ID: "1"},
			want:  "http://example.com/live/u/p/1.m3u8",
		},
		{
			name:    "series is not directly playable",
			creds:   testCreds,
			item:    &domain.Series{ID: "9", Name: "Lost"},
			wantErr: domain.ErrNotPlayable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StreamURL(tt.creds, tt.item)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("StreamURL() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("StreamURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StreamURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEpisodeURL(t *testing.T) {
	ep := domain.Episode{ID: "1001", Num: 5, SeasonNum: 1, ContainerExt: "avi"}
	got := EpisodeURL(testCreds, ep)
	want := "http://example.com:8080/series/alice/secret/1001.avi"
	if got != want {
		t.Errorf("EpisodeURL() = %q, want %q", got, want)
	}

	ep.ContainerExt = ""
	got = EpisodeURL(testCreds, ep)
	want = "http://example.com:8080/series/alice/secret/1001.mp4"
	if got != want {
		t.Errorf("EpisodeURL() without container = %q, want %q", got, want)
	}
}

func TestEpisodeCode(t *testing.T) {
	ep := domain.Episode{Num: 5, SeasonNum: 1}
	if got := ep.EpisodeCode(); got != "S01E05" {
		t.Errorf("EpisodeCode() = %q, want %q", got, "S01E05")
	}
}
