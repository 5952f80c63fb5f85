package xtream

import (
	"strconv"

	"github.com/kybers/play/internal/domain"
)

// MapCategories converts API categories to domain categories
func MapCategories(cats []Category) []domain.Category {
	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.Category{
			ID:       c.CategoryID,
			Name:     c.CategoryName,
			ParentID: c.ParentID,
		})
	}
	return out
}

// MapChannels converts API live streams to domain channels
func MapChannels(streams []LiveStream) []domain.Channel {
	out := make([]domain.Channel, 0, len(streams))
	for _, s := range streams {
		out = append(out, domain.Channel{
			ID:         strconv.Itoa(s.StreamID),
			Name:       s.Name,
			IconURL:    s.StreamIcon,
			CategoryID: s.CategoryID,
		})
	}
	return out
}

// MapMovies converts API VOD streams to domain movies. Some panels omit
// category_id on the stream records; the requested category fills the gap.
func MapMovies(streams []VodStream, categoryID string) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(streams))
	for _, s := range streams {
		catID := s.CategoryID
		if catID == "" {
			catID = categoryID
		}
		out = append(out, &domain.Movie{
			ID:           strconv.Itoa(s.StreamID),
			Name:         s.Name,
			IconURL:      s.StreamIcon,
			Rating:       s.Rating,
			ContainerExt: s.ContainerExtension,
			CategoryID:   catID,
		})
	}
	return out
}

// MapSeries converts API series listings to domain series
func MapSeries(items []SeriesItem) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, s := range items {
		out = append(out, mapSeriesItem(s))
	}
	return out
}

func mapSeriesItem(s SeriesItem) *domain.Series {
	return &domain.Series{
		ID:          strconv.Itoa(s.SeriesID),
		Name:        s.Name,
		CoverURL:    s.Cover,
		Plot:        s.Plot,
		Cast:        s.Cast,
		Director:    s.Director,
		Genre:       s.Genre,
		ReleaseDate: s.ReleaseDate,
		Rating:      s.Rating,
	}
}

// MapSeriesInfo converts a series detail payload to the domain form
func MapSeriesInfo(resp *SeriesInfoResponse) *domain.SeriesInfo {
	info := &domain.SeriesInfo{
		Series:   *mapSeriesItem(resp.Info),
		Seasons:  make([]domain.Season, 0, len(resp.Seasons)),
		Episodes: make(map[string][]domain.Episode, len(resp.Episodes)),
	}

	for _, s := range resp.Seasons {
		info.Seasons = append(info.Seasons, domain.Season{
			Number: s.SeasonNumber,
			Name:   s.Name,
		})
	}

	for seasonKey, eps := range resp.Episodes {
		seasonNum, _ := strconv.Atoi(seasonKey)
		mapped := make([]domain.Episode, 0, len(eps))
		for _, e := range eps {
			ep := domain.Episode{
				ID:           e.ID,
				Num:          e.EpisodeNum,
				Title:        e.Title,
				ContainerExt: e.ContainerExtension,
				SeasonNum:    e.Season,
			}
			if ep.SeasonNum == 0 {
				ep.SeasonNum = seasonNum
			}
			if e.Info != nil {
				ep.Plot = e.Info.Plot
			}
			mapped = append(mapped, ep)
		}
		info.Episodes[seasonKey] = mapped
	}

	return info
}
