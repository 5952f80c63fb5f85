package xtream

// UserInfoResponse represents the response from the authenticate call
type UserInfoResponse struct {
	UserInfo UserInfo `json:"user_info"`
}

// UserInfo represents the subscriber account status
type UserInfo struct {
	Username string `json:"username"`
	Status   string `json:"status"`
	Auth     int    `json:"auth"` // 1 when the credentials are accepted
}

// Category represents one catalog category
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	ParentID     int    `json:"parent_id"`
}

// LiveStream represents one live channel
type LiveStream struct {
	StreamID   int    `json:"stream_id"`
	Name       string `json:"name"`
	StreamIcon string `json:"stream_icon"`
	CategoryID string `json:"category_id"`
}

// VodStream represents one movie
type VodStream struct {
	StreamID           int    `json:"stream_id"`
	Name               string `json:"name"`
	StreamIcon         string `json:"stream_icon"`
	Rating             string `json:"rating,omitempty"`
	ContainerExtension string `json:"container_extension"`
	CategoryID         string `json:"category_id,omitempty"`
}

// SeriesItem represents one series in a category listing
type SeriesItem struct {
	SeriesID    int    `json:"series_id"`
	Name        string `json:"name"`
	Cover       string `json:"cover"`
	Plot        string `json:"plot,omitempty"`
	Cast        string `json:"cast,omitempty"`
	Director    string `json:"director,omitempty"`
	Genre       string `json:"genre,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

// SeriesInfoResponse represents the full series detail payload
type SeriesInfoResponse struct {
	Seasons  []SeasonInfo         `json:"seasons"`
	Info     SeriesItem           `json:"info"`
	Episodes map[string][]Episode `json:"episodes"`
}

// SeasonInfo represents one season header
type SeasonInfo struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
}

// Episode represents one episode inside a series detail payload
type Episode struct {
	ID                 string       `json:"id"`
	EpisodeNum         int          `json:"episode_num"`
	Title              string       `json:"title"`
	ContainerExtension string       `json:"container_extension"`
	Season             int          `json:"season,omitempty"`
	Info               *EpisodeInfo `json:"info,omitempty"`
}

// EpisodeInfo carries optional episode metadata
type EpisodeInfo struct {
	Plot string `json:"plot,omitempty"`
}
