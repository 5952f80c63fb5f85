package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kybers/play/internal/domain"
)

const (
	apiPath        = "/player_api.php"
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client implements domain.CatalogClient against an Xtream Codes panel.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog API client
func NewClient(creds domain.Credentials, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(creds.ServerURL, "/"),
		username: creds.Username,
		password: creds.Password,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated request against player_api.php.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, error) {
	query.Set("username", c.username)
	query.Set("password", c.password)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, apiPath, query.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "action", query.Get("action"))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("catalog request", "action", query.Get("action"), "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("catalog request failed", "error", err)
			return nil, domain.ErrServerOffline
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, domain.ErrAuthFailed
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("catalog server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"action", query.Get("action"),
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("catalog request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("catalog request failed after retries", "error", lastErr, "action", query.Get("action"))
	return nil, lastErr
}

// Authenticate verifies the stored credentials against the server
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := c.doRequest(ctx, url.Values{})
	if err != nil {
		return err
	}

	var resp UserInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.UserInfo.Auth != 1 {
		return domain.ErrAuthFailed
	}
	return nil
}

// categoryActions maps a collection to its category-listing action
var categoryActions = map[domain.ContentKind]string{
	domain.KindLive:   "get_live_categories",
	domain.KindMovie:  "get_vod_categories",
	domain.KindSeries: "get_series_categories",
}

// GetCategories returns the category list for one collection
func (c *Client) GetCategories(ctx context.Context, kind domain.ContentKind) ([]domain.Category, error) {
	action, ok := categoryActions[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	query := url.Values{}
	query.Set("action", action)
	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	var cats []Category
	if err := json.Unmarshal(body, &cats); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapCategories(cats), nil
}

// GetChannels returns the live streams of one category
func (c *Client) GetChannels(ctx context.Context, categoryID string) ([]domain.Channel, error) {
	query := url.Values{}
	query.Set("action", "get_live_streams")
	query.Set("category_id", categoryID)
	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	var streams []LiveStream
	if err := json.Unmarshal(body, &streams); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapChannels(streams), nil
}

// GetItems returns the items of one category within a collection
func (c *Client) GetItems(ctx context.Context, kind domain.ContentKind, categoryID string) ([]domain.CatalogItem, error) {
	switch kind {
	case domain.KindLive:
		channels, err := c.GetChannels(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		items := make([]domain.CatalogItem, len(channels))
		for i := range channels {
			items[i] = &channels[i]
		}
		return items, nil

	case domain.KindMovie:
		query := url.Values{}
		query.Set("action", "get_vod_streams")
		query.Set("category_id", categoryID)
		body, err := c.doRequest(ctx, query)
		if err != nil {
			return nil, err
		}
		var streams []VodStream
		if err := json.Unmarshal(body, &streams); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		return MapMovies(streams, categoryID), nil

	case domain.KindSeries:
		query := url.Values{}
		query.Set("action", "get_series")
		query.Set("category_id", categoryID)
		body, err := c.doRequest(ctx, query)
		if err != nil {
			return nil, err
		}
		var series []SeriesItem
		if err := json.Unmarshal(body, &series); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		return MapSeries(series), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
}

// GetSeriesInfo returns seasons and episodes for one series
func (c *Client) GetSeriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error) {
	query := url.Values{}
	query.Set("action", "get_series_info")
	query.Set("series_id", seriesID)
	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	var resp SeriesInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapSeriesInfo(&resp), nil
}
