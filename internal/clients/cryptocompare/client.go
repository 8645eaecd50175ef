// Package cryptocompare provides a news client for the CryptoCompare API.
package cryptocompare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/models"
)

const (
	DefaultBaseURL = "https://min-api.cryptocompare.com"
	DefaultTimeout = 15 * time.Second

	// descriptionLimit truncates article bodies for list display.
	descriptionLimit = 200
)

// Client fetches crypto news from CryptoCompare. No API key is required for
// the news endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new CryptoCompare news client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "cryptocompare"
}

type newsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Body        string `json:"body"`
		URL         string `json:"url"`
		ImageURL    string `json:"imageurl"`
		PublishedOn int64  `json:"published_on"`
		SourceInfo  struct {
			Name string `json:"name"`
		} `json:"source_info"`
	} `json:"Data"`
}

// LatestNews retrieves up to limit articles, newest first.
func (c *Client) LatestNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	params := url.Values{}
	params.Set("lang", "EN")

	reqURL := fmt.Sprintf("%s/data/v2/news/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("provider", c.Name()).Msg("news request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cryptocompare news: status %d: %s", resp.StatusCode, string(body))
	}

	var raw newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	articles := make([]models.NewsArticle, 0, limit)
	for _, item := range raw.Data {
		if len(articles) >= limit {
			break
		}
		articles = append(articles, models.NewsArticle{
			Title:       item.Title,
			Description: truncate(item.Body, descriptionLimit),
			URL:         item.URL,
			Source:      item.SourceInfo.Name,
			PublishedAt: time.Unix(item.PublishedOn, 0).UTC(),
			ImageURL:    item.ImageURL,
		})
	}

	return articles, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
