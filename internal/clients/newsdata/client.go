// Package newsdata provides a news client for the NewsData.io API.
package newsdata

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
	DefaultBaseURL = "https://newsdata.io/api/1"
	DefaultTimeout = 15 * time.Second
)

// Client fetches crypto news from NewsData.io. An API key is required.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new NewsData client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
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
	return "newsdata"
}

type newsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		SourceID    string `json:"source_id"`
		PubDate     string `json:"pubDate"`
		ImageURL    string `json:"image_url"`
	} `json:"results"`
}

// LatestNews retrieves up to limit crypto articles.
func (c *Client) LatestNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsdata: api key not configured")
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("q", "cryptocurrency OR bitcoin OR ethereum")
	params.Set("language", "en")
	params.Set("category", "business")

	reqURL := fmt.Sprintf("%s/news?%s", c.baseURL, params.Encode())

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
		return nil, fmt.Errorf("newsdata news: status %d: %s", resp.StatusCode, string(body))
	}

	var raw newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if raw.Status != "success" {
		return nil, fmt.Errorf("newsdata news: status %q", raw.Status)
	}

	articles := make([]models.NewsArticle, 0, limit)
	for _, item := range raw.Results {
		if len(articles) >= limit {
			break
		}
		published, err := time.Parse("2006-01-02 15:04:05", item.PubDate)
		if err != nil {
			published = time.Now().UTC()
		}
		articles = append(articles, models.NewsArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			Source:      item.SourceID,
			PublishedAt: published,
			ImageURL:    item.ImageURL,
		})
	}

	return articles, nil
}
