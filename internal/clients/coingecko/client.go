// Package coingecko provides a client for the CoinGecko public API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second; the public tier is strict
)

// Client implements the MarketDataClient interface against CoinGecko.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
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

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new CoinGecko client. The API key is optional; the
// public tier works without one.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("CoinGecko API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// marketResponse mirrors one entry of /coins/markets.
type marketResponse struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Image             string  `json:"image"`
	CurrentPrice      float64 `json:"current_price"`
	MarketCap         float64 `json:"market_cap"`
	MarketCapRank     int     `json:"market_cap_rank"`
	TotalVolume       float64 `json:"total_volume"`
	PriceChange24h    float64 `json:"price_change_24h"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
}

// ListMarkets retrieves the top n assets by market capitalization.
func (c *Client) ListMarkets(ctx context.Context, n int) ([]models.PriceRecord, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(n))
	params.Set("page", "1")
	params.Set("sparkline", "false")

	var raw []marketResponse
	if err := c.get(ctx, "/coins/markets", params, &raw); err != nil {
		return nil, err
	}

	records := make([]models.PriceRecord, len(raw))
	for i, m := range raw {
		records[i] = models.PriceRecord{
			ID:            m.ID,
			Symbol:        strings.ToUpper(m.Symbol),
			Name:          m.Name,
			Image:         m.Image,
			Price:         m.CurrentPrice,
			Change:        m.PriceChange24h,
			ChangePercent: m.PriceChangePct24h,
			Volume:        common.FormatCompactUSD(m.TotalVolume),
			MarketCap:     common.FormatCompactUSD(m.MarketCap),
			Rank:          m.MarketCapRank,
		}
	}

	return records, nil
}

// globalResponse mirrors the /global envelope.
type globalResponse struct {
	Data struct {
		ActiveCryptocurrencies       int                `json:"active_cryptocurrencies"`
		TotalMarketCap               map[string]float64 `json:"total_market_cap"`
		TotalVolume                  map[string]float64 `json:"total_volume"`
		MarketCapChangePercentage24h float64            `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

// GlobalMarket retrieves the aggregate market summary.
func (c *Client) GlobalMarket(ctx context.Context) (*models.GlobalMarket, error) {
	var raw globalResponse
	if err := c.get(ctx, "/global", nil, &raw); err != nil {
		return nil, err
	}

	return &models.GlobalMarket{
		ActiveCryptocurrencies: raw.Data.ActiveCryptocurrencies,
		TotalMarketCapUSD:      raw.Data.TotalMarketCap["usd"],
		TotalVolumeUSD:         raw.Data.TotalVolume["usd"],
		MarketCapChange24hPct:  raw.Data.MarketCapChangePercentage24h,
	}, nil
}

// chartResponse mirrors /coins/{id}/market_chart: arrays of [ms, value].
type chartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// MarketChart retrieves price and volume history for one asset. Points come
// back oldest first, which is the order the indicator math expects.
func (c *Client) MarketChart(ctx context.Context, assetID string, days int) (*models.MarketChart, error) {
	if assetID == "" {
		return nil, fmt.Errorf("asset id is required")
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	var raw chartResponse
	if err := c.get(ctx, fmt.Sprintf("/coins/%s/market_chart", url.PathEscape(assetID)), params, &raw); err != nil {
		return nil, err
	}

	chart := &models.MarketChart{
		AssetID: assetID,
		Prices:  make([]models.ChartPoint, len(raw.Prices)),
		Volumes: make([]models.ChartPoint, len(raw.TotalVolumes)),
	}
	for i, p := range raw.Prices {
		chart.Prices[i] = models.ChartPoint{Timestamp: int64(p[0]), Value: p[1]}
	}
	for i, v := range raw.TotalVolumes {
		chart.Volumes[i] = models.ChartPoint{Timestamp: int64(v[0]), Value: v[1]}
	}

	return chart, nil
}
