// Package inference provides a client for the external ML prediction service.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 20 * time.Second
)

// Client talks to the ML prediction service over HTTP.
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
		c.baseURL = strings.TrimRight(baseURL, "/")
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

// NewClient creates a new inference client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
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

// predictRequest is the body of POST /predict.
type predictRequest struct {
	Symbol         string                 `json:"symbol"`
	HistoricalData *models.HistoricalData `json:"historicalData"`
}

// Predict requests a multi-timeframe prediction for symbol. The symbol is
// lowercased on the wire; the response is returned as-is apart from a shape
// check, the service owns its numbers.
func (c *Client) Predict(ctx context.Context, symbol string, data *models.HistoricalData) (*models.Prediction, error) {
	body, err := json.Marshal(predictRequest{
		Symbol:         strings.ToLower(symbol),
		HistoricalData: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("symbol", symbol).Msg("inference predict request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("inference predict: status %d: %s", resp.StatusCode, string(respBody))
	}

	var prediction models.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(prediction.Forecasts) == 0 {
		return nil, fmt.Errorf("inference predict: response has no forecasts")
	}

	prediction.Symbol = strings.ToUpper(symbol)
	prediction.Source = "inference"
	if prediction.GeneratedAt.IsZero() {
		prediction.GeneratedAt = time.Now().UTC()
	}

	return &prediction, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

type modelsResponse struct {
	Models []string `json:"models"`
}

// Status checks the health endpoint and lists available models. Never
// returns an error; an unreachable service reports Online=false.
func (c *Client) Status(ctx context.Context) *interfaces.InferenceStatus {
	status := &interfaces.InferenceStatus{}

	var health healthResponse
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Online = true

	var m modelsResponse
	if err := c.getJSON(ctx, "/models", &m); err == nil {
		status.ModelsAvailable = m.Models
	}

	return status
}

func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
