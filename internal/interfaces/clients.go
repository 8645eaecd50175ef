// Package interfaces defines service contracts for Coinfolio
package interfaces

import (
	"context"

	"github.com/veldrane/coinfolio/internal/models"
)

// MarketDataClient fetches market data from an external listing API.
type MarketDataClient interface {
	// ListMarkets returns the top n assets by market capitalization.
	ListMarkets(ctx context.Context, n int) ([]models.PriceRecord, error)
	// GlobalMarket returns the aggregate market summary.
	GlobalMarket(ctx context.Context) (*models.GlobalMarket, error)
	// MarketChart returns price/volume history for one asset over days days.
	MarketChart(ctx context.Context, assetID string, days int) (*models.MarketChart, error)
}

// NewsClient fetches crypto news from one provider.
type NewsClient interface {
	// LatestNews returns up to limit normalized articles, newest first.
	LatestNews(ctx context.Context, limit int) ([]models.NewsArticle, error)
	// Name identifies the provider in logs.
	Name() string
}

// InferenceStatus reports the ML prediction service availability.
type InferenceStatus struct {
	Online          bool     `json:"online"`
	ModelsAvailable []string `json:"models_available,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// InferenceClient talks to the external ML prediction service.
type InferenceClient interface {
	// Predict requests a prediction for symbol given historical data. The
	// service is the authority on its output; callers validate shape only.
	Predict(ctx context.Context, symbol string, data *models.HistoricalData) (*models.Prediction, error)
	// Status checks the health endpoint and lists available models.
	Status(ctx context.Context) *InferenceStatus
}

// ContentClient generates free-text content from a prompt (AI summaries).
type ContentClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
