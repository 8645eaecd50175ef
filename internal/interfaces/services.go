package interfaces

import (
	"context"

	"github.com/veldrane/coinfolio/internal/models"
)

// MarketService owns the cached market feed.
type MarketService interface {
	// Snapshot returns the current feed snapshot without fetching.
	Snapshot() *models.FeedSnapshot
	// Refresh polls the upstream API and replaces the snapshot. On failure
	// the previous snapshot is kept, or the hardcoded fallback set is
	// installed if no snapshot exists yet.
	Refresh(ctx context.Context) (*models.FeedSnapshot, error)
	// GlobalMarket returns the aggregate market summary.
	GlobalMarket(ctx context.Context) (*models.GlobalMarket, error)
	// Chart returns per-asset price/volume history.
	Chart(ctx context.Context, assetID string, days int) (*models.MarketChart, error)
	// FindPrice locates a record by asset id, then by case-insensitive
	// symbol. Returns nil when no record matches.
	FindPrice(id, symbol string) *models.PriceRecord
}

// NewsService owns the cached news feed.
type NewsService interface {
	// Articles returns the cached articles, refreshing when stale.
	Articles(ctx context.Context) ([]models.NewsArticle, error)
	// Refresh forces a provider fetch.
	Refresh(ctx context.Context) ([]models.NewsArticle, error)
}

// PredictionService generates and caches per-asset predictions.
type PredictionService interface {
	// Predict returns the cached prediction for symbol, generating one if
	// absent or stale.
	Predict(ctx context.Context, symbol string) (*models.Prediction, error)
	// RefreshAll regenerates predictions for the given symbols.
	RefreshAll(ctx context.Context, symbols []string)
	// Sentiment returns the market sentiment for symbol.
	Sentiment(ctx context.Context, symbol string) (*models.MarketSentiment, error)
	// Status reports inference service availability.
	Status(ctx context.Context) *InferenceStatus
}

// SignalService derives trading signals from predictions.
type SignalService interface {
	// Signal returns the trading signal for symbol.
	Signal(ctx context.Context, symbol string) (*models.TradingSignal, error)
}

// PortfolioService manages per-user portfolios and their valuation.
type PortfolioService interface {
	// GetPortfolio returns the user's portfolio, creating the seeded
	// default on first access.
	GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error)
	// AddHolding appends a holding (fresh id assigned) and persists.
	AddHolding(ctx context.Context, userID string, h models.Holding) (*models.Portfolio, error)
	// RemoveHolding deletes by id; absent ids are a no-op, not an error.
	RemoveHolding(ctx context.Context, userID, holdingID string) (*models.Portfolio, error)
	// UpdateHolding shallow-merges the update into the matching holding;
	// absent ids are a no-op. TotalInvested is not recomputed.
	UpdateHolding(ctx context.Context, userID, holdingID string, update models.HoldingUpdate) (*models.Portfolio, error)
	// ComputeMetrics values the portfolio against the live feed.
	ComputeMetrics(ctx context.Context, userID string) (*models.PortfolioMetrics, error)
	// EvictCache drops any in-memory state for the user (sign-out). The
	// persisted document is retained.
	EvictCache(userID string)
}
