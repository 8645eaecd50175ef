package models

import "time"

// Portfolio represents one user's crypto portfolio. Exactly one portfolio
// exists per user; it is created lazily on first access and persisted as a
// whole document after every mutation.
type Portfolio struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Holdings    []Holding `json:"holdings"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Holding is a recorded position in one asset. TotalInvested is set to
// quantity × average buy price at creation time and is not recomputed when
// either field is patched; callers updating quantity or price must update
// TotalInvested themselves.
type Holding struct {
	ID              string    `json:"id"`
	AssetID         string    `json:"asset_id"` // CoinGecko id
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Quantity        float64   `json:"quantity"`
	AverageBuyPrice float64   `json:"average_buy_price"` // USD
	TotalInvested   float64   `json:"total_invested"`    // USD
	PurchaseDate    time.Time `json:"purchase_date"`
	Notes           string    `json:"notes,omitempty"`
}

// HoldingUpdate carries a partial update for a holding. Nil fields are left
// untouched.
type HoldingUpdate struct {
	Quantity        *float64   `json:"quantity,omitempty"`
	AverageBuyPrice *float64   `json:"average_buy_price,omitempty"`
	TotalInvested   *float64   `json:"total_invested,omitempty"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// HoldingPerformance ranks one holding by unrealized gain/loss.
type HoldingPerformance struct {
	Symbol             string  `json:"symbol"`
	GainLoss           float64 `json:"gain_loss"`
	GainLossPercentage float64 `json:"gain_loss_percentage"`
}

// PortfolioMetrics is the derived valuation of a portfolio against the live
// price feed. Never persisted; recomputed whenever the portfolio or the feed
// changes. Holdings with no matching price record are excluded from all sums
// and listed in ExcludedSymbols.
type PortfolioMetrics struct {
	TotalValue              float64             `json:"total_value"`
	TotalInvested           float64             `json:"total_invested"`
	TotalGainLoss           float64             `json:"total_gain_loss"`
	TotalGainLossPercentage float64             `json:"total_gain_loss_percentage"`
	DayChange               float64             `json:"day_change"`
	DayChangePercentage     float64             `json:"day_change_percentage"`
	TopPerformer            *HoldingPerformance `json:"top_performer"`
	WorstPerformer          *HoldingPerformance `json:"worst_performer"`
	ExcludedSymbols         []string            `json:"excluded_symbols,omitempty"`
}
