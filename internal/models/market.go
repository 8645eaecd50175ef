// Package models defines data structures for Coinfolio
package models

import "time"

// PriceRecord is a normalized market snapshot for one asset. Records are
// immutable; the feed replaces the whole snapshot on every poll.
type PriceRecord struct {
	ID            string  `json:"id"`     // CoinGecko asset id (bitcoin, ethereum, ...)
	Symbol        string  `json:"symbol"` // upper-case ticker (BTC, ETH, ...)
	Name          string  `json:"name"`
	Image         string  `json:"image,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`         // absolute 24h change
	ChangePercent float64 `json:"change_percent"` // 24h change %
	Volume        string  `json:"volume"`         // formatted, e.g. "$84.42B"
	MarketCap     string  `json:"market_cap"`     // formatted, e.g. "$1.02T"
	Rank          int     `json:"rank"`
}

// FeedSnapshot is the full state of the market feed at one poll.
type FeedSnapshot struct {
	Records    []PriceRecord `json:"records"`
	FetchedAt  time.Time     `json:"fetched_at"`
	Fallback   bool          `json:"fallback"` // true when served from the hardcoded set
	Generation uint64        `json:"-"`        // poll sequence number
}

// GlobalMarket is the aggregate market summary.
type GlobalMarket struct {
	ActiveCryptocurrencies int     `json:"active_cryptocurrencies"`
	TotalMarketCapUSD      float64 `json:"total_market_cap_usd"`
	TotalVolumeUSD         float64 `json:"total_volume_usd"`
	MarketCapChange24hPct  float64 `json:"market_cap_change_24h_pct"`
}

// ChartPoint is one (timestamp, value) pair from a historical chart.
type ChartPoint struct {
	Timestamp int64   `json:"timestamp"` // unix milliseconds
	Value     float64 `json:"value"`
}

// MarketChart holds per-asset price and volume history.
type MarketChart struct {
	AssetID string       `json:"asset_id"`
	Prices  []ChartPoint `json:"prices"`
	Volumes []ChartPoint `json:"volumes"`
}

// PriceSeries extracts the ordered price values (oldest first).
func (m *MarketChart) PriceSeries() []float64 {
	out := make([]float64, len(m.Prices))
	for i, p := range m.Prices {
		out[i] = p.Value
	}
	return out
}

// VolumeSeries extracts the ordered volume values (oldest first).
func (m *MarketChart) VolumeSeries() []float64 {
	out := make([]float64, len(m.Volumes))
	for i, p := range m.Volumes {
		out[i] = p.Value
	}
	return out
}

// HistoricalData is the dataset handed to the prediction generator.
type HistoricalData struct {
	Prices     []float64 `json:"prices"`
	Volumes    []float64 `json:"volumes,omitempty"`
	Timestamps []int64   `json:"timestamps,omitempty"`
}
