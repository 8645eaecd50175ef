package models

import "time"

// Timeframe tags for forecasts, shortest horizon first.
const (
	Timeframe1H  = "1h"
	Timeframe4H  = "4h"
	Timeframe1D  = "1d"
	Timeframe7D  = "7d"
	Timeframe30D = "30d"
)

// Timeframes lists all forecast horizons in order.
var Timeframes = []string{Timeframe1H, Timeframe4H, Timeframe1D, Timeframe7D, Timeframe30D}

// Direction of a forecast.
const (
	DirectionUp       = "up"
	DirectionDown     = "down"
	DirectionSideways = "sideways"
)

// IndicatorSet holds the technical indicators for one asset at one point in
// time. Derived per price-history snapshot; never persisted.
type IndicatorSet struct {
	RSI        float64        `json:"rsi"`
	MACD       float64        `json:"macd"`
	Bollinger  BollingerBands `json:"bollinger"`
	Volume     float64        `json:"volume"`
	Volatility float64        `json:"volatility"` // annualized, %
}

// BollingerBands is a moving average with symmetric deviation bands.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Forecast is one per-timeframe price prediction.
type Forecast struct {
	Timeframe      string  `json:"timeframe"`
	PredictedPrice float64 `json:"predicted_price"`
	Confidence     float64 `json:"confidence"` // 0-100
	Direction      string  `json:"direction"`
	PercentChange  float64 `json:"percent_change"`
}

// ModelInfo describes the model that produced a prediction.
type ModelInfo struct {
	Accuracy    float64   `json:"accuracy"`
	LastTrained time.Time `json:"last_trained"`
	ModelType   string    `json:"model_type"` // LSTM, GRU, Transformer, Hybrid
}

// Prediction is the full multi-timeframe forecast for one asset.
type Prediction struct {
	Symbol       string       `json:"symbol"`
	CurrentPrice float64      `json:"current_price"`
	Forecasts    []Forecast   `json:"forecasts"`
	Indicators   IndicatorSet `json:"indicators"`
	Model        ModelInfo    `json:"model"`
	Source       string       `json:"source"` // "inference" or "simulated"
	GeneratedAt  time.Time    `json:"generated_at"`
}

// ForecastFor returns the forecast for a timeframe, or nil if absent.
func (p *Prediction) ForecastFor(timeframe string) *Forecast {
	for i := range p.Forecasts {
		if p.Forecasts[i].Timeframe == timeframe {
			return &p.Forecasts[i]
		}
	}
	return nil
}

// Trading signal actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// Risk tiers.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// TradingSignal is a derived BUY/SELL/HOLD recommendation. Pure function of
// one Prediction; recomputed whenever the prediction is.
type TradingSignal struct {
	Symbol      string  `json:"symbol"`
	Action      string  `json:"action"`
	Strength    float64 `json:"strength"` // 0-100
	RiskLevel   string  `json:"risk_level"`
	TargetPrice float64 `json:"target_price"`
	StopLoss    float64 `json:"stop_loss"`
	Confidence  float64 `json:"confidence"`
}

// Sentiment classifications.
const (
	SentimentBullish = "BULLISH"
	SentimentBearish = "BEARISH"
	SentimentNeutral = "NEUTRAL"
)

// SentimentSources breaks the sentiment score down by source.
type SentimentSources struct {
	News      float64 `json:"news"`
	Social    float64 `json:"social"`
	OnChain   float64 `json:"onchain"`
	Technical float64 `json:"technical"`
}

// MarketSentiment is the aggregate sentiment for one asset.
type MarketSentiment struct {
	Symbol  string           `json:"symbol"`
	Overall string           `json:"overall"`
	Score   float64          `json:"score"` // -100..100
	Sources SentimentSources `json:"sources"`
	Summary string           `json:"summary,omitempty"` // optional AI-generated note
}
