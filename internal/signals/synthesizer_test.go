package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/coinfolio/internal/models"
)

func predictionWith(rsi, macd float64, shortDir, mediumDir string, volatility float64) *models.Prediction {
	return &models.Prediction{
		Symbol:       "BTC",
		CurrentPrice: 50000,
		Forecasts: []models.Forecast{
			{Timeframe: models.Timeframe1H, PredictedPrice: 50100, Confidence: 80, Direction: models.DirectionSideways},
			{Timeframe: models.Timeframe4H, PredictedPrice: 51000, Confidence: 80, Direction: shortDir},
			{Timeframe: models.Timeframe1D, PredictedPrice: 52000, Confidence: 60, Direction: mediumDir},
		},
		Indicators: models.IndicatorSet{
			RSI:        rsi,
			MACD:       macd,
			Volatility: volatility,
		},
	}
}

func TestSynthesizeBuy(t *testing.T) {
	// rsi oversold (+1), macd positive (+1), both directions up: overall = 1.
	pred := predictionWith(25, 1.5, models.DirectionUp, models.DirectionUp, 20)

	sig := Synthesize(pred)

	assert.Equal(t, models.ActionBuy, sig.Action)
	assert.Equal(t, models.RiskLow, sig.RiskLevel)
	assert.Equal(t, 51000.0, sig.TargetPrice, "target is the 4h predicted price")
	assert.InDelta(t, 50000*0.95, sig.StopLoss, 0.0001)
	assert.InDelta(t, 70, sig.Confidence, 0.0001)
	assert.LessOrEqual(t, sig.Strength, 100.0)
}

func TestSynthesizeSell(t *testing.T) {
	// rsi overbought (-1), macd negative (-1), both directions down: overall = -1.
	pred := predictionWith(75, -1.5, models.DirectionDown, models.DirectionDown, 60)

	sig := Synthesize(pred)

	assert.Equal(t, models.ActionSell, sig.Action)
	assert.Equal(t, models.RiskHigh, sig.RiskLevel)
	assert.InDelta(t, 50000*1.05, sig.StopLoss, 0.0001)
}

func TestSynthesizeHoldNearBoundary(t *testing.T) {
	tests := []struct {
		name      string
		rsi       float64
		macd      float64
		shortDir  string
		mediumDir string
		action    string
	}{
		{
			// macd +1 only: overall 0.25, just below the 0.3 threshold.
			name:      "quarter positive holds",
			rsi:       50,
			macd:      1,
			shortDir:  models.DirectionSideways,
			mediumDir: models.DirectionSideways,
			action:    models.ActionHold,
		},
		{
			// macd -1 only: overall -0.25, just above the -0.3 threshold.
			name:      "quarter negative holds",
			rsi:       50,
			macd:      -1,
			shortDir:  models.DirectionSideways,
			mediumDir: models.DirectionSideways,
			action:    models.ActionHold,
		},
		{
			// macd +1 and 4h up: overall 0.5, strictly above the threshold.
			name:      "half positive buys",
			rsi:       50,
			macd:      1,
			shortDir:  models.DirectionUp,
			mediumDir: models.DirectionSideways,
			action:    models.ActionBuy,
		},
		{
			name:      "half negative sells",
			rsi:       50,
			macd:      -1,
			shortDir:  models.DirectionDown,
			mediumDir: models.DirectionSideways,
			action:    models.ActionSell,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := predictionWith(tt.rsi, tt.macd, tt.shortDir, tt.mediumDir, 60)
			sig := Synthesize(pred)
			assert.Equal(t, tt.action, sig.Action)
			if tt.action == models.ActionHold {
				// HOLD always reports medium risk regardless of volatility.
				assert.Equal(t, models.RiskMedium, sig.RiskLevel)
				assert.InDelta(t, sig.Confidence*0.5, sig.Strength, 0.0001)
			}
		})
	}
}

func TestSynthesizeMissingForecasts(t *testing.T) {
	pred := &models.Prediction{
		Symbol:       "ETH",
		CurrentPrice: 3000,
		Forecasts: []models.Forecast{
			{Timeframe: models.Timeframe1H, PredictedPrice: 3010, Confidence: 80, Direction: models.DirectionUp},
		},
	}

	sig := Synthesize(pred)

	require.Equal(t, models.ActionHold, sig.Action)
	assert.Equal(t, 0.0, sig.Strength)
	assert.Equal(t, models.RiskHigh, sig.RiskLevel)
	assert.Equal(t, 3000.0, sig.TargetPrice)
	assert.InDelta(t, 3000*0.95, sig.StopLoss, 0.0001)
	assert.Equal(t, 0.0, sig.Confidence)
}

func TestRiskFromVolatility(t *testing.T) {
	tests := []struct {
		volatility float64
		expected   string
	}{
		{10, models.RiskLow},
		{25, models.RiskLow},
		{26, models.RiskMedium},
		{50, models.RiskMedium},
		{51, models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, riskFromVolatility(tt.volatility))
		})
	}
}
