package signal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

type mockPredictions struct {
	prediction *models.Prediction
	err        error
}

func (m *mockPredictions) Predict(ctx context.Context, symbol string) (*models.Prediction, error) {
	return m.prediction, m.err
}

func (m *mockPredictions) RefreshAll(ctx context.Context, symbols []string) {}

func (m *mockPredictions) Sentiment(ctx context.Context, symbol string) (*models.MarketSentiment, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockPredictions) Status(ctx context.Context) *interfaces.InferenceStatus {
	return &interfaces.InferenceStatus{}
}

func TestSignalSynthesizesFromPrediction(t *testing.T) {
	pred := &models.Prediction{
		Symbol:       "BTC",
		CurrentPrice: 50000,
		Forecasts: []models.Forecast{
			{Timeframe: models.Timeframe4H, PredictedPrice: 51000, Confidence: 80, Direction: models.DirectionUp},
			{Timeframe: models.Timeframe1D, PredictedPrice: 52000, Confidence: 60, Direction: models.DirectionUp},
		},
		Indicators: models.IndicatorSet{RSI: 25, MACD: 1.5, Volatility: 20},
	}
	svc := NewService(&mockPredictions{prediction: pred}, common.NewSilentLogger())

	sig, err := svc.Signal(context.Background(), "BTC")
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, "BTC", sig.Symbol)
	assert.Equal(t, models.ActionBuy, sig.Action)
	assert.Equal(t, models.RiskLow, sig.RiskLevel)
	assert.InDelta(t, 70.0, sig.Confidence, 0.001)
	assert.Equal(t, 51000.0, sig.TargetPrice)
	assert.InDelta(t, 47500.0, sig.StopLoss, 0.001)
}

func TestSignalPropagatesPredictionError(t *testing.T) {
	svc := NewService(&mockPredictions{err: fmt.Errorf("unknown symbol")}, common.NewSilentLogger())

	sig, err := svc.Signal(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Nil(t, sig)
}
