package prediction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

// --- mock market service ---

type mockMarket struct {
	records map[string]*models.PriceRecord
	chartFn func(ctx context.Context, assetID string, days int) (*models.MarketChart, error)
}

func (m *mockMarket) Snapshot() *models.FeedSnapshot { return nil }

func (m *mockMarket) Refresh(ctx context.Context) (*models.FeedSnapshot, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarket) GlobalMarket(ctx context.Context) (*models.GlobalMarket, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarket) Chart(ctx context.Context, assetID string, days int) (*models.MarketChart, error) {
	if m.chartFn != nil {
		return m.chartFn(ctx, assetID, days)
	}
	return nil, fmt.Errorf("no chart")
}

func (m *mockMarket) FindPrice(id, symbol string) *models.PriceRecord {
	if r, ok := m.records[symbol]; ok {
		return r
	}
	return nil
}

// --- mock inference client ---

type mockInference struct {
	predictFn func(ctx context.Context, symbol string, data *models.HistoricalData) (*models.Prediction, error)
	statusFn  func(ctx context.Context) *interfaces.InferenceStatus
	calls     int
}

func (m *mockInference) Predict(ctx context.Context, symbol string, data *models.HistoricalData) (*models.Prediction, error) {
	m.calls++
	return m.predictFn(ctx, symbol, data)
}

func (m *mockInference) Status(ctx context.Context) *interfaces.InferenceStatus {
	if m.statusFn != nil {
		return m.statusFn(ctx)
	}
	return &interfaces.InferenceStatus{Online: true}
}

func btcMarket() *mockMarket {
	return &mockMarket{
		records: map[string]*models.PriceRecord{
			"BTC": {ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Price: 50000},
		},
	}
}

func TestPredictSimulatedCoversAllTimeframes(t *testing.T) {
	svc := NewService(btcMarket(), nil, common.NewSilentLogger())

	pred, err := svc.Predict(context.Background(), "btc")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if pred.Symbol != "BTC" {
		t.Errorf("expected symbol BTC, got %s", pred.Symbol)
	}
	if pred.Source != "simulated" {
		t.Errorf("expected simulated source, got %s", pred.Source)
	}
	if pred.CurrentPrice != 50000 {
		t.Errorf("expected current price 50000, got %v", pred.CurrentPrice)
	}
	if len(pred.Forecasts) != len(models.Timeframes) {
		t.Fatalf("expected %d forecasts, got %d", len(models.Timeframes), len(pred.Forecasts))
	}

	for _, tf := range models.Timeframes {
		f := pred.ForecastFor(tf)
		if f == nil {
			t.Fatalf("missing forecast for %s", tf)
		}
		if f.PredictedPrice <= 0 {
			t.Errorf("%s: predicted price must be positive, got %v", tf, f.PredictedPrice)
		}
		params := timeframeParams[tf]
		if f.Confidence < params.confidenceBase || f.Confidence > params.confidenceBase+params.confidenceSpan {
			t.Errorf("%s: confidence %v outside [%v, %v]", tf, f.Confidence,
				params.confidenceBase, params.confidenceBase+params.confidenceSpan)
		}
		if f.PercentChange > params.maxPct || f.PercentChange < -params.maxPct {
			t.Errorf("%s: percent change %v exceeds ±%v", tf, f.PercentChange, params.maxPct)
		}
	}

	found := false
	for _, mt := range modelTypes {
		if pred.Model.ModelType == mt {
			found = true
		}
	}
	if !found {
		t.Errorf("unexpected model type %s", pred.Model.ModelType)
	}
	if pred.Model.Accuracy < 75 || pred.Model.Accuracy > 95 {
		t.Errorf("model accuracy %v outside [75, 95]", pred.Model.Accuracy)
	}
}

func TestSimulatedDirectionsFollowIndicators(t *testing.T) {
	p := NewSimulatedPredictor()

	// Monotonically rising series: RSI saturates at 100, MACD is positive.
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)*10
	}
	data := &models.HistoricalData{Prices: prices}

	pred, err := p.Predict(context.Background(), "BTC", prices[len(prices)-1], data)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if got := pred.ForecastFor(models.Timeframe1H).Direction; got != models.DirectionDown {
		t.Errorf("overbought 1h direction: expected down, got %s", got)
	}
	if got := pred.ForecastFor(models.Timeframe4H).Direction; got != models.DirectionUp {
		t.Errorf("positive MACD 4h direction: expected up, got %s", got)
	}
	for _, tf := range []string{models.Timeframe1D, models.Timeframe7D, models.Timeframe30D} {
		got := pred.ForecastFor(tf).Direction
		if got != models.DirectionUp && got != models.DirectionDown {
			t.Errorf("%s direction: expected up or down, got %s", tf, got)
		}
	}

	// Without history the RSI defaults to neutral and 1h stays sideways.
	pred, err = p.Predict(context.Background(), "BTC", 50000, nil)
	if err != nil {
		t.Fatalf("Predict without history failed: %v", err)
	}
	if got := pred.ForecastFor(models.Timeframe1H).Direction; got != models.DirectionSideways {
		t.Errorf("neutral 1h direction: expected sideways, got %s", got)
	}
}

func TestPredictPrefersInference(t *testing.T) {
	remote := &models.Prediction{
		Symbol:       "BTC",
		CurrentPrice: 49000,
		Forecasts:    []models.Forecast{{Timeframe: models.Timeframe1H, PredictedPrice: 50500, Confidence: 80}},
		Source:       "inference",
		GeneratedAt:  time.Now().UTC(),
	}
	inf := &mockInference{
		predictFn: func(_ context.Context, _ string, _ *models.HistoricalData) (*models.Prediction, error) {
			return remote, nil
		},
	}

	svc := NewService(btcMarket(), inf, common.NewSilentLogger())

	pred, err := svc.Predict(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Source != "inference" {
		t.Errorf("expected inference source, got %s", pred.Source)
	}
	// The feed price wins over whatever the service echoed.
	if pred.CurrentPrice != 50000 {
		t.Errorf("expected feed price 50000, got %v", pred.CurrentPrice)
	}
}

func TestPredictFallsBackWhenInferenceFails(t *testing.T) {
	inf := &mockInference{
		predictFn: func(_ context.Context, _ string, _ *models.HistoricalData) (*models.Prediction, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}

	svc := NewService(btcMarket(), inf, common.NewSilentLogger())

	pred, err := svc.Predict(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("Predict must fall back, got error: %v", err)
	}
	if pred.Source != "simulated" {
		t.Errorf("expected simulated fallback, got %s", pred.Source)
	}
}

func TestPredictCachesWithinTTL(t *testing.T) {
	inf := &mockInference{
		predictFn: func(_ context.Context, symbol string, _ *models.HistoricalData) (*models.Prediction, error) {
			return &models.Prediction{
				Symbol:    "BTC",
				Forecasts: []models.Forecast{{Timeframe: models.Timeframe1H, PredictedPrice: 50500}},
				Source:    "inference",
			}, nil
		},
	}

	svc := NewService(btcMarket(), inf, common.NewSilentLogger())

	first, err := svc.Predict(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	second, err := svc.Predict(context.Background(), "btc")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if first != second {
		t.Error("expected cached prediction for same symbol within TTL")
	}
	if inf.calls != 1 {
		t.Errorf("expected 1 inference call, got %d", inf.calls)
	}
}

func TestPredictUnknownSymbol(t *testing.T) {
	svc := NewService(btcMarket(), nil, common.NewSilentLogger())

	if _, err := svc.Predict(context.Background(), "DOGE"); err == nil {
		t.Error("expected error for unknown symbol")
	}
}

func TestRefreshAllBypassesCache(t *testing.T) {
	inf := &mockInference{
		predictFn: func(_ context.Context, _ string, _ *models.HistoricalData) (*models.Prediction, error) {
			return &models.Prediction{
				Symbol:    "BTC",
				Forecasts: []models.Forecast{{Timeframe: models.Timeframe1H, PredictedPrice: 50500}},
				Source:    "inference",
			}, nil
		},
	}

	svc := NewService(btcMarket(), inf, common.NewSilentLogger())

	svc.RefreshAll(context.Background(), []string{"BTC"})
	svc.RefreshAll(context.Background(), []string{"BTC"})

	if inf.calls != 2 {
		t.Errorf("RefreshAll must regenerate every sweep, got %d calls", inf.calls)
	}
}

func TestSentimentClassification(t *testing.T) {
	svc := NewService(btcMarket(), nil, common.NewSilentLogger())

	for i := 0; i < 50; i++ {
		sentiment, err := svc.Sentiment(context.Background(), "BTC")
		if err != nil {
			t.Fatalf("Sentiment failed: %v", err)
		}
		if sentiment.Score > 100 || sentiment.Score < -100 {
			t.Fatalf("score %v outside [-100, 100]", sentiment.Score)
		}
		switch {
		case sentiment.Score > 20 && sentiment.Overall != models.SentimentBullish:
			t.Errorf("score %v must classify BULLISH, got %s", sentiment.Score, sentiment.Overall)
		case sentiment.Score < -20 && sentiment.Overall != models.SentimentBearish:
			t.Errorf("score %v must classify BEARISH, got %s", sentiment.Score, sentiment.Overall)
		case sentiment.Score >= -20 && sentiment.Score <= 20 && sentiment.Overall != models.SentimentNeutral:
			t.Errorf("score %v must classify NEUTRAL, got %s", sentiment.Score, sentiment.Overall)
		}
	}
}

func TestSentimentSummaryDegradesSilently(t *testing.T) {
	broken := contentFunc(func(_ context.Context, _ string) (string, error) {
		return "", fmt.Errorf("quota exceeded")
	})

	svc := NewService(btcMarket(), nil, common.NewSilentLogger(), WithContentClient(broken))

	sentiment, err := svc.Sentiment(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("summary failure must not propagate: %v", err)
	}
	if sentiment.Summary != "" {
		t.Errorf("expected empty summary, got %q", sentiment.Summary)
	}
}

type contentFunc func(ctx context.Context, prompt string) (string, error)

func (f contentFunc) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestStatusWithoutInference(t *testing.T) {
	svc := NewService(btcMarket(), nil, common.NewSilentLogger())

	status := svc.Status(context.Background())
	if status.Online {
		t.Error("expected offline status with no inference client")
	}
	if status.Error == "" {
		t.Error("expected an explanatory error string")
	}
}
