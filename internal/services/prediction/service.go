// Package prediction generates and caches per-asset price predictions.
package prediction

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

const (
	// DefaultTTL is how long a cached prediction stays fresh.
	DefaultTTL = 30 * time.Second
	// chartDays is how much history feeds the indicator math.
	chartDays = 30
)

// Service implements PredictionService. Predictions come from the inference
// service when it is reachable and from the simulated predictor otherwise;
// either way every symbol always resolves to a usable prediction.
type Service struct {
	market    interfaces.MarketService
	inference interfaces.InferenceClient
	content   interfaces.ContentClient
	simulated *SimulatedPredictor
	logger    *common.Logger
	ttl       time.Duration

	mu    sync.RWMutex
	cache map[string]*cacheEntry

	rngMu sync.Mutex
	rng   *rand.Rand
}

type cacheEntry struct {
	prediction *models.Prediction
	fetchedAt  time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithTTL overrides the prediction cache TTL.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithContentClient enables AI sentiment summaries. Optional; sentiment
// degrades to numbers-only without it.
func WithContentClient(content interfaces.ContentClient) ServiceOption {
	return func(s *Service) {
		s.content = content
	}
}

// NewService creates a prediction service. The inference client may be nil,
// which forces the simulated path.
func NewService(market interfaces.MarketService, inference interfaces.InferenceClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		market:    market,
		inference: inference,
		simulated: NewSimulatedPredictor(),
		logger:    logger,
		ttl:       DefaultTTL,
		cache:     make(map[string]*cacheEntry),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Predict returns the cached prediction for symbol, generating a fresh one
// when absent or stale.
func (s *Service) Predict(ctx context.Context, symbol string) (*models.Prediction, error) {
	key := strings.ToUpper(symbol)

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < s.ttl {
		return entry.prediction, nil
	}

	return s.generate(ctx, key)
}

// RefreshAll regenerates predictions for the given symbols, ignoring the
// cache. Failures are logged per symbol and do not stop the sweep.
func (s *Service) RefreshAll(ctx context.Context, symbols []string) {
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.generate(ctx, strings.ToUpper(symbol)); err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("prediction refresh failed")
		}
	}
}

func (s *Service) generate(ctx context.Context, symbol string) (*models.Prediction, error) {
	record := s.market.FindPrice("", symbol)
	if record == nil {
		return nil, fmt.Errorf("unknown symbol %q", symbol)
	}

	data := s.history(ctx, record)

	var prediction *models.Prediction
	if s.inference != nil {
		p, err := s.inference.Predict(ctx, symbol, data)
		if err == nil {
			prediction = p
		} else {
			s.logger.Debug().Str("symbol", symbol).Err(err).Msg("inference unavailable, simulating")
		}
	}
	if prediction == nil {
		p, err := s.simulated.Predict(ctx, symbol, record.Price, data)
		if err != nil {
			return nil, err
		}
		prediction = p
	}
	prediction.CurrentPrice = record.Price

	s.mu.Lock()
	s.cache[symbol] = &cacheEntry{prediction: prediction, fetchedAt: time.Now()}
	s.mu.Unlock()

	return prediction, nil
}

// history fetches chart data for the indicator math. A chart failure is not
// fatal; predictions degrade to empty indicators.
func (s *Service) history(ctx context.Context, record *models.PriceRecord) *models.HistoricalData {
	chart, err := s.market.Chart(ctx, record.ID, chartDays)
	if err != nil {
		s.logger.Debug().Str("asset", record.ID).Err(err).Msg("chart fetch failed")
		return nil
	}

	data := &models.HistoricalData{
		Prices:  chart.PriceSeries(),
		Volumes: chart.VolumeSeries(),
	}
	for _, p := range chart.Prices {
		data.Timestamps = append(data.Timestamps, p.Timestamp)
	}
	return data
}

// Sentiment returns the market sentiment for symbol. Source scores are
// sampled uniformly; the aggregate classification uses a ±20 neutral band.
// When a content client is configured a short AI summary is attached, and a
// summary failure degrades silently.
func (s *Service) Sentiment(ctx context.Context, symbol string) (*models.MarketSentiment, error) {
	key := strings.ToUpper(symbol)
	if s.market.FindPrice("", key) == nil {
		return nil, fmt.Errorf("unknown symbol %q", key)
	}

	s.rngMu.Lock()
	sources := models.SentimentSources{
		News:      s.rng.Float64()*200 - 100,
		Social:    s.rng.Float64()*200 - 100,
		OnChain:   s.rng.Float64()*200 - 100,
		Technical: s.rng.Float64()*200 - 100,
	}
	s.rngMu.Unlock()

	score := (sources.News + sources.Social + sources.OnChain + sources.Technical) / 4

	overall := models.SentimentNeutral
	if score > 20 {
		overall = models.SentimentBullish
	} else if score < -20 {
		overall = models.SentimentBearish
	}

	sentiment := &models.MarketSentiment{
		Symbol:  key,
		Overall: overall,
		Score:   score,
		Sources: sources,
	}

	if s.content != nil {
		summary, err := s.summarize(ctx, sentiment)
		if err != nil {
			s.logger.Debug().Str("symbol", key).Err(err).Msg("sentiment summary failed")
		} else {
			sentiment.Summary = summary
		}
	}

	return sentiment, nil
}

func (s *Service) summarize(ctx context.Context, sentiment *models.MarketSentiment) (string, error) {
	prompt := fmt.Sprintf(`Summarize the market sentiment for %s in two sentences for a retail dashboard.

Overall: %s (score %.1f on a -100..100 scale)
News: %.1f, Social: %.1f, On-chain: %.1f, Technical: %.1f

Keep it factual and avoid giving financial advice.`,
		sentiment.Symbol, sentiment.Overall, sentiment.Score,
		sentiment.Sources.News, sentiment.Sources.Social,
		sentiment.Sources.OnChain, sentiment.Sources.Technical)

	return s.content.GenerateContent(ctx, prompt)
}

// Status reports inference service availability.
func (s *Service) Status(ctx context.Context) *interfaces.InferenceStatus {
	if s.inference == nil {
		return &interfaces.InferenceStatus{Error: "inference service not configured"}
	}
	return s.inference.Status(ctx)
}
