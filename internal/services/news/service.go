// Package news provides the cached news feed with provider failover.
package news

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

const (
	// DefaultLimit is how many articles a fetch requests.
	DefaultLimit = 20
	// DefaultTTL is how long a fetched article set stays fresh.
	DefaultTTL = 2 * time.Minute
)

// Service implements NewsService. Providers are tried in order; when all
// fail, a synthetic article set is built from the market snapshot so the
// news panel is never empty.
type Service struct {
	providers []interfaces.NewsClient
	market    interfaces.MarketService
	logger    *common.Logger
	limit     int
	ttl       time.Duration

	mu        sync.RWMutex
	articles  []models.NewsArticle
	fetchedAt time.Time
}

// NewService creates a news service. Providers are consulted in the order
// given.
func NewService(providers []interfaces.NewsClient, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		providers: providers,
		market:    market,
		logger:    logger,
		limit:     DefaultLimit,
		ttl:       DefaultTTL,
	}
}

// Articles returns the cached articles, refreshing when stale.
func (s *Service) Articles(ctx context.Context) ([]models.NewsArticle, error) {
	s.mu.RLock()
	fresh := s.articles != nil && time.Since(s.fetchedAt) < s.ttl
	cached := s.articles
	s.mu.RUnlock()

	if fresh {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh forces a provider fetch, falling through the provider list and
// finally to the synthetic set. Never returns an empty result with a nil
// error.
func (s *Service) Refresh(ctx context.Context) ([]models.NewsArticle, error) {
	for _, provider := range s.providers {
		articles, err := provider.LatestNews(ctx, s.limit)
		if err != nil {
			s.logger.Warn().Str("provider", provider.Name()).Err(err).Msg("news provider failed")
			continue
		}
		if len(articles) == 0 {
			s.logger.Warn().Str("provider", provider.Name()).Msg("news provider returned no articles")
			continue
		}

		s.store(articles)
		s.logger.Debug().Str("provider", provider.Name()).Int("count", len(articles)).Msg("news refreshed")
		return articles, nil
	}

	synthetic := s.syntheticArticles()
	s.store(synthetic)
	s.logger.Info().Msg("all news providers failed, serving synthetic articles")
	return synthetic, nil
}

func (s *Service) store(articles []models.NewsArticle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
	s.fetchedAt = time.Now().UTC()
}

// syntheticArticles derives headline-style items from the current market
// snapshot. Purely presentational; flagged by the Source field.
func (s *Service) syntheticArticles() []models.NewsArticle {
	now := time.Now().UTC()
	articles := []models.NewsArticle{}

	var snapshot *models.FeedSnapshot
	if s.market != nil {
		snapshot = s.market.Snapshot()
	}
	if snapshot != nil {
		n := len(snapshot.Records)
		if n > 5 {
			n = 5
		}
		for i := 0; i < n; i++ {
			r := snapshot.Records[i]
			verb := "holds steady"
			if r.ChangePercent > 1 {
				verb = "climbs"
			} else if r.ChangePercent < -1 {
				verb = "slips"
			}
			articles = append(articles, models.NewsArticle{
				Title:       fmt.Sprintf("%s %s as price reaches $%.2f", r.Name, verb, r.Price),
				Description: fmt.Sprintf("%s (%s) is trading at $%.2f, %.2f%% over the last 24 hours with volume of %s.", r.Name, r.Symbol, r.Price, r.ChangePercent, r.Volume),
				Source:      "Market Data",
				PublishedAt: now.Add(-time.Duration(i) * time.Hour),
			})
		}
	}

	if len(articles) == 0 {
		articles = append(articles, models.NewsArticle{
			Title:       "Crypto markets update",
			Description: "Live news is temporarily unavailable. Market data will resume shortly.",
			Source:      "Market Data",
			PublishedAt: now,
		})
	}

	return articles
}
