// Package market provides the cached market data feed.
package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

// DefaultTopN is how many assets the feed tracks when not configured.
const DefaultTopN = 50

// proxyCacheTTL bounds how long global/chart responses are reused before the
// upstream is asked again.
const proxyCacheTTL = time.Minute

type chartEntry struct {
	chart     *models.MarketChart
	fetchedAt time.Time
}

// Service implements MarketService. The snapshot is replaced whole on every
// successful poll; readers always see a consistent record set.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger
	topN   int

	mu       sync.RWMutex
	snapshot *models.FeedSnapshot

	// refreshMu serializes polls so overlapping ticks collapse into one
	// upstream request.
	refreshMu  sync.Mutex
	generation uint64

	proxyMu         sync.Mutex
	globalCache     *models.GlobalMarket
	globalFetchedAt time.Time
	chartCache      map[string]chartEntry
}

// NewService creates a new market service.
func NewService(client interfaces.MarketDataClient, logger *common.Logger, topN int) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Service{
		client:     client,
		logger:     logger,
		topN:       topN,
		chartCache: make(map[string]chartEntry),
	}
}

// Snapshot returns the current feed snapshot without fetching. Nil until the
// first Refresh.
func (s *Service) Snapshot() *models.FeedSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh polls the upstream API and replaces the snapshot. On failure the
// previous snapshot is kept; with no snapshot at all the hardcoded fallback
// set is installed so the dashboard is never empty.
func (s *Service) Refresh(ctx context.Context) (*models.FeedSnapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.generation++
	gen := s.generation

	records, err := s.client.ListMarkets(ctx, s.topN)
	if err != nil {
		s.logger.Warn().Err(err).Msg("market poll failed")

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.snapshot != nil {
			return s.snapshot, err
		}
		s.snapshot = &models.FeedSnapshot{
			Records:    fallbackRecords(),
			FetchedAt:  time.Now().UTC(),
			Fallback:   true,
			Generation: gen,
		}
		s.logger.Info().Msg("serving fallback market data")
		return s.snapshot, nil
	}

	snapshot := &models.FeedSnapshot{
		Records:    records,
		FetchedAt:  time.Now().UTC(),
		Generation: gen,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer poll may have finished while this one was in flight.
	if s.snapshot != nil && s.snapshot.Generation > gen {
		return s.snapshot, nil
	}
	s.snapshot = snapshot

	s.logger.Debug().Int("records", len(records)).Uint64("generation", gen).Msg("market snapshot replaced")
	return snapshot, nil
}

// GlobalMarket returns the aggregate market summary, reusing a recent
// response when one is available.
func (s *Service) GlobalMarket(ctx context.Context) (*models.GlobalMarket, error) {
	s.proxyMu.Lock()
	defer s.proxyMu.Unlock()

	if s.globalCache != nil && time.Since(s.globalFetchedAt) < proxyCacheTTL {
		return s.globalCache, nil
	}

	global, err := s.client.GlobalMarket(ctx)
	if err != nil {
		return nil, err
	}
	s.globalCache = global
	s.globalFetchedAt = time.Now()
	return global, nil
}

// Chart returns per-asset price/volume history, cached per asset and range.
func (s *Service) Chart(ctx context.Context, assetID string, days int) (*models.MarketChart, error) {
	key := fmt.Sprintf("%s:%d", assetID, days)

	s.proxyMu.Lock()
	if entry, ok := s.chartCache[key]; ok && time.Since(entry.fetchedAt) < proxyCacheTTL {
		s.proxyMu.Unlock()
		return entry.chart, nil
	}
	s.proxyMu.Unlock()

	chart, err := s.client.MarketChart(ctx, assetID, days)
	if err != nil {
		return nil, err
	}

	s.proxyMu.Lock()
	s.chartCache[key] = chartEntry{chart: chart, fetchedAt: time.Now()}
	s.proxyMu.Unlock()
	return chart, nil
}

// FindPrice locates a record by asset id first, then by case-insensitive
// symbol. Returns nil when nothing matches or the feed has not polled yet.
func (s *Service) FindPrice(id, symbol string) *models.PriceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil
	}
	for i := range s.snapshot.Records {
		if id != "" && s.snapshot.Records[i].ID == id {
			return &s.snapshot.Records[i]
		}
	}
	for i := range s.snapshot.Records {
		if symbol != "" && strings.EqualFold(s.snapshot.Records[i].Symbol, symbol) {
			return &s.snapshot.Records[i]
		}
	}
	return nil
}

// fallbackRecords is the hardcoded asset set served when the upstream API is
// unreachable and no snapshot exists. Values are stale by definition; the
// snapshot is flagged so the UI can badge it.
func fallbackRecords() []models.PriceRecord {
	return []models.PriceRecord{
		{
			ID:            "bitcoin",
			Symbol:        "BTC",
			Name:          "Bitcoin",
			Price:         52291,
			Change:        1234.56,
			ChangePercent: 2.34,
			Volume:        "$84.42B",
			MarketCap:     "$1.02T",
			Rank:          1,
		},
		{
			ID:            "ethereum",
			Symbol:        "ETH",
			Name:          "Ethereum",
			Price:         2980.81,
			Change:        54.23,
			ChangePercent: 1.87,
			Volume:        "$32.15B",
			MarketCap:     "$358.2B",
			Rank:          2,
		},
		{
			ID:            "cardano",
			Symbol:        "ADA",
			Name:          "Cardano",
			Price:         0.52,
			Change:        -0.0023,
			ChangePercent: -0.45,
			Volume:        "$804.42M",
			MarketCap:     "$18.2B",
			Rank:          8,
		},
		{
			ID:            "solana",
			Symbol:        "SOL",
			Name:          "Solana",
			Price:         98.45,
			Change:        5.58,
			ChangePercent: 5.67,
			Volume:        "$2.34B",
			MarketCap:     "$43.8B",
			Rank:          5,
		},
	}
}
