// Package portfolio manages per-user portfolios and their valuation.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
	"github.com/veldrane/coinfolio/internal/storage"
)

// Service implements PortfolioService. Documents are cached per user and
// written whole on every mutation.
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	logger  *common.Logger

	mu    sync.Mutex
	cache map[string]*models.Portfolio
}

// NewService creates a portfolio service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  market,
		logger:  logger,
		cache:   make(map[string]*models.Portfolio),
	}
}

// GetPortfolio returns the user's portfolio, creating the seeded default on
// first access. Corrupt persisted documents surface as errors rather than
// being silently recreated.
func (s *Service) GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, userID)
}

// load must be called with s.mu held.
func (s *Service) load(ctx context.Context, userID string) (*models.Portfolio, error) {
	if p, ok := s.cache[userID]; ok {
		return p, nil
	}

	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to load portfolio: %w", err)
		}
		p = seedPortfolio(userID)
		if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to persist seeded portfolio: %w", err)
		}
		s.logger.Info().Str("user", userID).Msg("seeded default portfolio")
	}

	s.cache[userID] = p
	return p, nil
}

// save must be called with s.mu held.
func (s *Service) save(ctx context.Context, p *models.Portfolio) error {
	p.UpdatedAt = time.Now().UTC()
	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.cache[p.UserID] = p
	return nil
}

// AddHolding appends a holding and persists. A fresh id is always assigned;
// TotalInvested defaults to quantity × average buy price when unset.
func (s *Service) AddHolding(ctx context.Context, userID string, h models.Holding) (*models.Portfolio, error) {
	if h.Quantity <= 0 {
		return nil, fmt.Errorf("holding quantity must be positive")
	}
	if h.Symbol == "" {
		return nil, fmt.Errorf("holding symbol is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	h.ID = uuid.New().String()
	if h.TotalInvested == 0 {
		h.TotalInvested = h.Quantity * h.AverageBuyPrice
	}
	if h.PurchaseDate.IsZero() {
		h.PurchaseDate = time.Now().UTC()
	}

	p.Holdings = append(p.Holdings, h)
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveHolding deletes by id. Absent ids are a no-op, not an error.
func (s *Service) RemoveHolding(ctx context.Context, userID, holdingID string) (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range p.Holdings {
		if p.Holdings[i].ID == holdingID {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			if err := s.save(ctx, p); err != nil {
				return nil, err
			}
			break
		}
	}
	return p, nil
}

// UpdateHolding shallow-merges the update into the matching holding. Absent
// ids are a no-op. TotalInvested is not recomputed from patched quantity or
// price; callers send it explicitly when they want it to change.
func (s *Service) UpdateHolding(ctx context.Context, userID, holdingID string, update models.HoldingUpdate) (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range p.Holdings {
		if p.Holdings[i].ID != holdingID {
			continue
		}
		h := &p.Holdings[i]
		if update.Quantity != nil {
			h.Quantity = *update.Quantity
		}
		if update.AverageBuyPrice != nil {
			h.AverageBuyPrice = *update.AverageBuyPrice
		}
		if update.TotalInvested != nil {
			h.TotalInvested = *update.TotalInvested
		}
		if update.PurchaseDate != nil {
			h.PurchaseDate = *update.PurchaseDate
		}
		if update.Notes != nil {
			h.Notes = *update.Notes
		}
		if err := s.save(ctx, p); err != nil {
			return nil, err
		}
		break
	}
	return p, nil
}

// ComputeMetrics values the portfolio against the live feed. Holdings with
// no matching price record are excluded from every sum and reported in
// ExcludedSymbols.
func (s *Service) ComputeMetrics(ctx context.Context, userID string) (*models.PortfolioMetrics, error) {
	p, err := s.GetPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics := &models.PortfolioMetrics{}
	var performances []models.HoldingPerformance

	for _, h := range p.Holdings {
		record := s.market.FindPrice(h.AssetID, h.Symbol)
		if record == nil {
			metrics.ExcludedSymbols = append(metrics.ExcludedSymbols, h.Symbol)
			continue
		}

		value := h.Quantity * record.Price
		gain := value - h.TotalInvested

		metrics.TotalValue += value
		metrics.TotalInvested += h.TotalInvested
		metrics.DayChange += h.Quantity * record.Price * (record.ChangePercent / 100)

		perf := models.HoldingPerformance{
			Symbol:   h.Symbol,
			GainLoss: gain,
		}
		if h.TotalInvested > 0 {
			perf.GainLossPercentage = gain / h.TotalInvested * 100
		}
		performances = append(performances, perf)
	}

	metrics.TotalGainLoss = metrics.TotalValue - metrics.TotalInvested
	if metrics.TotalInvested > 0 {
		metrics.TotalGainLossPercentage = metrics.TotalGainLoss / metrics.TotalInvested * 100
	}
	if metrics.TotalValue > 0 {
		metrics.DayChangePercentage = metrics.DayChange / metrics.TotalValue * 100
	}

	for i := range performances {
		perf := &performances[i]
		if metrics.TopPerformer == nil || perf.GainLossPercentage > metrics.TopPerformer.GainLossPercentage {
			metrics.TopPerformer = perf
		}
		if metrics.WorstPerformer == nil || perf.GainLossPercentage < metrics.WorstPerformer.GainLossPercentage {
			metrics.WorstPerformer = perf
		}
	}

	return metrics, nil
}

// EvictCache drops the in-memory document for a user on sign-out. The
// persisted file is retained.
func (s *Service) EvictCache(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, userID)
}

// seedPortfolio is the default starter document for new users.
func seedPortfolio(userID string) *models.Portfolio {
	now := time.Now().UTC()
	return &models.Portfolio{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   "My Portfolio",
		Holdings: []models.Holding{
			{
				ID:              uuid.New().String(),
				AssetID:         "bitcoin",
				Symbol:          "BTC",
				Name:            "Bitcoin",
				Quantity:        0.1,
				AverageBuyPrice: 45000,
				TotalInvested:   4500,
				PurchaseDate:    now,
			},
			{
				ID:              uuid.New().String(),
				AssetID:         "ethereum",
				Symbol:          "ETH",
				Name:            "Ethereum",
				Quantity:        2,
				AverageBuyPrice: 2500,
				TotalInvested:   5000,
				PurchaseDate:    now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
