package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
)

// StartSchedulers launches the background feed loops: market polling,
// prediction refresh, news refresh, and the jitter simulator when enabled.
// All loops stop when Close cancels the shared context.
func (a *App) StartSchedulers() {
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel

	go startPriceLoop(ctx, a.MarketService, a.Logger, a.Config.Feed.GetPriceInterval())
	go startPredictionLoop(ctx, a.PredictionService, a.Storage, a.Logger, a.Config.Feed.GetPredictionInterval())
	go startNewsLoop(ctx, a.NewsService, a.Logger, a.Config.Feed.GetNewsInterval())

	if a.jitter != nil {
		a.jitter.Start(ctx)
	}
}

// startPriceLoop polls the market feed on a fixed interval. The first poll
// runs immediately so the snapshot exists before the first request lands.
func startPriceLoop(ctx context.Context, market interfaces.MarketService, logger *common.Logger, interval time.Duration) {
	if _, err := market.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial market poll failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("price loop stopped")
			return
		case <-ticker.C:
			if _, err := market.Refresh(ctx); err != nil {
				logger.Warn().Err(err).Msg("market poll failed")
			}
		}
	}
}

// startPredictionLoop refreshes predictions for every symbol held in any
// persisted portfolio.
func startPredictionLoop(ctx context.Context, predictions interfaces.PredictionService, storage interfaces.StorageManager, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("prediction loop stopped")
			return
		case <-ticker.C:
			symbols := heldSymbols(ctx, storage, logger)
			if len(symbols) == 0 {
				continue
			}
			start := time.Now()
			predictions.RefreshAll(ctx, symbols)
			logger.Debug().Int("symbols", len(symbols)).Dur("elapsed", time.Since(start)).Msg("prediction sweep complete")
		}
	}
}

// heldSymbols collects the deduplicated symbol set across all portfolios.
func heldSymbols(ctx context.Context, storage interfaces.StorageManager, logger *common.Logger) []string {
	users, err := storage.PortfolioStore().ListPortfolioUsers(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("prediction sweep: listing portfolios failed")
		return nil
	}

	seen := make(map[string]struct{})
	for _, userID := range users {
		p, err := storage.PortfolioStore().GetPortfolio(ctx, userID)
		if err != nil {
			logger.Warn().Str("user", userID).Err(err).Msg("prediction sweep: portfolio load failed")
			continue
		}
		for _, h := range p.Holdings {
			seen[strings.ToUpper(h.Symbol)] = struct{}{}
		}
	}

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// startNewsLoop keeps the news cache warm.
func startNewsLoop(ctx context.Context, newsService interfaces.NewsService, logger *common.Logger, interval time.Duration) {
	if _, err := newsService.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial news fetch failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("news loop stopped")
			return
		case <-ticker.C:
			if _, err := newsService.Refresh(ctx); err != nil {
				logger.Warn().Err(err).Msg("news refresh failed")
			}
		}
	}
}
