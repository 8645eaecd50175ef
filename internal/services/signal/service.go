// Package signal derives trading signals from predictions.
package signal

import (
	"context"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
	"github.com/veldrane/coinfolio/internal/signals"
)

// Service implements SignalService. Signals are pure functions of the
// current prediction, so there is nothing to cache here; the prediction
// service's cache is the freshness boundary.
type Service struct {
	predictions interfaces.PredictionService
	logger      *common.Logger
}

// NewService creates a signal service.
func NewService(predictions interfaces.PredictionService, logger *common.Logger) *Service {
	return &Service{
		predictions: predictions,
		logger:      logger,
	}
}

// Signal returns the trading signal for symbol.
func (s *Service) Signal(ctx context.Context, symbol string) (*models.TradingSignal, error) {
	prediction, err := s.predictions.Predict(ctx, symbol)
	if err != nil {
		return nil, err
	}

	sig := signals.Synthesize(prediction)
	s.logger.Debug().Str("symbol", sig.Symbol).Str("action", sig.Action).Float64("strength", sig.Strength).Msg("signal synthesized")
	return &sig, nil
}
