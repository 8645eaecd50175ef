package signals

import (
	"math"

	"github.com/veldrane/coinfolio/internal/models"
)

// buyThreshold is the decision boundary for the combined signal. Scores
// strictly above it buy, strictly below its negation sell; the boundary
// values themselves resolve to HOLD.
const buyThreshold = 0.3

func directionSignal(direction string) float64 {
	switch direction {
	case models.DirectionUp:
		return 1
	case models.DirectionDown:
		return -1
	default:
		return 0
	}
}

// Synthesize reduces a prediction to a single BUY/SELL/HOLD recommendation.
// It combines four unit signals (RSI, MACD sign, and the 4h and 1d forecast
// directions) into an overall score in [-1, 1].
func Synthesize(pred *models.Prediction) models.TradingSignal {
	shortTerm := pred.ForecastFor(models.Timeframe4H)
	mediumTerm := pred.ForecastFor(models.Timeframe1D)

	if shortTerm == nil || mediumTerm == nil {
		return models.TradingSignal{
			Symbol:      pred.Symbol,
			Action:      models.ActionHold,
			Strength:    0,
			RiskLevel:   models.RiskHigh,
			TargetPrice: pred.CurrentPrice,
			StopLoss:    pred.CurrentPrice * 0.95,
			Confidence:  0,
		}
	}

	var rsiSignal float64
	if pred.Indicators.RSI < 30 {
		rsiSignal = 1
	} else if pred.Indicators.RSI > 70 {
		rsiSignal = -1
	}

	macdSignal := -1.0
	if pred.Indicators.MACD > 0 {
		macdSignal = 1
	}

	overall := (rsiSignal + macdSignal + directionSignal(shortTerm.Direction) + directionSignal(mediumTerm.Direction)) / 4
	confidence := (shortTerm.Confidence + mediumTerm.Confidence) / 2

	var action string
	var strength float64
	var riskLevel string

	switch {
	case overall > buyThreshold:
		action = models.ActionBuy
		strength = math.Min(100, confidence*(overall+1))
		riskLevel = riskFromVolatility(pred.Indicators.Volatility)
	case overall < -buyThreshold:
		action = models.ActionSell
		strength = math.Min(100, confidence*math.Abs(overall-1))
		riskLevel = riskFromVolatility(pred.Indicators.Volatility)
	default:
		action = models.ActionHold
		strength = confidence * 0.5
		riskLevel = models.RiskMedium
	}

	stopLoss := pred.CurrentPrice * 1.05
	if action == models.ActionBuy {
		stopLoss = pred.CurrentPrice * 0.95
	}

	return models.TradingSignal{
		Symbol:      pred.Symbol,
		Action:      action,
		Strength:    strength,
		RiskLevel:   riskLevel,
		TargetPrice: shortTerm.PredictedPrice,
		StopLoss:    stopLoss,
		Confidence:  confidence,
	}
}

func riskFromVolatility(volatility float64) string {
	switch {
	case volatility > 50:
		return models.RiskHigh
	case volatility > 25:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
