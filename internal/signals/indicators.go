// Package signals provides technical indicator calculations and trading
// signal synthesis.
package signals

import (
	"math"

	"github.com/veldrane/coinfolio/internal/models"
)

// Price series are ordered oldest-first throughout this package. Callers
// must reject empty series; these functions never error on non-empty input.

// EMA calculates an Exponential Moving Average over the full series, seeded
// with the first price and smoothed by 2/(period+1).
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}

	multiplier := 2.0 / float64(period+1)
	ema := prices[0]

	for i := 1; i < len(prices); i++ {
		ema = prices[i]*multiplier + ema*(1-multiplier)
	}

	return ema
}

// RSI calculates the Relative Strength Index over the trailing period.
// Fewer than period+1 points yields the neutral value 50; a series with no
// losses (including a flat series) yields 100.
func RSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50
	}

	changes := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes[i-1] = prices[i] - prices[i-1]
	}

	var gains, losses float64
	for _, change := range changes[len(changes)-period:] {
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates Moving Average Convergence Divergence as EMA12 - EMA26.
func MACD(prices []float64) float64 {
	return EMA(prices, 12) - EMA(prices, 26)
}

// BollingerBands calculates a 20-period moving average with bands at two
// standard deviations. Short series fall back to the mean of all available
// prices with ±2% bands.
func BollingerBands(prices []float64, period int) models.BollingerBands {
	if len(prices) == 0 {
		return models.BollingerBands{}
	}

	if len(prices) < period {
		var sum float64
		for _, p := range prices {
			sum += p
		}
		avg := sum / float64(len(prices))
		return models.BollingerBands{
			Upper:  avg * 1.02,
			Middle: avg,
			Lower:  avg * 0.98,
		}
	}

	window := prices[len(prices)-period:]
	var sum float64
	for _, p := range window {
		sum += p
	}
	middle := sum / float64(period)

	var variance float64
	for _, p := range window {
		variance += (p - middle) * (p - middle)
	}
	stdDev := math.Sqrt(variance / float64(period))

	return models.BollingerBands{
		Upper:  middle + 2*stdDev,
		Middle: middle,
		Lower:  middle - 2*stdDev,
	}
}

// Volatility calculates the annualized volatility percentage from the
// standard deviation of log returns over the full series (√252 scaling).
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	returns := make([]float64, len(prices)-1)
	var sum float64
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
		sum += returns[i-1]
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(252) * 100
}

// Compute derives the full IndicatorSet for a price series. Volume is the
// last element of volumes, or 0 when none are supplied.
func Compute(prices, volumes []float64) models.IndicatorSet {
	var volume float64
	if len(volumes) > 0 {
		volume = volumes[len(volumes)-1]
	}

	return models.IndicatorSet{
		RSI:        RSI(prices, 14),
		MACD:       MACD(prices),
		Bollinger:  BollingerBands(prices, 20),
		Volume:     volume,
		Volatility: Volatility(prices),
	}
}
