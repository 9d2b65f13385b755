package signals

import (
	"github.com/lhzhang/astock-advisor/internal/models"
)

// Compute derives the full factor snapshot from a chronological candle
// history. Pure function: no I/O, no side effects. NaN values from malformed
// source fields propagate through the arithmetic unspecial-cased.
func Compute(series *models.HistorySeries) models.FactorSnapshot {
	if series == nil || len(series.Candles) == 0 {
		return models.FactorSnapshot{RSI14: 50}
	}

	closes := series.Closes()
	recent := series.Recent(20)

	line, signal, histogram := MACD(closes, 12, 26, 9)
	upper, middle, lower := Bollinger(closes, 20, 2)

	return models.FactorSnapshot{
		RSI14:        RSI(closes, 14),
		MACD:         models.MACDValue{Line: line, Signal: signal, Histogram: histogram},
		Bollinger:    models.BollingerValue{Upper: upper, Middle: middle, Lower: lower},
		MA5:          SMA(closes, 5),
		MA12:         SMA(closes, 12),
		MA20:         SMA(closes, 20),
		MA72:         SMA(closes, 72),
		AvgTurnover5: AvgTurnover(recent, 5),
		VolumeRatio:  VolumeRatio(series.Candles),
		LastClose:    closes[len(closes)-1],
	}
}

// AvgTurnover calculates the mean turnover over the trailing period candles
// of the supplied window (guarded divisor when fewer points exist).
func AvgTurnover(candles []models.Candle, period int) float64 {
	if len(candles) == 0 || period <= 0 {
		return 0
	}

	n := period
	if len(candles) < n {
		n = len(candles)
	}

	sum := 0.0
	for _, c := range candles[len(candles)-n:] {
		sum += c.Turnover
	}
	return sum / float64(n)
}

// VolumeRatio divides the latest day's volume by the 5-day average turnover
// of the trailing-20 window. A zero average yields +Inf.
func VolumeRatio(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}

	recent := candles
	if len(recent) > 20 {
		recent = recent[len(recent)-20:]
	}
	avg := AvgTurnover(recent, 5)
	return float64(candles[len(candles)-1].Volume) / avg
}
