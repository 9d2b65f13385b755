// Package signals provides technical indicator calculations
package signals

import (
	"math"
)

// RSI classification values.
const (
	RSIOverbought = "overbought"
	RSIOversold   = "oversold"
	RSINeutral    = "neutral"
)

// SMA calculates the simple moving average of the trailing period closes.
// When fewer than period points exist the mean is taken over the points
// that do exist (guarded divisor).
func SMA(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}

	n := period
	if len(closes) < n {
		n = len(closes)
	}

	sum := 0.0
	for _, c := range closes[len(closes)-n:] {
		sum += c
	}
	return sum / float64(n)
}

// EMASeries calculates the exponential moving average series for the given
// period, seeded with the SMA of the first period values. The returned
// series is aligned so that index i corresponds to closes[period-1+i].
func EMASeries(closes []float64, period int) []float64 {
	if len(closes) < period || period <= 0 {
		return nil
	}

	multiplier := 2.0 / float64(period+1)

	seed := 0.0
	for _, c := range closes[:period] {
		seed += c
	}
	ema := seed / float64(period)

	series := make([]float64, 0, len(closes)-period+1)
	series = append(series, ema)
	for _, c := range closes[period:] {
		ema = (c-ema)*multiplier + ema
		series = append(series, ema)
	}
	return series
}

// RSI calculates the Relative Strength Index with Wilder smoothing over the
// full close series. Returns the neutral default 50 when the series is too
// short to produce a value.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// Wilder smoothing across the remainder of the series
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates Moving Average Convergence Divergence over the close
// series. Returns the latest MACD line, signal line (EMA of the MACD line),
// and histogram. The triplet defaults to {0,0,0} when fewer than slowPeriod
// closes exist; when the MACD series is too short for the signal EMA the
// signal defaults to 0. The histogram is always line minus signal.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (float64, float64, float64) {
	if len(closes) < slowPeriod {
		return 0, 0, 0
	}

	fastEMA := EMASeries(closes, fastPeriod)
	slowEMA := EMASeries(closes, slowPeriod)

	// Align the fast series to the slow series start
	offset := slowPeriod - fastPeriod
	macdSeries := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macdSeries[i] = fastEMA[i+offset] - slowEMA[i]
	}

	line := macdSeries[len(macdSeries)-1]

	signal := 0.0
	if sig := EMASeries(macdSeries, signalPeriod); len(sig) > 0 {
		signal = sig[len(sig)-1]
	}

	return line, signal, line - signal
}

// Bollinger calculates Bollinger Bands over the trailing period closes:
// middle = SMA(period), upper/lower = middle ± stdDev standard deviations.
// Returns {0,0,0} when fewer than period closes exist.
func Bollinger(closes []float64, period int, stdDev float64) (upper, middle, lower float64) {
	if len(closes) < period {
		return 0, 0, 0
	}

	window := closes[len(closes)-period:]

	sum := 0.0
	for _, c := range window {
		sum += c
	}
	middle = sum / float64(period)

	variance := 0.0
	for _, c := range window {
		diff := c - middle
		variance += diff * diff
	}
	variance /= float64(period)
	sd := math.Sqrt(variance)

	return middle + stdDev*sd, middle, middle - stdDev*sd
}

// ClassifyRSI classifies an RSI value into the three-way qualitative label.
func ClassifyRSI(rsi float64) string {
	if rsi > 70 {
		return RSIOverbought
	}
	if rsi < 30 {
		return RSIOversold
	}
	return RSINeutral
}
