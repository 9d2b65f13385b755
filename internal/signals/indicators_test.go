package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// generateTrend produces a chronological close series starting at base with a
// fixed per-day step.
func generateTrend(base, step float64, count int) []float64 {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = base + step*float64(i)
	}
	return closes
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		period   int
		expected float64
	}{
		{
			name:     "simple 3-day SMA",
			closes:   []float64{10, 20, 30},
			period:   3,
			expected: 20.0,
		},
		{
			name:     "trailing window only",
			closes:   []float64{100, 10, 20, 30},
			period:   3,
			expected: 20.0,
		},
		{
			name:     "short series divides by actual count",
			closes:   []float64{10, 20},
			period:   5,
			expected: 15.0,
		},
		{
			name:     "empty series",
			closes:   nil,
			period:   5,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SMA(tt.closes, tt.period)
			assert.InDelta(t, tt.expected, result, 0.0001)
		})
	}
}

func TestEMASeries(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	series := EMASeries(closes, 3)
	assert.Len(t, series, 3)
	// Seed is SMA of the first 3 values
	assert.InDelta(t, 2.0, series[0], 0.0001)
	// multiplier = 0.5: 2 + (4-2)*0.5 = 3; 3 + (5-3)*0.5 = 4
	assert.InDelta(t, 3.0, series[1], 0.0001)
	assert.InDelta(t, 4.0, series[2], 0.0001)

	assert.Nil(t, EMASeries([]float64{1, 2}, 3))
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		minRSI float64
		maxRSI float64
	}{
		{
			name:   "uptrend has high RSI",
			closes: generateTrend(50, 1.0, 40),
			minRSI: 60,
			maxRSI: 100,
		},
		{
			name:   "downtrend has low RSI",
			closes: generateTrend(90, -1.0, 40),
			minRSI: 0,
			maxRSI: 40,
		},
		{
			name:   "short series defaults to neutral 50",
			closes: generateTrend(50, 1.0, 10),
			minRSI: 50,
			maxRSI: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RSI(tt.closes, 14)
			assert.GreaterOrEqual(t, result, tt.minRSI)
			assert.LessOrEqual(t, result, tt.maxRSI)
		})
	}
}

func TestRSI_BoundedForLongSeries(t *testing.T) {
	// Mixed movement, series length >= 35
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3)
	}

	rsi := RSI(closes, 14)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)
}

func TestMACD(t *testing.T) {
	t.Run("histogram equals line minus signal", func(t *testing.T) {
		closes := generateTrend(100, 0.5, 80)
		line, signal, hist := MACD(closes, 12, 26, 9)
		assert.InDelta(t, line-signal, hist, 1e-9)
		// Steady uptrend: fast EMA above slow EMA
		assert.Greater(t, line, 0.0)
	})

	t.Run("short series defaults to zero triplet", func(t *testing.T) {
		line, signal, hist := MACD(generateTrend(100, 0.5, 20), 12, 26, 9)
		assert.Zero(t, line)
		assert.Zero(t, signal)
		assert.Zero(t, hist)
	})

	t.Run("signal undefined below 34 closes", func(t *testing.T) {
		line, signal, hist := MACD(generateTrend(100, 0.5, 30), 12, 26, 9)
		assert.NotZero(t, line)
		assert.Zero(t, signal)
		assert.InDelta(t, line, hist, 1e-9)
	})
}

func TestBollinger(t *testing.T) {
	t.Run("constant series collapses bands", func(t *testing.T) {
		closes := generateTrend(50, 0, 25)
		upper, middle, lower := Bollinger(closes, 20, 2)
		assert.InDelta(t, 50.0, middle, 0.0001)
		assert.InDelta(t, 50.0, upper, 0.0001)
		assert.InDelta(t, 50.0, lower, 0.0001)
	})

	t.Run("bands are symmetric around the middle", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100 + 10*math.Sin(float64(i)/2)
		}
		upper, middle, lower := Bollinger(closes, 20, 2)
		assert.Greater(t, upper, middle)
		assert.Less(t, lower, middle)
		assert.InDelta(t, upper-middle, middle-lower, 1e-9)
	})

	t.Run("short series defaults to zero triplet", func(t *testing.T) {
		upper, middle, lower := Bollinger(generateTrend(50, 1, 10), 20, 2)
		assert.Zero(t, upper)
		assert.Zero(t, middle)
		assert.Zero(t, lower)
	})
}

func TestClassifyRSI(t *testing.T) {
	tests := []struct {
		rsi      float64
		expected string
	}{
		{75, RSIOverbought},
		{70.001, RSIOverbought},
		{70, RSINeutral},
		{50, RSINeutral},
		{30, RSINeutral},
		{29.9, RSIOversold},
		{10, RSIOversold},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyRSI(tt.rsi), "rsi=%v", tt.rsi)
	}
}
