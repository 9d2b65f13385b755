// Package models defines data structures for the advisor service
package models

// Candle represents a single daily trading bar.
// Invariant (trusted from source, not validated here):
// high >= max(open, close) >= min(open, close) >= low.
type Candle struct {
	Date     string  `json:"date"` // trading day, "2006-01-02"
	Open     float64 `json:"open"`
	Close    float64 `json:"close"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Volume   int64   `json:"volume"`
	Turnover float64 `json:"turnover"` // percent value, e.g. 0.12 for 0.12%
}

// HistorySeries holds the daily candle history for one symbol.
// Candles are chronological (insertion order = trading-day order) and
// never mutated after fetch.
type HistorySeries struct {
	Symbol  string   `json:"symbol"`
	Name    string   `json:"name"`
	Candles []Candle `json:"candles"`
}

// LastDate returns the date of the most recent candle, or empty string.
func (s *HistorySeries) LastDate() string {
	if s == nil || len(s.Candles) == 0 {
		return ""
	}
	return s.Candles[len(s.Candles)-1].Date
}

// Recent returns the trailing n candles (all of them when the series is shorter).
func (s *HistorySeries) Recent(n int) []Candle {
	if s == nil {
		return nil
	}
	if len(s.Candles) <= n {
		return s.Candles
	}
	return s.Candles[len(s.Candles)-n:]
}

// Closes returns the chronological close-price sequence.
func (s *HistorySeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}
