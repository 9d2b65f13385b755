package models

import "time"

// MACDValue holds the MACD line, signal line, and histogram triplet.
type MACDValue struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerValue holds the Bollinger band triplet.
type BollingerValue struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// FactorSnapshot holds the per-symbol factor values computed fresh for each
// request. Values are unrounded; formatting happens at prompt-rendering time.
type FactorSnapshot struct {
	RSI14        float64        `json:"rsi14"`
	MACD         MACDValue      `json:"macd"`
	Bollinger    BollingerValue `json:"bollinger"`
	MA5          float64        `json:"ma5"`
	MA12         float64        `json:"ma12"`
	MA20         float64        `json:"ma20"`
	MA72         float64        `json:"ma72"`
	AvgTurnover5 float64        `json:"avg_turnover_5"`
	VolumeRatio  float64        `json:"volume_ratio"`
	LastClose    float64        `json:"last_close"`
}

// HoldingInfo is optional position context passed through to the prompt
// untouched; the engine does not interpret it.
type HoldingInfo struct {
	Status   string  `json:"status"`
	Cost     float64 `json:"cost"`
	Quantity float64 `json:"quantity"`
	Profit   float64 `json:"profit"`
}

// AnalysisResult is the per-symbol outcome: advice on success, error text on
// failure. One entry per requested symbol, in request order.
type AnalysisResult struct {
	Code   string `json:"code"`
	Name   string `json:"name,omitempty"`
	Advice string `json:"advice,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AnalyzeResponse is the final response envelope for /api/analyze.
type AnalyzeResponse struct {
	Success       bool             `json:"success"`
	Timestamp     time.Time        `json:"timestamp"`
	BenchmarkDate string           `json:"benchmark_date"`
	Results       []AnalysisResult `json:"results"`
	FinalReport   string           `json:"finalReport"`
}
