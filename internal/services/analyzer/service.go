// Package analyzer drives the per-request analysis pipeline: benchmark
// context, concurrent per-symbol fetch and indicator computation, prompt
// synthesis, and the advisory call.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lhzhang/astock-advisor/internal/common"
	"github.com/lhzhang/astock-advisor/internal/interfaces"
	"github.com/lhzhang/astock-advisor/internal/models"
	"github.com/lhzhang/astock-advisor/internal/signals"
)

// ErrBenchmarkUnavailable indicates the benchmark-index fetch failed; the
// whole request is unserviceable without it.
var ErrBenchmarkUnavailable = errors.New("benchmark index data unavailable")

// Scene notes attached once to the response envelope based on request hour.
const (
	scenePreMarket = "【盘前预警】当前为开盘前，以下建议基于上一交易日收盘数据，适用于今日操作。"
	scenePostClose = "【盘后复盘】今日交易已结束，以下建议适用于下一交易日。"
	sceneIntraday  = "【盘中参考】当前市场正在交易，数据可能存在波动。"
)

const errMissingHistory = "数据获取失败，请检查代码是否正确。"

// Service implements interfaces.AnalyzerService.
type Service struct {
	market    interfaces.MarketDataClient
	news      interfaces.FlashNewsClient
	advisory  interfaces.AdvisoryClient
	logger    *common.Logger
	benchmark string
}

// NewService creates the analyzer service. benchmarkSymbol is the index used
// as the market-context baseline (e.g. "000001" for the Shanghai Composite).
func NewService(
	market interfaces.MarketDataClient,
	news interfaces.FlashNewsClient,
	advisory interfaces.AdvisoryClient,
	benchmarkSymbol string,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		market:    market,
		news:      news,
		advisory:  advisory,
		logger:    logger,
		benchmark: benchmarkSymbol,
	}
}

// SceneNote classifies the request wall-clock hour into the advisory scene.
func SceneNote(now time.Time) string {
	switch {
	case now.Hour() < 9:
		return scenePreMarket
	case now.Hour() >= 15:
		return scenePostClose
	default:
		return sceneIntraday
	}
}

// Analyze runs the full pipeline for all requested symbols. Per-symbol
// failures become error entries; only a benchmark failure aborts the request.
func (s *Service) Analyze(ctx context.Context, req interfaces.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	benchmarkSeries, err := s.market.FetchHistory(ctx, s.benchmark, true)
	if err != nil {
		s.logger.Error().Err(err).Str("benchmark", s.benchmark).Msg("Benchmark fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrBenchmarkUnavailable, err)
	}
	if benchmarkSeries == nil || len(benchmarkSeries.Candles) == 0 {
		return nil, ErrBenchmarkUnavailable
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	benchmarkDate := benchmarkSeries.LastDate()
	sceneNote := SceneNote(now)

	finalReport := fmt.Sprintf("**数据基准日:** %s\n\n", benchmarkDate)
	finalReport += fmt.Sprintf("**报告生成时间:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	finalReport += fmt.Sprintf("**当前场景:** %s\n\n", sceneNote)

	benchmarkCloses := closesOf(benchmarkSeries.Recent(20))

	// Concurrent fan-out across symbols; results keep request order. The
	// symbol cap is enforced at the transport layer and the market client's
	// rate limiter paces the upstream calls.
	results := make([]models.AnalysisResult, len(req.Codes))
	var wg sync.WaitGroup
	for i, code := range req.Codes {
		wg.Add(1)
		go func(idx int, symbol string) {
			defer wg.Done()
			results[idx] = s.analyzeSymbol(ctx, symbol, benchmarkCloses, req.Holding)
		}(i, code)
	}
	wg.Wait()

	return &models.AnalyzeResponse{
		Success:       true,
		Timestamp:     now.UTC(),
		BenchmarkDate: benchmarkDate,
		Results:       results,
		FinalReport:   finalReport,
	}, nil
}

// analyzeSymbol runs history and news fetches concurrently, computes the
// factor snapshot, renders the prompt, and requests advice. A news failure
// degrades to an empty sentiment digest; a history failure is terminal for
// the symbol.
func (s *Service) analyzeSymbol(
	ctx context.Context,
	symbol string,
	benchmarkCloses []float64,
	holding *models.HoldingInfo,
) models.AnalysisResult {
	var (
		series  *models.HistorySeries
		histErr error
		news    []models.NewsItem
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		series, histErr = s.market.FetchHistory(ctx, symbol, false)
	}()
	go func() {
		defer wg.Done()
		items, err := s.news.FetchNews(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("News fetch failed, continuing without sentiment")
			return
		}
		news = items
	}()
	wg.Wait()

	if histErr != nil || series == nil || len(series.Candles) == 0 {
		if histErr != nil {
			s.logger.Error().Err(histErr).Str("symbol", symbol).Msg("History fetch failed")
		}
		return models.AnalysisResult{Code: symbol, Error: errMissingHistory}
	}

	snapshot := signals.Compute(series)
	prompt := RenderPrompt(symbol, series.Name, snapshot, series.Recent(20), benchmarkCloses, news, holding)

	advice, err := s.advisory.GenerateAdvice(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Advisory call failed")
		// Advisory failure still yields a result entry; the failure text
		// takes the advice slot so the caller sees one entry per symbol.
		return models.AnalysisResult{
			Code:   symbol,
			Name:   series.Name,
			Advice: fmt.Sprintf("AI 深度因子分析出错: %v", err),
		}
	}

	return models.AnalysisResult{Code: symbol, Name: series.Name, Advice: advice}
}

func closesOf(candles []models.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

var _ interfaces.AnalyzerService = (*Service)(nil)
