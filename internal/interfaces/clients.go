// Package interfaces defines service contracts for the advisor
package interfaces

import (
	"context"

	"github.com/lhzhang/astock-advisor/internal/models"
)

// MarketDataClient retrieves daily candle history from the market-data collaborator.
type MarketDataClient interface {
	// FetchHistory retrieves the full daily history for a symbol.
	// isIndex marks benchmark-index requests for market-identifier resolution.
	FetchHistory(ctx context.Context, symbol string, isIndex bool) (*models.HistorySeries, error)
}

// FlashNewsClient retrieves the recent financial-flash list and filters it
// into a per-symbol sentiment digest.
type FlashNewsClient interface {
	// FetchNews returns at most 5 digest entries for a symbol. Failures
	// degrade to an empty digest; sentiment never blocks analysis.
	FetchNews(ctx context.Context, symbol string) ([]models.NewsItem, error)
}

// AdvisoryClient generates advisory text from a rendered prompt.
type AdvisoryClient interface {
	GenerateAdvice(ctx context.Context, prompt string) (string, error)
}
