package interfaces

import (
	"context"
	"time"

	"github.com/lhzhang/astock-advisor/internal/models"
)

// AnalyzeRequest carries the inputs for one analysis invocation.
// Codes holds 1..N symbols; Holding is accepted only for single-symbol
// requests and passed through opaque to the prompt.
type AnalyzeRequest struct {
	Codes   []string
	Holding *models.HoldingInfo
	Now     time.Time // request wall-clock time, injected for scene classification
}

// AnalyzerService drives the full per-request analysis pipeline.
type AnalyzerService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalyzeResponse, error)
}
