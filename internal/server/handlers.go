package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lhzhang/astock-advisor/internal/common"
	"github.com/lhzhang/astock-advisor/internal/interfaces"
	"github.com/lhzhang/astock-advisor/internal/models"
	"github.com/lhzhang/astock-advisor/internal/services/analyzer"
)

// analyzeRequestBody is the wire shape of POST /api/analyze. Code and Codes
// stay raw so a wrong-typed field is distinguishable from an absent one.
type analyzeRequestBody struct {
	Code        json.RawMessage     `json:"code"`
	Codes       json.RawMessage     `json:"codes"`
	HoldingInfo *models.HoldingInfo `json:"holdingInfo"`
}

const (
	errInvalidCode    = "请提供有效的股票代码 (code)"
	errInvalidCodes   = "请提供有效的股票代码列表 (codes)"
	errTooManyCodes   = "单次请求最多支持 %d 只股票"
	errBenchmarkDown  = "无法获取大盘数据，服务暂时不可用"
	errAnalysisFailed = "分析服务内部错误"
)

// handleRoot responds to GET / with a short service description.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "A-share advisor service %s\n\nPOST /api/analyze with {\"code\":\"600519\"} or {\"codes\":[...]}\n", common.GetVersion())
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleAnalyze runs the analysis pipeline for one symbol or a batch.
// Body: {code: string} or {codes: []string}, plus optional holdingInfo
// which applies only when a single symbol is requested.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var body analyzeRequestBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	codes, ok := s.resolveCodes(w, body)
	if !ok {
		return
	}

	var holding *models.HoldingInfo
	if len(codes) == 1 {
		holding = body.HoldingInfo
	}

	s.logger.Info().
		Strs("codes", codes).
		Bool("holding", holding != nil).
		Msg("Analysis request received")

	resp, err := s.analyzer.Analyze(r.Context(), interfaces.AnalyzeRequest{
		Codes:   codes,
		Holding: holding,
		Now:     s.now(),
	})
	if err != nil {
		if errors.Is(err, analyzer.ErrBenchmarkUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, errBenchmarkDown)
			return
		}
		s.logger.Error().Err(err).Msg("Analysis request failed")
		WriteError(w, http.StatusInternalServerError, errAnalysisFailed)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// resolveCodes validates the code/codes fields and returns the symbol list.
// The batch form takes precedence when both are supplied.
func (s *Server) resolveCodes(w http.ResponseWriter, body analyzeRequestBody) ([]string, bool) {
	if len(body.Codes) > 0 {
		var codes []string
		if err := json.Unmarshal(body.Codes, &codes); err != nil {
			WriteError(w, http.StatusBadRequest, errInvalidCodes)
			return nil, false
		}
		if len(codes) == 0 {
			WriteError(w, http.StatusBadRequest, errInvalidCodes)
			return nil, false
		}
		if max := s.config.Analyzer.MaxBatchSize; len(codes) > max {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf(errTooManyCodes, max))
			return nil, false
		}
		for _, code := range codes {
			if code == "" {
				WriteError(w, http.StatusBadRequest, errInvalidCodes)
				return nil, false
			}
		}
		return codes, true
	}

	if len(body.Code) > 0 {
		var code string
		if err := json.Unmarshal(body.Code, &code); err != nil || code == "" {
			WriteError(w, http.StatusBadRequest, errInvalidCode)
			return nil, false
		}
		return []string{code}, true
	}

	WriteError(w, http.StatusBadRequest, errInvalidCode)
	return nil, false
}
