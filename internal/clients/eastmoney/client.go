// Package eastmoney provides a client for the eastmoney daily-kline and
// financial-flash endpoints
package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lhzhang/astock-advisor/internal/common"
	"github.com/lhzhang/astock-advisor/internal/interfaces"
	"github.com/lhzhang/astock-advisor/internal/models"
)

const (
	DefaultKlineBaseURL = "https://push2his.eastmoney.com"
	DefaultNewsBaseURL  = "http://newsapi.eastmoney.com"
	DefaultTimeout      = 30 * time.Second
	DefaultNewsTimeout  = 5 * time.Second
	DefaultRateLimit    = 5 // requests per second

	klineReferer = "https://quote.eastmoney.com/"
	newsReferer  = "https://www.eastmoney.com/"
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MarketFlashPrefix marks general flash items returned when no
	// symbol-specific news exists.
	MarketFlashPrefix = "[市场快讯] "

	maxDigestItems   = 5
	maxSummaryLength = 100
)

var (
	ajaxPrefixRe = regexp.MustCompile(`^var\s+ajaxResult=`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// Client implements the MarketDataClient and FlashNewsClient interfaces
type Client struct {
	klineBaseURL string
	newsBaseURL  string
	httpClient   *http.Client
	newsClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithKlineBaseURL sets the kline endpoint base URL
func WithKlineBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.klineBaseURL = baseURL
	}
}

// WithNewsBaseURL sets the flash-news endpoint base URL
func WithNewsBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.newsBaseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the kline HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithNewsTimeout sets the flash-news HTTP timeout
func WithNewsTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.newsClient.Timeout = timeout
	}
}

// NewClient creates a new eastmoney client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		klineBaseURL: DefaultKlineBaseURL,
		newsBaseURL:  DefaultNewsBaseURL,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		newsClient:   &http.Client{Timeout: DefaultNewsTimeout},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:       common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eastmoney API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// klineResponse is the wire shape of the daily-kline endpoint
type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// FetchHistory retrieves the full price-adjusted daily history for a symbol.
// The date range is unbounded: from inception to a far-future sentinel so
// that "end" acts as "now". Returns (nil, nil) when the collaborator has no
// data for the symbol.
func (c *Client) FetchHistory(ctx context.Context, symbol string, isIndex bool) (*models.HistorySeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("secid", ResolveSecID(symbol, isIndex))
	params.Set("fields1", "f1,f2,f3,f4,f5,f6,f7")
	// f51:date f52:open f53:close f54:high f55:low f56:volume f61:turnover
	params.Set("fields2", "f51,f52,f53,f54,f55,f56,f61")
	params.Set("klt", "101") // daily bars
	params.Set("fqt", "1")   // forward-adjusted for corporate actions
	params.Set("beg", "0")
	params.Set("end", "20500101")

	reqURL := fmt.Sprintf("%s/api/qt/stock/kline/get?%s", c.klineBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Referer", klineReferer)

	c.logger.Debug().Str("symbol", symbol).Str("secid", ResolveSecID(symbol, isIndex)).Msg("Fetching daily kline history")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/api/qt/stock/kline/get",
		}
	}

	var kr klineResponse
	if err := json.NewDecoder(resp.Body).Decode(&kr); err != nil {
		return nil, fmt.Errorf("failed to decode kline response: %w", err)
	}

	if kr.Data == nil || len(kr.Data.Klines) == 0 {
		return nil, nil
	}

	series := &models.HistorySeries{
		Symbol:  kr.Data.Code,
		Name:    kr.Data.Name,
		Candles: make([]models.Candle, len(kr.Data.Klines)),
	}
	for i, line := range kr.Data.Klines {
		series.Candles[i] = parseKline(line)
	}

	return series, nil
}

// parseKline parses one comma-delimited kline record into a Candle.
// Malformed decimal fields yield NaN; indicator math propagates NaN rather
// than crashing. A malformed volume field yields 0.
func parseKline(line string) models.Candle {
	fields := make([]string, 7)
	for i, f := range strings.Split(line, ",") {
		if i >= len(fields) {
			break
		}
		fields[i] = f
	}

	return models.Candle{
		Date:     fields[0],
		Open:     parseFloat(fields[1]),
		Close:    parseFloat(fields[2]),
		High:     parseFloat(fields[3]),
		Low:      parseFloat(fields[4]),
		Volume:   parseInt(fields[5]),
		Turnover: parseFloat(fields[6]),
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// flashItem is the wire shape of one financial-flash entry
type flashItem struct {
	Title    string `json:"title"`
	Digest   string `json:"digest"`
	ShowTime string `json:"showtime"`
}

// flashResponse is the wire shape of the flash-news endpoint
type flashResponse struct {
	LivesList []flashItem `json:"LivesList"`
}

// FetchNews retrieves the recent financial-flash list and filters it into a
// sentiment digest for a symbol: case-insensitive substring match of the
// symbol within title+body. When no item matches, the 5 most recent general
// items are returned with the market-flash marker prefixed to each title.
func (c *Client) FetchNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	reqURL := fmt.Sprintf("%s/kuaixun/v1/getlist_102_ajaxResult_50_1_.html", c.newsBaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Referer", newsReferer)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("symbol", symbol).Msg("Fetching flash news")

	resp, err := c.newsClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/kuaixun/v1",
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flash response: %w", err)
	}

	// The endpoint wraps the JSON payload in a JS assignment
	raw = ajaxPrefixRe.ReplaceAll(raw, nil)

	var fr flashResponse
	if err := json.Unmarshal(raw, &fr); err != nil {
		return nil, fmt.Errorf("failed to decode flash response: %w", err)
	}

	return filterDigest(symbol, fr.LivesList), nil
}

// filterDigest applies the relevance policy to the raw flash list.
func filterDigest(symbol string, items []flashItem) []models.NewsItem {
	needle := strings.ToLower(symbol)

	var relevant []flashItem
	for _, item := range items {
		content := strings.ToLower(item.Title + item.Digest)
		if strings.Contains(content, needle) {
			relevant = append(relevant, item)
		}
	}

	generic := len(relevant) == 0
	if generic {
		relevant = items
	}

	if len(relevant) > maxDigestItems {
		relevant = relevant[:maxDigestItems]
	}

	digest := make([]models.NewsItem, 0, len(relevant))
	for _, item := range relevant {
		title := item.Title
		if generic {
			title = MarketFlashPrefix + title
		}
		digest = append(digest, models.NewsItem{
			Title:   title,
			Date:    item.ShowTime,
			Summary: summarize(item.Digest),
		})
	}
	return digest
}

// summarize strips HTML tags and truncates the body to the summary limit.
func summarize(body string) string {
	clean := htmlTagRe.ReplaceAllString(body, "")
	runes := []rune(clean)
	if len(runes) > maxSummaryLength {
		runes = runes[:maxSummaryLength]
	}
	return string(runes) + "..."
}

// Ensure Client implements the client interfaces
var (
	_ interfaces.MarketDataClient = (*Client)(nil)
	_ interfaces.FlashNewsClient  = (*Client)(nil)
)
