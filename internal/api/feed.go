package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/rickwphillips/commander-collector/internal/config"
	"github.com/rickwphillips/commander-collector/internal/constants"
	"github.com/rickwphillips/commander-collector/internal/domain"
)

// FeedClient reads result rows from an upstream tracker over HTTP.
type FeedClient struct {
	baseURL string
	token   string
	client  *fasthttp.Client
	limiter *rate.Limiter
	logger  zerolog.Logger

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo is the upstream's own view of our quota, from its response
// headers.
type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewFeedClient(cfg *config.Config, logger zerolog.Logger) *FeedClient {
	ratePerSec := cfg.FeedRatePerSec
	if ratePerSec <= 0 {
		ratePerSec = constants.FeedRatePerSecond
	}
	return &FeedClient{
		baseURL: strings.TrimRight(cfg.FeedURL, "/"),
		token:   cfg.FeedToken,
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.FeedMaxConns,
			ReadTimeout:         constants.FeedTimeout,
			WriteTimeout:        constants.FeedTimeout,
			MaxIdleConnDuration: time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		logger:  logger.With().Str("component", "feed").Logger(),
	}
}

func (c *FeedClient) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *FeedClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Limit"))); err == nil {
		c.rateLimit.Limit = v
	}
	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Remaining"))); err == nil {
		c.rateLimit.Remaining = v
	}
	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Reset"))); err == nil {
		c.rateLimit.Reset = v
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// ListResults fetches the full result history from {FEED_URL}/results.
func (c *FeedClient) ListResults(ctx context.Context) ([]domain.ResultRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.FeedTimeout)
	defer cancel()

	resp, err := doRequest[ResultsResponse](ctx, c, c.baseURL+"/results")
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ResultRow, 0, len(resp.Results))
	for i, fr := range resp.Results {
		row, err := fr.toDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid feed row %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	c.logger.Debug().
		Int("rows", len(rows)).
		Int("rate_limit_remaining", c.RateLimit().Remaining).
		Msg("fetched results from feed")
	return rows, nil
}

func doRequest[T any](ctx context.Context, client *FeedClient, url string) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if client.token != "" {
		req.Header.Set("Authorization", "Bearer "+client.token)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("feed request failed: %w", err)
		}
	} else if err := client.client.Do(req, resp); err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}

	client.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("feed error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return &result, nil
}
