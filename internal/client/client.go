package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sharpshooter/ingestion/internal/metrics"
	"sharpshooter/ingestion/internal/ratelimit"

	"github.com/rs/zerolog/log"
)

// Stats endpoints used by the ingestion job.
const (
	EndpointCommonAllPlayers = "commonallplayers"
	EndpointPlayerGameLog    = "playergamelog"
)

const maxErrorBody = 512

// Doer is the subset of *http.Client the stats client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the stats.nba.com API client.
// Every request goes through one shared Limiter; the client never retries.
type Client struct {
	baseURL    string
	httpClient Doer
	limiter    *ratelimit.Limiter
}

// NewClient creates a stats API client enforcing interval between requests.
func NewClient(baseURL string, timeout, interval time.Duration) *Client {
	return NewClientWith(baseURL, &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}, ratelimit.New(interval))
}

// NewClientWith builds a client from an explicit HTTP doer and limiter.
func NewClientWith(baseURL string, httpClient Doer, limiter *ratelimit.Limiter) *Client {
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// Limiter exposes the limiter shared by all calls of this client.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}

// Fetch performs one rate-limited GET against endpoint and returns the raw body.
// Failures are *TransientError or *PermanentError; context cancellation is returned as is.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setStatsHeaders(req)

	log.Debug().
		Str("endpoint", endpoint).
		Str("url", reqURL).
		Msg("Making API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, &TransientError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		metrics.RecordAPICall(endpoint, status, time.Since(start).Seconds())
		if err != nil {
			return nil, &TransientError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
		}

		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	metrics.RecordAPICall(endpoint, status, time.Since(start).Seconds())
	cause := errors.New(strings.TrimSpace(string(snippet)))

	if isRetryableStatus(resp.StatusCode) {
		return nil, &TransientError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: cause}
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &PermanentError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: cause}
	}
	return nil, &TransientError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: cause}
}

func isRetryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	default:
		return false
	}
}

// setStatsHeaders mimics a browser; stats.nba.com drops requests without them.
func setStatsHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}
