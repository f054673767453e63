package polymarketgamma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://gamma-api.polymarket.com"
	DefaultMarketsPath = "/markets"

	maxBodyBytes = 32 << 20
)

type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureTimeout   FailureKind = "timeout"
	FailureStatus    FailureKind = "status"
)

// FetchError reports why a market-listing fetch did not produce a 2xx body.
type FetchError struct {
	Kind    FailureKind
	Status  int
	Body    string
	Elapsed time.Duration
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureStatus:
		return fmt.Sprintf("gamma markets http %d after %s: %s", e.Status, e.Elapsed, e.Body)
	default:
		return fmt.Sprintf("gamma markets %s failure after %s: %v", e.Kind, e.Elapsed, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

type FetchResult struct {
	Body    []byte
	Status  int
	Elapsed time.Duration
}

// FeedClient issues a single GET against the configured market listing.
// It never retries; the bound on the call is httpClient.Timeout.
type FeedClient struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewFeedClient(httpClient *http.Client, baseURL, marketsPath string, logger *zap.Logger) *FeedClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if marketsPath == "" {
		marketsPath = DefaultMarketsPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedClient{
		url:        strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(marketsPath, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *FeedClient) URL() string { return c.url }

func (c *FeedClient) FetchMarkets(ctx context.Context) (*FetchResult, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FailureTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fe := &FetchError{Kind: classify(err), Elapsed: time.Since(start), Err: err}
		c.logger.Warn("gamma markets fetch failed",
			zap.String("url", c.url),
			zap.String("kind", string(fe.Kind)),
			zap.Duration("duration", fe.Elapsed),
			zap.Error(err),
		)
		return nil, fe
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	if err != nil {
		fe := &FetchError{Kind: classify(err), Status: resp.StatusCode, Elapsed: elapsed, Err: fmt.Errorf("failed to read response: %w", err)}
		c.logger.Warn("gamma markets read failed",
			zap.String("url", c.url),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, fe
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("gamma markets non-2xx",
			zap.String("url", c.url),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", elapsed),
		)
		return nil, &FetchError{Kind: FailureStatus, Status: resp.StatusCode, Body: truncate(string(body), 512), Elapsed: elapsed}
	}

	c.logger.Info("gamma markets fetched",
		zap.String("url", c.url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", elapsed),
	)
	return &FetchResult{Body: body, Status: resp.StatusCode, Elapsed: elapsed}, nil
}

func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailureTimeout
	}
	return FailureTransport
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
