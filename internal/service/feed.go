package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	polymarketgamma "github.com/GeneralMillz/polymarket-relay/internal/client/polymarket/gamma"
)

// FeedOutcome tags how a feed request was answered. It is for logs and the
// ops log only; callers of /polymarket-feed always see 200 and an array.
type FeedOutcome string

const (
	FeedOK             FeedOutcome = "ok"
	FeedEmpty          FeedOutcome = "empty"
	FeedTransportError FeedOutcome = "transport_error"
	FeedTimeout        FeedOutcome = "timeout"
	FeedStatusError    FeedOutcome = "status_error"
	FeedDecodeError    FeedOutcome = "decode_error"
	FeedShapeError     FeedOutcome = "shape_error"
)

// Degraded reports whether the outcome hides an upstream problem.
func (o FeedOutcome) Degraded() bool {
	return o != FeedOK && o != FeedEmpty
}

type MarketFetcher interface {
	FetchMarkets(ctx context.Context) (*polymarketgamma.FetchResult, error)
}

type FeedService struct {
	Client MarketFetcher
	Logger *zap.Logger
}

type FeedResult struct {
	Markets []any
	Outcome FeedOutcome
	Elapsed time.Duration
	Err     error
}

// Markets fetches the upstream listing and normalizes it. It never returns
// a nil slice; every failure collapses to an empty list plus an outcome tag.
func (s *FeedService) Markets(ctx context.Context) FeedResult {
	logger := s.logger()
	start := time.Now()
	if s.Client == nil {
		err := errors.New("feed client unavailable")
		logger.Error("polymarket feed degraded", zap.String("outcome", string(FeedTransportError)), zap.Error(err))
		return FeedResult{Markets: []any{}, Outcome: FeedTransportError, Err: err}
	}

	res, err := s.Client.FetchMarkets(ctx)
	if err != nil {
		outcome := outcomeForFetchError(err)
		elapsed := time.Since(start)
		logger.Error("polymarket feed degraded",
			zap.String("outcome", string(outcome)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
			zap.Stack("stack"),
		)
		return FeedResult{Markets: []any{}, Outcome: outcome, Elapsed: elapsed, Err: err}
	}

	value, err := decodeJSON(res.Body)
	if err != nil {
		elapsed := time.Since(start)
		logger.Error("polymarket feed degraded",
			zap.String("outcome", string(FeedDecodeError)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
			zap.Stack("stack"),
		)
		return FeedResult{Markets: []any{}, Outcome: FeedDecodeError, Elapsed: elapsed, Err: err}
	}

	markets := NormalizeMarkets(logger, value)
	elapsed := time.Since(start)
	outcome := FeedOK
	if _, ok := extractMarkets(value); !ok {
		outcome = FeedShapeError
	} else if len(markets) == 0 {
		outcome = FeedEmpty
	}
	logger.Debug("polymarket feed served",
		zap.String("outcome", string(outcome)),
		zap.Int("markets", len(markets)),
		zap.Duration("elapsed", elapsed),
	)
	return FeedResult{Markets: markets, Outcome: outcome, Elapsed: elapsed}
}

func (s *FeedService) logger() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func outcomeForFetchError(err error) FeedOutcome {
	var fe *polymarketgamma.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case polymarketgamma.FailureTimeout:
			return FeedTimeout
		case polymarketgamma.FailureStatus:
			return FeedStatusError
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FeedTimeout
	}
	return FeedTransportError
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number
// so they are written back unchanged.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode feed body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode feed body: trailing data after JSON value")
	}
	return value, nil
}
