package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GeneralMillz/polymarket-relay/internal/service"
)

type MarketFeed interface {
	Markets(ctx context.Context) service.FeedResult
}

type FeedHandler struct {
	Service  MarketFeed
	Reporter service.OpsReporter
	Logger   *zap.Logger
}

func (h *FeedHandler) Register(r *gin.Engine) {
	r.GET("/polymarket-feed", h.polymarketFeed)
}

// @Summary Polymarket market feed
// @Description Proxies the Gamma market listing as a JSON array. Always answers 200; upstream failures yield an empty array.
// @Tags feed
// @Produce json
// @Success 200 {array} object
// @Router /polymarket-feed [get]
func (h *FeedHandler) polymarketFeed(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	res := h.Service.Markets(c.Request.Context())
	markets := res.Markets
	if markets == nil {
		markets = []any{}
	}
	if res.Outcome.Degraded() {
		h.report(c, res)
	}
	c.JSON(http.StatusOK, markets)
}

func (h *FeedHandler) report(c *gin.Context, res service.FeedResult) {
	if h.Reporter == nil {
		return
	}
	details := map[string]any{
		"outcome":    string(res.Outcome),
		"elapsed":    res.Elapsed.String(),
		"request_id": c.GetString(requestIDKey),
	}
	if res.Err != nil {
		details["error"] = res.Err.Error()
	}
	reporter := h.Reporter
	logger := h.Logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := reporter.Report(ctx, "relay_feed_degraded", "warn", details); err != nil && logger != nil {
			logger.Debug("ops log report failed", zap.Error(err))
		}
	}()
}
