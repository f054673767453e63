package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Polymarket Relay

Read-only relay in front of the prediction-market warehouse.

## Routes

- GET /polymarket-feed: Gamma market listing as a JSON array (always 200)
- GET /dashboard/{tab}: HTML dashboard
- GET /api/dashboard/{tab}: same view as JSON
- GET /healthz
- GET /readyz
- GET /swagger/index.html

Tabs: kalshi, manifold, polymarket, signals, schema, candles, orderbook,
trades, events, notes. Candles, orderbook and trades take ?id=.
`)
	})
}
