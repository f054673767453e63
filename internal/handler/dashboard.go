package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GeneralMillz/polymarket-relay/internal/dashboard"
)

type DashboardBuilder interface {
	Build(ctx context.Context, slug, selected string) (dashboard.View, bool)
}

// DashboardHandler serves each tab as HTML and as JSON. The engine must have
// dashboard.Templates() installed with SetHTMLTemplate.
type DashboardHandler struct {
	Builder DashboardBuilder
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	r.GET("/", h.redirect)
	r.GET("/dashboard", h.redirect)
	r.GET("/dashboard/:tab", h.page)
	r.GET("/api/dashboard/:tab", h.view)
}

func (h *DashboardHandler) redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard/"+dashboard.DefaultTab())
}

func (h *DashboardHandler) page(c *gin.Context) {
	v, ok := h.build(c)
	if !ok {
		c.String(http.StatusNotFound, "unknown dashboard tab")
		return
	}
	c.HTML(http.StatusOK, dashboard.PageTemplate, v)
}

// @Summary Dashboard tab data
// @Description Builds one dashboard tab. Query failures and empty results are reported in the view's warning and error fields, not as HTTP errors.
// @Tags dashboard
// @Produce json
// @Param tab path string true "kalshi|manifold|polymarket|signals|schema|candles|orderbook|trades|events|notes"
// @Param id query string false "token or market id for candles, orderbook and trades"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/dashboard/{tab} [get]
func (h *DashboardHandler) view(c *gin.Context) {
	v, ok := h.build(c)
	if !ok {
		Error(c, http.StatusNotFound, "unknown dashboard tab", map[string]any{"tab": c.Param("tab")})
		return
	}
	Ok(c, v, nil)
}

func (h *DashboardHandler) build(c *gin.Context) (dashboard.View, bool) {
	if h.Builder == nil {
		return dashboard.View{}, false
	}
	tab := strings.ToLower(strings.TrimSpace(c.Param("tab")))
	return h.Builder.Build(c.Request.Context(), tab, strings.TrimSpace(c.Query("id")))
}
