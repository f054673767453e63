package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/GeneralMillz/polymarket-relay/internal/dashboard"
)

type stubBuilder struct {
	lastSlug string
	lastID   string
}

func (s *stubBuilder) Build(ctx context.Context, slug, selected string) (dashboard.View, bool) {
	s.lastSlug, s.lastID = slug, selected
	tab, ok := dashboard.LookupTab(slug)
	if !ok {
		return dashboard.View{}, false
	}
	return dashboard.View{Tab: tab, Tabs: dashboard.Tabs(), Heading: tab.Title, Warning: "No data"}, true
}

func newDashboardEngine(b DashboardBuilder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(dashboard.Templates())
	(&DashboardHandler{Builder: b}).Register(r)
	return r
}

func TestDashboard_Redirects(t *testing.T) {
	r := newDashboardEngine(&stubBuilder{})
	for _, p := range []string{"/", "/dashboard"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard/kalshi" {
			t.Fatalf("%s: status=%d location=%q", p, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestDashboard_HTML(t *testing.T) {
	b := &stubBuilder{}
	r := newDashboardEngine(b)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/candles?id=tok1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if b.lastSlug != "candles" || b.lastID != "tok1" {
		t.Fatalf("slug=%q id=%q", b.lastSlug, b.lastID)
	}
	if !strings.Contains(w.Body.String(), "No data") {
		t.Fatalf("warning not rendered")
	}
}

func TestDashboard_JSON(t *testing.T) {
	r := newDashboardEngine(&stubBuilder{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/schema", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Code int `json:"code"`
		Data struct {
			Tab     dashboard.Tab `json:"tab"`
			Warning string        `json:"warning"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != 0 || body.Data.Tab.Slug != "schema" || body.Data.Warning != "No data" {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestDashboard_UnknownTab(t *testing.T) {
	r := newDashboardEngine(&stubBuilder{})
	for _, p := range []string{"/dashboard/nope", "/api/dashboard/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status=%d want 404", p, w.Code)
		}
	}
}
