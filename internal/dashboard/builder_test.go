package dashboard

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
	"github.com/GeneralMillz/polymarket-relay/internal/repository"
	"github.com/GeneralMillz/polymarket-relay/internal/service"
)

func TestBuild_UnknownTab(t *testing.T) {
	b := &Builder{Query: &stubWarehouse{}}
	if _, ok := b.Build(context.Background(), "nope", ""); ok {
		t.Fatalf("expected unknown tab")
	}
}

func TestBuild_MarketTab(t *testing.T) {
	wh := &stubWarehouse{
		lastUpdated: "2025-09-13 10:00:00",
		rows: map[repository.Table]service.Table{
			repository.KalshiMarkets: {Columns: []string{"ts_utc", "ticker"}, Rows: [][]any{{time.Now(), "ABC"}}},
		},
	}
	b := &Builder{Query: wh}

	v, ok := b.Build(context.Background(), "kalshi", "")
	if !ok || v.Table == nil || v.Warning != "" {
		t.Fatalf("view=%#v", v)
	}
	if v.LastUpdated != "2025-09-13 10:00:00" {
		t.Fatalf("last_updated=%q", v.LastUpdated)
	}

	v, _ = b.Build(context.Background(), "manifold", "")
	if v.Table != nil || v.Warning != "No Manifold data available." {
		t.Fatalf("empty view=%#v", v)
	}
}

func TestBuild_MarketTabError(t *testing.T) {
	wh := &stubWarehouse{rows: map[repository.Table]service.Table{
		repository.PolymarketMarkets: {Columns: []string{}, Rows: [][]any{}, Error: "relation does not exist"},
	}}
	v, _ := (&Builder{Query: wh}).Build(context.Background(), "polymarket", "")
	if v.Table != nil || v.Warning == "" || v.Error != "relation does not exist" {
		t.Fatalf("view=%#v", v)
	}
}

func TestBuild_CandlesSelector(t *testing.T) {
	ts := time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)
	wh := &stubWarehouse{
		ids: map[repository.Selector][]string{repository.CandleTokenIDs: {"t2", "t1"}},
		series: map[repository.Series]service.Table{
			repository.CandleSeries: {
				Columns: []string{"ts_utc", "open", "high", "low", "close", "volume"},
				Rows:    [][]any{{ts, 0.4, 0.5, 0.3, "0.45", int64(1200)}},
			},
		},
	}
	b := &Builder{Query: wh}

	v, _ := b.Build(context.Background(), "candles", "")
	if v.Selector == nil || v.Selector.Selected != "t2" || wh.seriesValue != "t2" {
		t.Fatalf("default selection: selector=%#v value=%q", v.Selector, wh.seriesValue)
	}
	if len(v.Charts) != 2 || v.Charts[0].Kind != LineChart || v.Charts[1].Kind != BarChart {
		t.Fatalf("charts=%#v", v.Charts)
	}
	closeSeries := v.Charts[0].Series[1]
	if closeSeries.Name != "close" || closeSeries.Values[0] == nil || *closeSeries.Values[0] != 0.45 {
		t.Fatalf("close series=%#v", closeSeries)
	}
	if v.Charts[0].Labels[0] != "2025-09-13 00:00:00" {
		t.Fatalf("labels=%v", v.Charts[0].Labels)
	}

	v, _ = b.Build(context.Background(), "candles", "t1")
	if v.Selector.Selected != "t1" || wh.seriesValue != "t1" {
		t.Fatalf("explicit selection ignored: %#v", v.Selector)
	}

	v, _ = b.Build(context.Background(), "candles", "not-listed")
	if v.Selector.Selected != "t2" {
		t.Fatalf("unlisted id must fall back to first option, got %q", v.Selector.Selected)
	}
}

func TestBuild_NoSelectorOptions(t *testing.T) {
	v, _ := (&Builder{Query: &stubWarehouse{}}).Build(context.Background(), "trades", "")
	if v.Warning == "" || len(v.Charts) != 0 {
		t.Fatalf("view=%#v", v)
	}
}

func TestBuild_OrderbookDerived(t *testing.T) {
	ts := time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)
	wh := &stubWarehouse{
		ids: map[repository.Selector][]string{repository.OrderbookTokenIDs: {"t1"}},
		series: map[repository.Series]service.Table{
			repository.OrderbookSeries: {
				Columns: []string{"ts_utc", "bid_price", "ask_price", "bid_size", "ask_size"},
				Rows: [][]any{
					{ts, "0.1", "0.3", "100.5", "200.25"},
					{ts.Add(time.Hour), nil, "0.31", "10", "5"},
				},
			},
		},
	}
	v, _ := (&Builder{Query: wh}).Build(context.Background(), "orderbook", "")
	if len(v.Charts) != 2 {
		t.Fatalf("charts=%#v", v.Charts)
	}
	spreadSeries := v.Charts[0].Series[2]
	if spreadSeries.Name != "spread" || spreadSeries.Values[0] == nil || *spreadSeries.Values[0] != 0.2 {
		t.Fatalf("spread=%#v", spreadSeries)
	}
	if spreadSeries.Values[1] != nil {
		t.Fatalf("spread with missing bid must be null")
	}
	liq := v.Charts[1].Series[0]
	if liq.Name != "liquidity" || *liq.Values[0] != 300.75 || *liq.Values[1] != 15 {
		t.Fatalf("liquidity=%#v", liq)
	}
}

func TestWithDerived_ExactDecimal(t *testing.T) {
	tbl := service.Table{
		Columns: []string{"bid_price", "ask_price"},
		Rows:    [][]any{{0.1, 0.3}},
	}
	out := withDerived(tbl, spread)
	got := out.Rows[0][2].(decimal.Decimal)
	if !got.Equal(decimal.RequireFromString("0.2")) {
		t.Fatalf("spread=%s want 0.2", got)
	}
}

func TestBuild_SchemaTab(t *testing.T) {
	wh := &stubWarehouse{status: service.SchemaStatusResult{
		TotalMarkets:  10,
		LastMigration: "2025-09-15 12:00:00",
		DeltaDays:     5,
		Freshness:     service.Aging,
	}}
	v, _ := (&Builder{Query: wh}).Build(context.Background(), "schema", "")
	if v.Status == nil || v.Status.FreshnessLabel != "🟡 Aging" {
		t.Fatalf("status=%#v", v.Status)
	}

	wh.status = service.SchemaStatusResult{Error: "schema status row missing"}
	v, _ = (&Builder{Query: wh}).Build(context.Background(), "schema", "")
	if v.Status != nil || !strings.Contains(v.Warning, "schema status row missing") {
		t.Fatalf("view=%#v", v)
	}
}

func TestBuild_SignalsAndEvents(t *testing.T) {
	name := "Election"
	events := make([]models.Event, 0, 7)
	for i := 0; i < 7; i++ {
		events = append(events, models.Event{EventID: "e", Name: &name, Markets: datatypes.JSON(`[ {"id": "m1"} ]`)})
	}
	wh := &stubWarehouse{
		signals: service.SignalsResult{Rows: []models.MarketSignal{{Ticker: "ABC"}}},
		events:  service.EventsResult{Rows: events},
	}
	b := &Builder{Query: wh}

	v, _ := b.Build(context.Background(), "signals", "")
	if v.Table == nil || len(v.Table.Rows) != 1 {
		t.Fatalf("signals view=%#v", v)
	}

	v, _ = b.Build(context.Background(), "events", "")
	if v.Table == nil || len(v.Table.Rows) != 7 || v.Preview == nil || len(v.Preview.Rows) != previewRows {
		t.Fatalf("events view=%#v", v)
	}
	if got := v.Table.Rows[0][v.Table.ColumnIndex("markets")]; got != `[{"id":"m1"}]` {
		t.Fatalf("markets=%v", got)
	}

	wh.signals = service.SignalsResult{Rows: []models.MarketSignal{}, Error: "boom"}
	v, _ = b.Build(context.Background(), "signals", "")
	if v.Table != nil || v.Error != "boom" {
		t.Fatalf("signals error view=%#v", v)
	}
}

func TestBuild_Notes(t *testing.T) {
	v, _ := (&Builder{Query: &stubWarehouse{}, Notes: []string{"a", "b"}}).Build(context.Background(), "notes", "")
	if len(v.Notes) != 2 || v.Warning != "" {
		t.Fatalf("view=%#v", v)
	}
}

func TestTemplates_RenderEveryTab(t *testing.T) {
	ts := time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)
	wh := &stubWarehouse{
		ids: map[repository.Selector][]string{repository.TradeMarketIDs: {"m1"}},
		series: map[repository.Series]service.Table{
			repository.TradeSeries: {
				Columns: []string{"ts_utc", "price", "size", "side", "trade_id"},
				Rows:    [][]any{{ts, 0.5, nil, "buy", "x1"}},
			},
		},
		rows: map[repository.Table]service.Table{
			repository.KalshiMarkets: {Columns: []string{"ts_utc", "ticker"}, Rows: [][]any{{ts, nil}}},
		},
	}
	b := &Builder{Query: wh, Notes: []string{"<script>x</script>"}}
	tmpl := Templates()
	for _, tab := range Tabs() {
		v, ok := b.Build(context.Background(), tab.Slug, "")
		if !ok {
			t.Fatalf("tab %s not built", tab.Slug)
		}
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, PageTemplate, v); err != nil {
			t.Fatalf("render %s: %v", tab.Slug, err)
		}
		if tab.Slug == "notes" && strings.Contains(buf.String(), "<script>x</script>") {
			t.Fatalf("notes not escaped")
		}
	}
}
