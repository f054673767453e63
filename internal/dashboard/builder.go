package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
	"github.com/GeneralMillz/polymarket-relay/internal/repository"
	"github.com/GeneralMillz/polymarket-relay/internal/service"
)

// Warehouse is the query surface the dashboard reads through. Every method
// reports failures as data.
type Warehouse interface {
	LastUpdated(ctx context.Context, table repository.Table) string
	LoadRows(ctx context.Context, table repository.Table, limit int) service.Table
	DistinctIDs(ctx context.Context, selector repository.Selector, limit int) []string
	FilteredSeries(ctx context.Context, series repository.Series, value string) service.Table
	SchemaStatus(ctx context.Context) service.SchemaStatusResult
	Signals(ctx context.Context) service.SignalsResult
	Events(ctx context.Context, limit int) service.EventsResult
}

const previewRows = 5

var freshnessLabels = map[service.Freshness]string{
	service.Fresh: "🟢 Fresh",
	service.Aging: "🟡 Aging",
	service.Stale: "🔴 Stale",
}

// Selector is the id picker of a time-series tab.
type Selector struct {
	Label    string   `json:"label"`
	Param    string   `json:"param"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

type StatusPanel struct {
	service.SchemaStatusResult
	FreshnessLabel string `json:"freshness_label"`
}

// View is everything one tab renders. Unused parts stay nil.
type View struct {
	Tab         Tab            `json:"tab"`
	Tabs        []Tab          `json:"-"`
	Heading     string         `json:"heading"`
	LastUpdated string         `json:"last_updated,omitempty"`
	Selector    *Selector      `json:"selector,omitempty"`
	Table       *service.Table `json:"table,omitempty"`
	Charts      []Chart        `json:"charts,omitempty"`
	Status      *StatusPanel   `json:"status,omitempty"`
	Notes       []string       `json:"notes,omitempty"`
	Preview     *service.Table `json:"preview,omitempty"`
	Warning     string         `json:"warning,omitempty"`
	Error       string         `json:"error,omitempty"`
}

type Builder struct {
	Query         Warehouse
	Logger        *zap.Logger
	RowLimit      int
	SelectorLimit int
	Notes         []string
}

// Build assembles the view for slug. selected is the requested id for tabs
// with a selector; an id that is not among the options falls back to the
// first option. ok is false for an unknown slug.
func (b *Builder) Build(ctx context.Context, slug, selected string) (View, bool) {
	tab, ok := LookupTab(slug)
	if !ok {
		return View{}, false
	}
	v := View{Tab: tab, Tabs: Tabs(), Heading: tab.Title}
	switch tab.Slug {
	case "kalshi":
		b.marketTab(ctx, &v, repository.KalshiMarkets, "Kalshi Markets", "Kalshi")
	case "manifold":
		b.marketTab(ctx, &v, repository.ManifoldMarkets, "Manifold Markets", "Manifold")
	case "polymarket":
		b.marketTab(ctx, &v, repository.PolymarketMarkets, "Polymarket Markets", "Polymarket")
	case "signals":
		b.signalsTab(ctx, &v)
	case "schema":
		b.schemaTab(ctx, &v)
	case "candles":
		b.candlesTab(ctx, &v, selected)
	case "orderbook":
		b.orderbookTab(ctx, &v, selected)
	case "trades":
		b.tradesTab(ctx, &v, selected)
	case "events":
		b.eventsTab(ctx, &v)
	case "notes":
		v.Heading = "Project Notes & To-Do List"
		v.Notes = append([]string{}, b.Notes...)
		if len(v.Notes) == 0 {
			v.Warning = "No notes."
		}
	}
	return v, true
}

func (b *Builder) marketTab(ctx context.Context, v *View, table repository.Table, heading, venue string) {
	v.Heading = heading
	v.LastUpdated = b.Query.LastUpdated(ctx, table)
	rows := b.Query.LoadRows(ctx, table, b.rowLimit())
	if rows.Failed() || rows.Empty() {
		v.Warning = fmt.Sprintf("No %s data available.", venue)
		v.Error = rows.Error
		return
	}
	v.Table = &rows
}

func (b *Builder) signalsTab(ctx context.Context, v *View) {
	v.Heading = "📡 Market Signals"
	res := b.Query.Signals(ctx)
	if res.Error != "" {
		v.Warning = "Failed to load signals."
		v.Error = res.Error
		return
	}
	if len(res.Rows) == 0 {
		v.Warning = "No signals available."
		return
	}
	t := SignalTable(res.Rows)
	v.Table = &t
}

func (b *Builder) schemaTab(ctx context.Context, v *View) {
	v.Heading = "Schema Status"
	status := b.Query.SchemaStatus(ctx)
	if status.Failed() {
		v.Warning = "Schema status unavailable: " + status.Error
		v.Error = status.Error
		return
	}
	v.Status = &StatusPanel{SchemaStatusResult: status, FreshnessLabel: freshnessLabels[status.Freshness]}
}

// pick loads the selector options and resolves the selected id.
func (b *Builder) pick(ctx context.Context, v *View, sel repository.Selector, label, requested string) (string, bool) {
	options := b.Query.DistinctIDs(ctx, sel, b.selectorLimit())
	s := &Selector{Label: label, Param: "id", Options: options}
	for _, o := range options {
		if o == requested {
			s.Selected = o
			break
		}
	}
	if s.Selected == "" && len(options) > 0 {
		s.Selected = options[0]
	}
	v.Selector = s
	return s.Selected, s.Selected != ""
}

// series loads one id's rows and reports whether there is anything to plot.
func (b *Builder) series(ctx context.Context, v *View, series repository.Series, id, warning string) (service.Table, bool) {
	t := b.Query.FilteredSeries(ctx, series, id)
	if t.Failed() || t.Empty() {
		v.Warning = warning
		v.Error = t.Error
		if b.Logger != nil && t.Failed() {
			b.Logger.Debug("dashboard series unavailable", zap.String("tab", v.Tab.Slug), zap.String("id", id), zap.String("error", t.Error))
		}
		return t, false
	}
	return t, true
}

func (b *Builder) candlesTab(ctx context.Context, v *View, requested string) {
	v.Heading = "Polymarket Candles"
	id, ok := b.pick(ctx, v, repository.CandleTokenIDs, "Select Token ID", requested)
	if !ok {
		v.Warning = "No candle tokens available."
		return
	}
	t, ok := b.series(ctx, v, repository.CandleSeries, id, "No candle data available for this token.")
	if !ok {
		return
	}
	v.Charts = []Chart{
		newChart("Open / Close", LineChart, t, "ts_utc", "open", "close"),
		newChart("Volume", BarChart, t, "ts_utc", "volume"),
	}
}

func (b *Builder) orderbookTab(ctx context.Context, v *View, requested string) {
	v.Heading = "Polymarket Orderbook"
	id, ok := b.pick(ctx, v, repository.OrderbookTokenIDs, "Select Token ID", requested)
	if !ok {
		v.Warning = "No orderbook tokens available."
		return
	}
	t, ok := b.series(ctx, v, repository.OrderbookSeries, id, "No orderbook data available for this token.")
	if !ok {
		return
	}
	t = withDerived(t, spread, liquidity)
	v.Charts = []Chart{
		newChart("Bid / Ask Spread", LineChart, t, "ts_utc", "bid_price", "ask_price", "spread"),
		newChart("Liquidity", BarChart, t, "ts_utc", "liquidity"),
	}
}

func (b *Builder) tradesTab(ctx context.Context, v *View, requested string) {
	v.Heading = "Polymarket Trades"
	v.LastUpdated = b.Query.LastUpdated(ctx, repository.PolymarketTrades)
	id, ok := b.pick(ctx, v, repository.TradeMarketIDs, "Select Market ID", requested)
	if !ok {
		v.Warning = "No trade markets available."
		return
	}
	t, ok := b.series(ctx, v, repository.TradeSeries, id, "No trade data available for this market.")
	if !ok {
		return
	}
	v.Charts = []Chart{
		newChart("Trade Prices", LineChart, t, "ts_utc", "price"),
		newChart("Trade Volume", BarChart, t, "ts_utc", "size"),
	}
}

var eventColumns = []string{"event_id", "name", "title", "category", "start_date", "end_date", "status", "markets", "ts_utc"}

func (b *Builder) eventsTab(ctx context.Context, v *View) {
	v.Heading = "Polymarket Events"
	res := b.Query.Events(ctx, b.rowLimit())
	v.LastUpdated = b.Query.LastUpdated(ctx, repository.PolymarketEvents)
	if res.Error != "" || len(res.Rows) == 0 {
		v.Warning = "No event data available."
		v.Error = res.Error
		return
	}
	t := eventTable(res.Rows)
	v.Table = &t
	preview := service.Table{Columns: t.Columns, Rows: t.Rows[:min(previewRows, len(t.Rows))]}
	v.Preview = &preview
}

func eventTable(rows []models.Event) service.Table {
	t := service.Table{Columns: eventColumns, Rows: make([][]any, 0, len(rows))}
	for _, e := range rows {
		t.Rows = append(t.Rows, []any{
			e.EventID,
			deref(e.Name),
			deref(e.Title),
			deref(e.Category),
			deref(e.StartDate),
			deref(e.EndDate),
			deref(e.Status),
			compactJSON(e.Markets),
			e.TSUTC,
		})
	}
	return t
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func compactJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(b)
}

func (b *Builder) rowLimit() int {
	if b.RowLimit <= 0 {
		return 100
	}
	return b.RowLimit
}

func (b *Builder) selectorLimit() int {
	if b.SelectorLimit <= 0 {
		return 100
	}
	return b.SelectorLimit
}
