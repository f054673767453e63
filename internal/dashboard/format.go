package dashboard

import (
	"fmt"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
	"github.com/GeneralMillz/polymarket-relay/internal/service"
)

const notAvailable = "N/A"

type bucket struct {
	min  float64
	mark string
}

// momentumBuckets are checked in order; the first bucket whose min is met wins.
var momentumBuckets = []bucket{
	{min: 0.7, mark: "🟢"},
	{min: 0.4, mark: "🟡"},
}

const momentumLow = "🔴"

type numberFormat func(float64) string

func percent(v float64) string       { return fmt.Sprintf("%.1f%%", v*100) }
func signedPercent(v float64) string { return fmt.Sprintf("%+.1f%%", v*100) }
func twoDecimals(v float64) string   { return fmt.Sprintf("%.2f", v) }

func momentum(v float64) string {
	for _, b := range momentumBuckets {
		if v >= b.min {
			return b.mark + " " + twoDecimals(v)
		}
	}
	return momentumLow + " " + twoDecimals(v)
}

type signalColumn struct {
	name    string
	value   func(models.MarketSignal) *float64
	format  numberFormat
	missing string
}

var signalColumns = []signalColumn{
	{name: "current_prob", value: func(s models.MarketSignal) *float64 { return s.CurrentProb }, format: percent},
	{name: "prob_change_6h", value: func(s models.MarketSignal) *float64 { return s.ProbChange6h }, format: signedPercent},
	{name: "momentum_score", value: func(s models.MarketSignal) *float64 { return s.MomentumScore }, format: momentum, missing: "⚪ N/A"},
	{name: "cross_market_gap", value: func(s models.MarketSignal) *float64 { return s.CrossMarketGap }, format: twoDecimals},
	{name: "spread", value: func(s models.MarketSignal) *float64 { return s.Spread }, format: twoDecimals},
	{name: "liquidity_score", value: func(s models.MarketSignal) *float64 { return s.LiquidityScore }, format: twoDecimals},
	{name: "volume_spike_ratio", value: func(s models.MarketSignal) *float64 { return s.VolumeSpikeRatio }, format: twoDecimals},
	{name: "priority_score", value: func(s models.MarketSignal) *float64 { return s.PriorityScore }, format: twoDecimals},
}

func (c signalColumn) render(s models.MarketSignal) string {
	v := c.value(s)
	if v == nil {
		if c.missing != "" {
			return c.missing
		}
		return notAvailable
	}
	return c.format(*v)
}

// SignalTable renders signal rows as display strings, one column per entry
// of signalColumns after ticker and title.
func SignalTable(rows []models.MarketSignal) service.Table {
	cols := make([]string, 0, len(signalColumns)+2)
	cols = append(cols, "ticker", "title")
	for _, c := range signalColumns {
		cols = append(cols, c.name)
	}
	out := service.Table{Columns: cols, Rows: make([][]any, 0, len(rows))}
	for _, s := range rows {
		row := make([]any, 0, len(cols))
		title := ""
		if s.Title != nil {
			title = *s.Title
		}
		row = append(row, s.Ticker, title)
		for _, c := range signalColumns {
			row = append(row, c.render(s))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
