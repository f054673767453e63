package dashboard

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GeneralMillz/polymarket-relay/internal/service"
)

type ChartKind string

const (
	LineChart ChartKind = "line"
	BarChart  ChartKind = "bar"
)

type ChartSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type Chart struct {
	Title  string        `json:"title"`
	Kind   ChartKind     `json:"kind"`
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

// JSON is the chart encoded for the page script.
func (c Chart) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// newChart plots columns of t against its index column. Missing columns
// produce an all-null series rather than an error.
func newChart(title string, kind ChartKind, t service.Table, index string, columns ...string) Chart {
	c := Chart{Title: title, Kind: kind, Labels: make([]string, 0, len(t.Rows))}
	idx := t.ColumnIndex(index)
	for _, row := range t.Rows {
		if idx < 0 {
			c.Labels = append(c.Labels, "")
			continue
		}
		c.Labels = append(c.Labels, cellString(row[idx]))
	}
	for _, name := range columns {
		s := ChartSeries{Name: name, Values: make([]*float64, 0, len(t.Rows))}
		col := t.ColumnIndex(name)
		for _, row := range t.Rows {
			if col < 0 {
				s.Values = append(s.Values, nil)
				continue
			}
			s.Values = append(s.Values, cellFloat(row[col]))
		}
		c.Series = append(c.Series, s)
	}
	return c
}

func cellDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return x, true
	case float64:
		if !finite(x) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		if !finite(float64(x)) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	case []byte:
		d, err := decimal.NewFromString(string(x))
		return d, err == nil
	default:
		d, err := decimal.NewFromString(fmt.Sprint(x))
		return d, err == nil
	}
}

// finite rejects the NaN and Infinity values postgres float columns can hold.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func cellFloat(v any) *float64 {
	d, ok := cellDecimal(v)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// cellString is the display form of a warehouse value.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(service.TimestampLayout)
	case []byte:
		return string(x)
	case string:
		return x
	case float64:
		if !finite(x) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
		return decimal.NewFromFloat(x).String()
	default:
		return fmt.Sprint(x)
	}
}

// withDerived appends columns computed from each row. A nil result leaves
// the cell empty.
func withDerived(t service.Table, derived ...derivedColumn) service.Table {
	out := service.Table{
		Columns: append(append([]string{}, t.Columns...), derivedNames(derived)...),
		Rows:    make([][]any, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		next := append(make([]any, 0, len(out.Columns)), row...)
		for _, d := range derived {
			if v, ok := d.compute(t, row); ok {
				next = append(next, v)
			} else {
				next = append(next, nil)
			}
		}
		out.Rows = append(out.Rows, next)
	}
	return out
}

type derivedColumn struct {
	name    string
	compute func(t service.Table, row []any) (decimal.Decimal, bool)
}

func derivedNames(ds []derivedColumn) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.name)
	}
	return out
}

func column(t service.Table, row []any, name string) (decimal.Decimal, bool) {
	i := t.ColumnIndex(name)
	if i < 0 || i >= len(row) {
		return decimal.Decimal{}, false
	}
	return cellDecimal(row[i])
}

// spread is ask_price - bid_price.
var spread = derivedColumn{
	name: "spread",
	compute: func(t service.Table, row []any) (decimal.Decimal, bool) {
		ask, ok1 := column(t, row, "ask_price")
		bid, ok2 := column(t, row, "bid_price")
		if !ok1 || !ok2 {
			return decimal.Decimal{}, false
		}
		return ask.Sub(bid), true
	},
}

// liquidity is bid_size + ask_size.
var liquidity = derivedColumn{
	name: "liquidity",
	compute: func(t service.Table, row []any) (decimal.Decimal, bool) {
		bid, ok1 := column(t, row, "bid_size")
		ask, ok2 := column(t, row, "ask_size")
		if !ok1 || !ok2 {
			return decimal.Decimal{}, false
		}
		return bid.Add(ask), true
	},
}
