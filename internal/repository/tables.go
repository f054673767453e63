package repository

// Identifiers used in warehouse SQL come only from the closed sets below.
// Request input is never turned into a table or column name; it can only
// select one of these keys or be bound as a parameter value.

type Table int

const (
	KalshiMarkets Table = iota + 1
	ManifoldMarkets
	PolymarketMarkets
	PolymarketCandles
	PolymarketOrderbook
	PolymarketTrades
	PolymarketEvents
	MarketSignals
	SchemaStatus
)

type tableSpec struct {
	schema string
	name   string
	// timestamp column used for "last updated"; empty when the table has none.
	tsColumn    string
	orderColumn string
}

var tableSpecs = map[Table]tableSpec{
	KalshiMarkets:       {schema: "hourly_kalshi", name: "markets", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	ManifoldMarkets:     {schema: "hourly_manifold", name: "markets", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	PolymarketMarkets:   {schema: "hourly_polymarket", name: "markets", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	PolymarketCandles:   {schema: "hourly_polymarket", name: "candles", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	PolymarketOrderbook: {schema: "hourly_polymarket", name: "orderbook", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	PolymarketTrades:    {schema: "hourly_polymarket", name: "trades", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	PolymarketEvents:    {schema: "hourly_polymarket", name: "events", tsColumn: "ts_utc", orderColumn: "ts_utc"},
	MarketSignals:       {schema: "public", name: "market_signals", orderColumn: "priority_score"},
	SchemaStatus:        {schema: "dashboard", name: "schema_status", tsColumn: "last_migration", orderColumn: "last_migration"},
}

func (t Table) Valid() bool {
	_, ok := tableSpecs[t]
	return ok
}

// String returns the schema-qualified name, e.g. hourly_polymarket.candles.
func (t Table) String() string {
	spec, ok := tableSpecs[t]
	if !ok {
		return "unknown"
	}
	return spec.schema + "." + spec.name
}

func (t Table) TimestampColumn() string {
	return tableSpecs[t].tsColumn
}

func (t Table) OrderColumn() string {
	return tableSpecs[t].orderColumn
}

// Selector names a distinct-id list used to populate dashboard pickers.
type Selector int

const (
	CandleTokenIDs Selector = iota + 1
	OrderbookTokenIDs
	TradeMarketIDs
)

type selectorSpec struct {
	table  Table
	column string
}

var selectorSpecs = map[Selector]selectorSpec{
	CandleTokenIDs:    {table: PolymarketCandles, column: "yes_token_id"},
	OrderbookTokenIDs: {table: PolymarketOrderbook, column: "yes_token_id"},
	TradeMarketIDs:    {table: PolymarketTrades, column: "market_id"},
}

func (s Selector) Valid() bool {
	_, ok := selectorSpecs[s]
	return ok
}

func (s Selector) Table() Table {
	return selectorSpecs[s].table
}

func (s Selector) Column() string {
	return selectorSpecs[s].column
}

// Series is a time series read for one id, ascending by its timestamp column.
type Series int

const (
	CandleSeries Series = iota + 1
	OrderbookSeries
	TradeSeries
)

type seriesSpec struct {
	selector Selector
	columns  []string
	orderBy  string
}

var seriesSpecs = map[Series]seriesSpec{
	CandleSeries: {
		selector: CandleTokenIDs,
		columns:  []string{"ts_utc", "open", "high", "low", "close", "volume"},
		orderBy:  "ts_utc",
	},
	OrderbookSeries: {
		selector: OrderbookTokenIDs,
		columns:  []string{"ts_utc", "bid_price", "ask_price", "bid_size", "ask_size"},
		orderBy:  "ts_utc",
	},
	TradeSeries: {
		selector: TradeMarketIDs,
		columns:  []string{"ts_utc", "price", "size", "side", "trade_id"},
		orderBy:  "ts_utc",
	},
}

func (s Series) Valid() bool {
	_, ok := seriesSpecs[s]
	return ok
}

// Selector is the id list whose values this series is filtered by.
func (s Series) Selector() Selector {
	return seriesSpecs[s].selector
}

func (s Series) Table() Table {
	return seriesSpecs[s].selector.Table()
}

func (s Series) FilterColumn() string {
	return seriesSpecs[s].selector.Column()
}

func (s Series) Columns() []string {
	cols := seriesSpecs[s].columns
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

func (s Series) OrderBy() string {
	return seriesSpecs[s].orderBy
}
