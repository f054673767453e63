package dashboard

// Tab is one dashboard page. Slug is the path segment under /dashboard/.
type Tab struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

var tabs = []Tab{
	{Slug: "kalshi", Title: "Kalshi"},
	{Slug: "manifold", Title: "Manifold"},
	{Slug: "polymarket", Title: "Polymarket Markets"},
	{Slug: "signals", Title: "Signals"},
	{Slug: "schema", Title: "Schema"},
	{Slug: "candles", Title: "Candles"},
	{Slug: "orderbook", Title: "Orderbook"},
	{Slug: "trades", Title: "Trades"},
	{Slug: "events", Title: "Events"},
	{Slug: "notes", Title: "Notes"},
}

// Tabs returns the tabs in display order.
func Tabs() []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

func DefaultTab() string { return tabs[0].Slug }

func LookupTab(slug string) (Tab, bool) {
	for _, t := range tabs {
		if t.Slug == slug {
			return t, true
		}
	}
	return Tab{}, false
}
