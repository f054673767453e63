package models

// MarketSignal is a derived analytics row produced upstream, one per tracked market.
// Scores are trusted as stored; nothing here clamps them.
type MarketSignal struct {
	Ticker           string   `gorm:"column:ticker;type:text" json:"ticker"`
	Title            *string  `gorm:"column:title;type:text" json:"title"`
	CurrentProb      *float64 `gorm:"column:current_prob;type:numeric" json:"current_prob"`
	ProbChange6h     *float64 `gorm:"column:prob_change_6h;type:numeric" json:"prob_change_6h"`
	MomentumScore    *float64 `gorm:"column:momentum_score;type:numeric" json:"momentum_score"`
	CrossMarketGap   *float64 `gorm:"column:cross_market_gap;type:numeric" json:"cross_market_gap"`
	Spread           *float64 `gorm:"column:spread;type:numeric" json:"spread"`
	LiquidityScore   *float64 `gorm:"column:liquidity_score;type:numeric" json:"liquidity_score"`
	VolumeSpikeRatio *float64 `gorm:"column:volume_spike_ratio;type:numeric" json:"volume_spike_ratio"`
	PriorityScore    *float64 `gorm:"column:priority_score;type:numeric" json:"priority_score"`
}

func (MarketSignal) TableName() string {
	return "public.market_signals"
}
