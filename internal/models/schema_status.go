package models

import "time"

// SchemaStatus is the single-row health record maintained by the ingestion side.
type SchemaStatus struct {
	TotalMarkets     int64      `gorm:"column:total_markets" json:"total_markets"`
	OrderbookEnabled bool       `gorm:"column:orderbook_enabled" json:"orderbook_enabled"`
	ActiveMarkets    int64      `gorm:"column:active_markets" json:"active_markets"`
	LastMigration    *time.Time `gorm:"column:last_migration;type:timestamptz" json:"last_migration"`
}

func (SchemaStatus) TableName() string {
	return "dashboard.schema_status"
}
