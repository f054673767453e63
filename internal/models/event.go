package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is one row of hourly_polymarket.events.
type Event struct {
	EventID   string         `gorm:"column:event_id;type:text" json:"event_id"`
	Name      *string        `gorm:"column:name;type:text" json:"name"`
	Title     *string        `gorm:"column:title;type:text" json:"title"`
	Category  *string        `gorm:"column:category;type:text" json:"category"`
	StartDate *string        `gorm:"column:start_date" json:"start_date"`
	EndDate   *string        `gorm:"column:end_date" json:"end_date"`
	Status    *string        `gorm:"column:status;type:text" json:"status"`
	Markets   datatypes.JSON `gorm:"column:markets;type:jsonb" json:"markets"`
	TSUTC     time.Time      `gorm:"column:ts_utc;type:timestamptz" json:"ts_utc"`
}

func (Event) TableName() string {
	return "hourly_polymarket.events"
}
