// Package domain contains persistence models for product usage telemetry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UsageEvent is one timestamped action inside a product module. Append-only;
// the credit engine reads a 90-day trailing window.
type UsageEvent struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	UserID     *snowflake.ID `gorm:"index" json:"user_id,omitempty"`
	Module     string        `gorm:"type:text;not null" json:"module"` // POS, Inventory, WMS, ERP, ...
	EventType  string        `gorm:"type:text;not null" json:"event_type"`
	Timestamp  time.Time     `gorm:"not null;index" json:"timestamp"`
}

// TableName sets the database table name.
func (UsageEvent) TableName() string { return "usage_events" }
