// Package domain contains the persisted dashboard snapshot model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DashboardSnapshot is one immutable generated dashboard. Rows are only ever
// appended; the newest row per (customer, viewer, mode, tier, lender) tuple
// is the cached dashboard for that view, and the newest row per customer is
// its "latest credit" summary. Score, band, limit and tenor are duplicated
// into columns so listings never re-parse the JSON body.
type DashboardSnapshot struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	SnapshotAt time.Time    `gorm:"not null;index" json:"snapshot_at"`

	ViewerType       string  `gorm:"type:text;not null" json:"viewer_type"`
	UsageMode        string  `gorm:"type:text;not null" json:"usage_mode"`
	SubscriptionTier string  `gorm:"type:text;not null" json:"subscription_tier"`
	LenderID         *string `gorm:"type:text" json:"lender_id,omitempty"`

	DashboardJSON datatypes.JSON `gorm:"not null" json:"dashboard_json"`

	CreditScore                    int     `gorm:"not null" json:"credit_score"`
	CreditBand                     string  `gorm:"type:text;not null" json:"credit_band"`
	RecommendedCreditLimitAmount   float64 `gorm:"not null" json:"recommended_credit_limit_amount"`
	RecommendedCreditLimitCurrency string  `gorm:"type:text;not null;default:'SAR'" json:"recommended_credit_limit_currency"`
	MaxSafeTenorMonths             int     `gorm:"not null" json:"max_safe_tenor_months"`
	DataQualityComment             *string `gorm:"type:text" json:"data_quality_comment,omitempty"`

	ModelVersion       *string `gorm:"type:text" json:"model_version,omitempty"`
	ModelProvider      *string `gorm:"type:text" json:"model_provider,omitempty"`
	InputDataDateRange *string `gorm:"type:text" json:"input_data_date_range,omitempty"`
}

// TableName sets the database table name.
func (DashboardSnapshot) TableName() string { return "credit_profile_snapshots" }
