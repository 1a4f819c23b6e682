// Package domain contains persistence models for merchant accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is a merchant account on the platform. Created by onboarding or
// seed tooling; the credit engine only ever reads it.
type Customer struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	LegalName          string       `gorm:"type:text;not null" json:"legal_name"`
	TradeName          *string      `gorm:"type:text" json:"trade_name,omitempty"`
	CRNumber           *string      `gorm:"type:text" json:"cr_number,omitempty"`
	VATNumber          *string      `gorm:"type:text" json:"vat_number,omitempty"`
	Country            *string      `gorm:"type:text" json:"country,omitempty"`
	City               *string      `gorm:"type:text" json:"city,omitempty"`
	Industry           *string      `gorm:"type:text" json:"industry,omitempty"` // used as segment
	FoundedDate        *time.Time   `gorm:"type:date" json:"founded_date,omitempty"`
	BranchesCount      int          `gorm:"not null;default:1" json:"branches_count"`
	AcquisitionChannel string       `gorm:"type:text;not null;default:'silky_direct'" json:"acquisition_channel"`
	ReferralPartnerID  *string      `gorm:"type:text" json:"referral_partner_id,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Settings *CustomerSetting `gorm:"foreignKey:CustomerID" json:"settings,omitempty"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// CustomerSetting holds subscription configuration for one customer.
type CustomerSetting struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID       snowflake.ID `gorm:"not null;index" json:"customer_id"`
	SubscriptionPlan string       `gorm:"type:text;not null;default:'standard'" json:"subscription_plan"`
	ModulesEnabled   string       `gorm:"type:text;not null;default:'POS,Inventory'" json:"modules_enabled"` // comma-delimited
	GoLiveDate       *time.Time   `gorm:"type:date" json:"go_live_date,omitempty"`
	Status           string       `gorm:"type:text;not null;default:'active'" json:"status"`
}

// TableName sets the database table name.
func (CustomerSetting) TableName() string { return "customer_settings" }

// User is a staff member of a customer account.
type User struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Role       *string      `gorm:"type:text" json:"role,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
