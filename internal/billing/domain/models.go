// Package domain contains persistence models for merchant financial records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PosTransaction is a dated net-sales amount from the point of sale.
// Append-only; the credit engine reads a 24-month trailing window.
type PosTransaction struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID    snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Date          time.Time    `gorm:"type:date;not null;index" json:"date"`
	NetSales      float64      `gorm:"not null" json:"net_sales"`
	BranchID      *int         `gorm:"" json:"branch_id,omitempty"`
	PaymentMethod *string      `gorm:"type:text" json:"payment_method,omitempty"`
}

// TableName sets the database table name.
func (PosTransaction) TableName() string { return "pos_transactions" }

// InvoiceStatus values as stored. The overdue ratio counts StatusOverdue.
const (
	StatusOpen    = "open"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Invoice is a receivable issued by the merchant.
type Invoice struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	IssueDate  time.Time    `gorm:"type:date;not null;index" json:"issue_date"`
	DueDate    time.Time    `gorm:"type:date;not null" json:"due_date"`
	Amount     float64      `gorm:"not null" json:"amount"`
	Status     string       `gorm:"type:text;not null" json:"status"` // open, paid, overdue
	PaidDate   *time.Time   `gorm:"type:date" json:"paid_date,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
