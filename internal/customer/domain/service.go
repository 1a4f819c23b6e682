package domain

import (
	"context"
	"errors"
	"time"
)

// LatestCredit is the newest snapshot summary for a customer, duplicated on
// the snapshot row so listing never re-parses dashboard bodies.
type LatestCredit struct {
	CreditScore         int       `json:"credit_score"`
	CreditBand          string    `json:"credit_band"`
	CreditLimitAmount   float64   `json:"credit_limit_amount"`
	CreditLimitCurrency string    `json:"credit_limit_currency"`
	MaxSafeTenorMonths  int       `json:"max_safe_tenor_months"`
	SnapshotAt          time.Time `json:"snapshot_at"`
}

type CustomerSummary struct {
	ID           string        `json:"id"`
	LegalName    string        `json:"legal_name"`
	TradeName    *string       `json:"trade_name,omitempty"`
	City         *string       `json:"city,omitempty"`
	Segment      *string       `json:"segment,omitempty"`
	LatestCredit *LatestCredit `json:"latest_credit,omitempty"`
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	GetByID(ctx context.Context, req GetCustomerRequest) (Customer, error)
	ListWithLatestCredit(ctx context.Context) ([]CustomerSummary, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
