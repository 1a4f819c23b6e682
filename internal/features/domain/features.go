// Package domain defines the feature bundles derived from raw merchant
// records. These are the structured inputs handed to the model, so the JSON
// field names are part of the prompt contract.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Registration groups the identity fields of a merchant.
type Registration struct {
	CRNumber        *string `json:"cr_number"`
	VATNumber       *string `json:"vat_number"`
	Country         *string `json:"country"`
	City            *string `json:"city"`
	YearsInBusiness *int    `json:"years_in_business"`
}

// Relationship describes the merchant's history on the platform.
type Relationship struct {
	GoLiveDate            *string  `json:"go_live_date"`
	SubscriptionPlan      *string  `json:"subscription_plan"`
	ModulesEnabled        []string `json:"modules_enabled"`
	TenureMonths          int      `json:"tenure_months"`
	SilkyPaymentBehaviour string   `json:"silky_payment_behaviour"`
}

// KYCFeatures is the identity bundle.
type KYCFeatures struct {
	LegalName             string       `json:"legal_name"`
	TradeName             *string      `json:"trade_name"`
	Registration          Registration `json:"registration"`
	Segment               *string      `json:"segment"`
	BranchesCount         int          `json:"branches_count"`
	AcquisitionChannel    string       `json:"acquisition_channel"`
	ReferralPartnerID     *string      `json:"referral_partner_id"`
	RelationshipWithSilky Relationship `json:"relationship_with_silky"`
}

// Activity statuses derived from distinct active days in the 90-day window.
const (
	StatusActive   = "active"
	StatusAtRisk   = "at_risk"
	StatusInactive = "inactive"
)

type Activity struct {
	Status           string `json:"status"`
	ActiveDaysLast90 int    `json:"active_days_last_90"`
	LoginsLast90     int    `json:"logins_last_90"`
	ActiveUsers      int    `json:"active_users"`
	TotalUsers       int    `json:"total_users"`
}

type FeatureAdoption struct {
	Module     string         `json:"module"`
	UsageLevel string         `json:"usage_level"` // low, medium, high
	KeyMetrics map[string]any `json:"key_metrics"`
}

// UsageFeatures is the 90-day behaviour bundle.
type UsageFeatures struct {
	Activity        Activity          `json:"activity"`
	FeatureAdoption []FeatureAdoption `json:"feature_adoption"`
}

// MonthlyRevenue is one calendar-month revenue bucket. Month is the first
// day of the month in YYYY-MM-DD form.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type InvoiceSummary struct {
	ID        snowflake.ID `json:"id"`
	IssueDate string       `json:"issue_date"`
	DueDate   string       `json:"due_date"`
	Amount    float64      `json:"amount"`
	Status    string       `json:"status"`
	PaidDate  *string      `json:"paid_date"`
}

// FinancialFeatures is the 24-month financial bundle.
type FinancialFeatures struct {
	MonthlyRevenue       []MonthlyRevenue `json:"monthly_revenue"`
	AvgMonthlyRevenue    float64          `json:"avg_monthly_revenue"`
	MoMGrowth            float64          `json:"mom_growth"`
	Invoices             []InvoiceSummary `json:"invoices"`
	OverdueInvoicesRatio float64          `json:"overdue_invoices_ratio"`
	RevenuePeriod        *string          `json:"revenue_period"`
}

// Extractor reads raw records for one customer and derives feature bundles.
type Extractor interface {
	// ExtractIdentity returns the KYC bundle, or the customer domain's
	// not-found error when the customer does not exist.
	ExtractIdentity(ctx context.Context, customerID snowflake.ID) (KYCFeatures, error)
	// ExtractUsage aggregates usage events over the trailing 90 days.
	ExtractUsage(ctx context.Context, customerID snowflake.ID, now time.Time) (UsageFeatures, error)
	// ExtractFinancial aggregates transactions and invoices over the
	// trailing 24 months.
	ExtractFinancial(ctx context.Context, customerID snowflake.ID, now time.Time) (FinancialFeatures, error)
}
