// Package domain defines the credit dashboard schema. The JSON shape is
// persisted verbatim in snapshots, so field names and enumerations here are
// a compatibility contract.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID accepts either a JSON string or number for customer_id and
// round-trips numeric values as numbers.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}
	return fmt.Errorf("customer_id must be a string or a number")
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }

type Registration struct {
	CRNumber        *string `json:"cr_number"`
	VATNumber       *string `json:"vat_number"`
	Country         *string `json:"country"`
	City            *string `json:"city"`
	YearsInBusiness *int    `json:"years_in_business"`
}

type RelationshipWithSilky struct {
	GoLiveDate            *string  `json:"go_live_date"`
	SubscriptionPlan      *string  `json:"subscription_plan"`
	ModulesEnabled        []string `json:"modules_enabled"`
	TenureMonths          *int     `json:"tenure_months"`
	SilkyPaymentBehaviour *string  `json:"silky_payment_behaviour" validate:"omitempty,oneof=on_time occasional_late chronic_late unknown"`
}

type KYCProfile struct {
	LegalName             *string                `json:"legal_name"`
	TradeName             *string                `json:"trade_name"`
	Registration          *Registration          `json:"registration" validate:"required"`
	Segment               *string                `json:"segment"`
	BranchesCount         *int                   `json:"branches_count"`
	AcquisitionChannel    *string                `json:"acquisition_channel"`
	ReferralPartnerID     *string                `json:"referral_partner_id"`
	RelationshipWithSilky *RelationshipWithSilky `json:"relationship_with_silky" validate:"required"`
}

type BehaviourActivity struct {
	Status           string `json:"status" validate:"required,oneof=active at_risk inactive"`
	ActiveDaysLast90 int    `json:"active_days_last_90" validate:"min=0,max=90"`
	LoginsLast90     int    `json:"logins_last_90" validate:"min=0"`
	ActiveUsers      int    `json:"active_users" validate:"min=0"`
	TotalUsers       int    `json:"total_users" validate:"min=0"`
}

type FeatureAdoptionItem struct {
	Module     string         `json:"module" validate:"required"`
	UsageLevel string         `json:"usage_level" validate:"required,oneof=low medium high"`
	KeyMetrics map[string]any `json:"key_metrics"`
}

type BehaviourDiscipline struct {
	InvoiceMatchingRate   *float64 `json:"invoice_matching_rate"`
	StockUpdateFrequency  *string  `json:"stock_update_frequency"`
	DataCompletenessScore *float64 `json:"data_completeness_score"`
}

type BehaviourProfile struct {
	Activity        *BehaviourActivity    `json:"activity" validate:"required"`
	FeatureAdoption []FeatureAdoptionItem `json:"feature_adoption" validate:"dive"`
	Discipline      *BehaviourDiscipline  `json:"discipline" validate:"required"`
	BehaviourRisks  []string              `json:"behaviour_risks"`
}

type RevenueInfo struct {
	AvgMonthlyRevenue      float64  `json:"avg_monthly_revenue"`
	RevenueTrend           string   `json:"revenue_trend" validate:"required,oneof=growing stable declining volatile unknown"`
	GrowthRateYoY          *float64 `json:"growth_rate_yoy"`
	GrowthRateMoM          *float64 `json:"growth_rate_mom"`
	RevenueVolatilityScore *float64 `json:"revenue_volatility_score"`
}

type ProfitabilityProxy struct {
	GrossMarginPercent *float64 `json:"gross_margin_percent"`
	Comment            *string  `json:"comment"`
}

type LiquidityInfo struct {
	AvgDSODays              *float64 `json:"avg_dso_days"`
	AvgDPODays              *float64 `json:"avg_dpo_days"`
	CashConversionCycleDays *float64 `json:"cash_conversion_cycle_days"`
	OverdueInvoicesRatio    *float64 `json:"overdue_invoices_ratio"`
}

type ConcentrationInfo struct {
	RevenueConcentrationComment *string  `json:"revenue_concentration_comment"`
	TopCustomerShare            *float64 `json:"top_customer_share"`
}

type SeasonalityInfo struct {
	HasStrongSeasonality bool    `json:"has_strong_seasonality"`
	SeasonalityComment   *string `json:"seasonality_comment"`
}

type FinancialHealth struct {
	Revenue            *RevenueInfo        `json:"revenue" validate:"required"`
	ProfitabilityProxy *ProfitabilityProxy `json:"profitability_proxy" validate:"required"`
	Liquidity          *LiquidityInfo      `json:"liquidity" validate:"required"`
	Concentration      *ConcentrationInfo  `json:"concentration" validate:"required"`
	Seasonality        *SeasonalityInfo    `json:"seasonality" validate:"required"`
}

type CashflowScenario struct {
	Currency                string  `json:"currency"`
	NetCashFlowNext3Months  float64 `json:"net_cash_flow_next_3_months"`
	NetCashFlowNext12Months float64 `json:"net_cash_flow_next_12_months"`
}

type CashflowForecast struct {
	BaseCase         *CashflowScenario `json:"base_case" validate:"required"`
	ConservativeCase *CashflowScenario `json:"conservative_case" validate:"required"`
	OptimisticCase   *CashflowScenario `json:"optimistic_case" validate:"required"`
	ConfidenceLevel  string            `json:"confidence_level" validate:"required,oneof=low medium high"`
	KeyDrivers       []string          `json:"key_drivers"`
}

// Offer product types the platform can distribute.
const (
	ProductWorkingCapitalLoan = "working_capital_loan"
	ProductInvoiceFactoring   = "invoice_factoring"
	ProductTerminalFinancing  = "terminal_financing"
	ProductOverdraft          = "overdraft"
	ProductCardLimit          = "card_limit"
	ProductOther              = "other"
)

type CreditOffer struct {
	OfferID               string   `json:"offer_id" validate:"required"`
	ProductType           string   `json:"product_type" validate:"required,oneof=working_capital_loan invoice_factoring terminal_financing overdraft card_limit other"`
	Amount                float64  `json:"amount"`
	Currency              string   `json:"currency"`
	TenorMonths           int      `json:"tenor_months" validate:"min=0"`
	InterestRatePercent   *float64 `json:"interest_rate_percent"`
	FeePercent            *float64 `json:"fee_percent"`
	GracePeriodDays       *int     `json:"grace_period_days"`
	CollateralRequired    bool     `json:"collateral_required"`
	CollateralDescription *string  `json:"collateral_description"`
	ConditionsPrecedent   []string `json:"conditions_precedent"`
	RiskTier              string   `json:"risk_tier" validate:"omitempty,oneof=A B C"`
}

type RecommendedCreditLimit struct {
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	LogicComment *string `json:"logic_comment"`
}

type ScoreExplanation struct {
	PositiveDrivers []string `json:"positive_drivers"`
	RiskFactors     []string `json:"risk_factors"`
}

type CreditAnalysis struct {
	CreditScore            int                     `json:"credit_score" validate:"min=0,max=100"`
	CreditBand             string                  `json:"credit_band" validate:"required,oneof=A+ A B C D"`
	RecommendedCreditLimit *RecommendedCreditLimit `json:"recommended_credit_limit" validate:"required"`
	MaxSafeTenorMonths     int                     `json:"max_safe_tenor_months" validate:"min=1"`
	ScoreExplanation       *ScoreExplanation       `json:"score_explanation" validate:"required"`
	DataQualityComment     *string                 `json:"data_quality_comment"`
}

type SafetyCompliance struct {
	UsedSensitiveAttributes bool     `json:"used_sensitive_attributes"`
	Notes                   *string  `json:"notes"`
	RegulatoryFlags         []string `json:"regulatory_flags"`
}

type AuditMetadata struct {
	ModelVersion       string  `json:"model_version" validate:"required"`
	ModelProvider      string  `json:"model_provider"`
	InputDataDateRange *string `json:"input_data_date_range"`
	GeneratedAt        string  `json:"generated_at"`
}

type EconomicsInfo struct {
	EstimatedAnnualRevenueToSilky  *float64 `json:"estimated_annual_revenue_to_silky"`
	EstimatedAnnualRevenueToLender *float64 `json:"estimated_annual_revenue_to_lender"`
	EconomicsComment               *string  `json:"economics_comment"`
}

type LenderProfile struct {
	LenderID               string   `json:"lender_id" validate:"required"`
	AllowedSegments        []string `json:"allowed_segments"`
	MinScore               *int     `json:"min_score"`
	MaxExposurePerCustomer *float64 `json:"max_exposure_per_customer"`
	MaxTenorMonths         *int     `json:"max_tenor_months"`
	PricingStrategy        *string  `json:"pricing_strategy"`
}

// CreditDashboard is the root document returned to callers and persisted in
// snapshots.
type CreditDashboard struct {
	CustomerID          FlexID            `json:"customer_id" validate:"required"`
	KYCProfile          *KYCProfile       `json:"kyc_profile" validate:"required"`
	BehaviourProfile    *BehaviourProfile `json:"behaviour_profile" validate:"required"`
	FinancialHealth     *FinancialHealth  `json:"financial_health" validate:"required"`
	CashflowForecast    *CashflowForecast `json:"cashflow_forecast" validate:"required"`
	CreditAnalysis      *CreditAnalysis   `json:"credit_analysis" validate:"required"`
	SafetyAndCompliance *SafetyCompliance `json:"safety_and_compliance" validate:"required"`

	AvailableOffers               []CreditOffer  `json:"available_offers,omitempty" validate:"dive"`
	EarlyWarningFlags             []string       `json:"early_warning_flags,omitempty"`
	RecommendationsForLender      []string       `json:"recommendations_for_lender,omitempty"`
	ImprovementActionsForMerchant []string       `json:"improvement_actions_for_merchant,omitempty"`
	SegmentSpecificStrengths      []string       `json:"segment_specific_strengths,omitempty"`
	SegmentSpecificRisks          []string       `json:"segment_specific_risks,omitempty"`
	AuditMetadata                 *AuditMetadata `json:"audit_metadata" validate:"required"`
	Economics                     *EconomicsInfo `json:"economics,omitempty"`

	UsageMode        string         `json:"usage_mode" validate:"required,oneof=internal_analytics merchant_portal bank_partner_portal"`
	SubscriptionTier string         `json:"subscription_tier" validate:"required,oneof=free standard pro enterprise"`
	LenderProfile    *LenderProfile `json:"lender_profile,omitempty"`
}
