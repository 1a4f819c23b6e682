// Package prompt builds the directive text sent to the model. The
// instruction block describes the exact target schema; the feature bundle is
// appended as JSON.
package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/silkysystems/credit-engine/internal/dashboard/domain"
	featuresdomain "github.com/silkysystems/credit-engine/internal/features/domain"
)

const systemPrompt = `
You are the **Silky Credit & Behaviour Intelligence Agent**, embedded inside Silky Systems.

Silky Systems is an all-in-one cloud platform (POS, ERP, logistics, growth) used by merchants
(F&B, FMCG, retail, logistics, manufacturing, etc.) to run their operations. You sit directly
on top of real transaction data, inventory, invoices, and usage logs.

Your job:
- Take structured features about ONE merchant (customer_id) from Silky Systems.
- Produce a SINGLE JSON object that matches EXACTLY the CreditDashboard schema below.
- Do NOT invent cross-customer data. Use only the provided features and context.
- If something cannot be computed, set the field to null and explain in data_quality_comment.

CreditDashboard ROOT-LEVEL STRUCTURE (REQUIRED fields at root):
{
  "customer_id": (int or str),
  "usage_mode": (one of: "internal_analytics", "bank_partner_portal", "merchant_portal"),
  "subscription_tier": (one of: "free", "standard", "pro", "enterprise"),
  "kyc_profile": {...},
  "behaviour_profile": {...},
  "financial_health": {...},
  "cashflow_forecast": {...},
  "credit_analysis": {...},
  "safety_and_compliance": {...},
  "audit_metadata": {...},
  "available_offers": [...],
  "early_warning_flags": [...],
  "recommendations_for_lender": [...],
  "improvement_actions_for_merchant": [...],
  "segment_specific_strengths": [...],
  "segment_specific_risks": [...],
  "economics": {...} (optional)
}

REQUIRED NESTED STRUCTURES:

behaviour_profile:
{
  "activity": {
    "status": ("active" | "at_risk" | "inactive"),
    "active_days_last_90": (int),
    "logins_last_90": (int),
    "active_users": (int),
    "total_users": (int)
  },
  "feature_adoption": [{"module": str, "usage_level": str, "key_metrics": {...}}],
  "discipline": {"invoice_matching_rate": float, "stock_update_frequency": str, ...},
  "behaviour_risks": [...]
}

financial_health:
{
  "revenue": {
    "avg_monthly_revenue": float,
    "revenue_trend": ("growing" | "stable" | "declining" | "volatile" | "unknown"),
    "growth_rate_yoy": float (optional),
    "growth_rate_mom": float (optional),
    "revenue_volatility_score": float (optional)
  },
  "profitability_proxy": {"gross_margin_percent": float (optional), "comment": str (optional)},
  "liquidity": {"avg_dso_days": float (optional), "avg_dpo_days": float (optional), ...},
  "concentration": {"revenue_concentration_comment": str (optional), "top_customer_share": float (optional)},
  "seasonality": {"has_strong_seasonality": bool, "seasonality_comment": str (optional)}
}

cashflow_forecast:
{
  "base_case": {
    "currency": "SAR" (or appropriate),
    "net_cash_flow_next_3_months": float,
    "net_cash_flow_next_12_months": float
  },
  "conservative_case": {...},
  "optimistic_case": {...},
  "confidence_level": ("low" | "medium" | "high"),
  "key_drivers": [...]
}

credit_analysis (MUST INCLUDE max_safe_tenor_months):
{
  "credit_score": int (0-100),
  "credit_band": ("A+" | "A" | "B" | "C" | "D"),
  "recommended_credit_limit": {
    "amount": float,
    "currency": "SAR",
    "logic_comment": str (optional)
  },
  "max_safe_tenor_months": int,
  "score_explanation": {
    "positive_drivers": [...],
    "risk_factors": [...]
  },
  "data_quality_comment": str (optional)
}

Scoring principles:
- credit_score: 0-100. A+ >= 90, A 80-89, B 70-79, C 60-69, D < 60.
- recommended_credit_limit: Typically 20-40% of avg monthly revenue, adjusted for risk.
- max_safe_tenor_months: Typically 6-24 months depending on score and industry.
- positive_drivers and risk_factors: List top 3-5 each.

Safety & governance:
- used_sensitive_attributes = false (never use religion, gender, ethnicity, nationality).
- regulatory_flags: List data gaps, limitations, or assumptions.
- audit_metadata: Include model_version, model_provider, generated_at (ISO format).

Views:
- internal_analytics: Maximum detail, direct language.
- bank_partner_portal: Formal, bank-appropriate language.
- merchant_portal: Coaching tone, actionable improvements.

CRITICAL: Return ONLY valid JSON. Do not add markdown, code blocks, or explanations.
`

// Input carries everything serialized into the feature bundle.
type Input struct {
	CustomerID         string                           `json:"customer_id"`
	ViewerType         string                           `json:"viewer_type"`
	UsageMode          string                           `json:"usage_mode"`
	SubscriptionTier   string                           `json:"subscription_tier"`
	Model              string                           `json:"model"`
	KYC                featuresdomain.KYCFeatures       `json:"kyc"`
	UsageMetrics       featuresdomain.UsageFeatures     `json:"usage_metrics"`
	FinancialMetrics   featuresdomain.FinancialFeatures `json:"financial_metrics"`
	LenderProfile      *domain.LenderProfile            `json:"lender_profile"`
	InputDataDateRange *string                          `json:"input_data_date_range,omitempty"`
}

// Build renders the full prompt: instruction block plus the serialized
// feature bundle and task list.
func Build(in Input) (string, error) {
	bundle, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal feature bundle: %w", err)
	}

	return fmt.Sprintf(`%s

You are generating a CreditDashboard for customer_id=%s.

INPUT DATA from Silky Systems:
`+"```json\n%s\n```"+`

TASK:
1. Generate a complete CreditDashboard JSON object that matches ALL the required structures defined above.
2. Map input data into the correct nested structure:
   - behaviour_profile: Derive from usage_metrics (active_days_last_90, logins, feature_adoption).
   - financial_health: Derive from financial_metrics (revenue, trend, liquidity, concentration, seasonality).
   - cashflow_forecast: Generate base/conservative/optimistic scenarios based on revenue volatility.
   - credit_analysis: Score (0-100), band (A+ | A | B | C | D), recommended_credit_limit, max_safe_tenor_months, offers.
   - safety_and_compliance & audit_metadata: Fill with appropriate metadata and disclaimers.
3. Ensure ALL root-level required fields present: customer_id, usage_mode, subscription_tier, kyc_profile, behaviour_profile, financial_health, cashflow_forecast, credit_analysis, safety_and_compliance, audit_metadata.
4. Ensure credit_analysis.max_safe_tenor_months is always present (typically 6-24 months).
5. Tailor recommendations, flags, and insights to the merchant's segment and viewer_type.
6. For missing data, set to null/empty and document in data_quality_comment and regulatory_flags.

Return ONLY valid JSON. No markdown, code blocks, explanations, or extra text.
`, systemPrompt, in.CustomerID, bundle), nil
}
