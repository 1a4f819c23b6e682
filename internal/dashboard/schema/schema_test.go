package schema

import (
	"encoding/json"
	"testing"

	"github.com/silkysystems/credit-engine/internal/dashboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDashboardTree() map[string]any {
	return map[string]any{
		"customer_id":       "1234567890",
		"usage_mode":        "internal_analytics",
		"subscription_tier": "pro",
		"kyc_profile": map[string]any{
			"legal_name": "Riyadh Burger House Co.",
			"registration": map[string]any{
				"cr_number": "1010123456",
				"country":   "Saudi Arabia",
			},
			"relationship_with_silky": map[string]any{
				"subscription_plan": "pro",
				"modules_enabled":   []any{"POS", "Inventory"},
				"tenure_months":     24,
			},
		},
		"behaviour_profile": map[string]any{
			"activity": map[string]any{
				"status":              "active",
				"active_days_last_90": 40,
				"logins_last_90":      320,
				"active_users":        2,
				"total_users":         3,
			},
			"feature_adoption": []any{
				map[string]any{
					"module":      "POS",
					"usage_level": "high",
					"key_metrics": map[string]any{"events_last_90": 300},
				},
			},
			"discipline": map[string]any{
				"invoice_matching_rate": 0.9,
			},
			"behaviour_risks": []any{},
		},
		"financial_health": map[string]any{
			"revenue": map[string]any{
				"avg_monthly_revenue": 85000.0,
				"revenue_trend":       "growing",
				"growth_rate_mom":     0.05,
			},
			"profitability_proxy": map[string]any{"comment": "estimated from sector margins"},
			"liquidity":           map[string]any{"overdue_invoices_ratio": 0.1},
			"concentration":       map[string]any{},
			"seasonality":         map[string]any{"has_strong_seasonality": false},
		},
		"cashflow_forecast": map[string]any{
			"base_case": map[string]any{
				"currency":                     "SAR",
				"net_cash_flow_next_3_months":  40000.0,
				"net_cash_flow_next_12_months": 160000.0,
			},
			"conservative_case": map[string]any{
				"currency":                     "SAR",
				"net_cash_flow_next_3_months":  25000.0,
				"net_cash_flow_next_12_months": 100000.0,
			},
			"optimistic_case": map[string]any{
				"currency":                     "SAR",
				"net_cash_flow_next_3_months":  55000.0,
				"net_cash_flow_next_12_months": 220000.0,
			},
			"confidence_level": "medium",
			"key_drivers":      []any{"stable POS volume"},
		},
		"credit_analysis": map[string]any{
			"credit_score": 78,
			"credit_band":  "B",
			"recommended_credit_limit": map[string]any{
				"amount":   30000.0,
				"currency": "SAR",
			},
			"max_safe_tenor_months": 12,
			"score_explanation": map[string]any{
				"positive_drivers": []any{"consistent revenue"},
				"risk_factors":     []any{"overdue invoices"},
			},
		},
		"safety_and_compliance": map[string]any{
			"used_sensitive_attributes": false,
			"regulatory_flags":          []any{},
		},
		"audit_metadata": map[string]any{
			"model_version":  "gpt-5.1",
			"model_provider": "openai",
			"generated_at":   "2025-06-15T12:00:00Z",
		},
	}
}

func TestDecodeTree_ValidDashboard(t *testing.T) {
	v := New()

	dashboard, err := v.DecodeTree(validDashboardTree(), "raw text")
	require.NoError(t, err)

	assert.Equal(t, "1234567890", dashboard.CustomerID.String())
	assert.Equal(t, 78, dashboard.CreditAnalysis.CreditScore)
	assert.Equal(t, "B", dashboard.CreditAnalysis.CreditBand)
	assert.Equal(t, 12, dashboard.CreditAnalysis.MaxSafeTenorMonths)
	assert.Equal(t, 30000.0, dashboard.CreditAnalysis.RecommendedCreditLimit.Amount)
	assert.Equal(t, "internal_analytics", dashboard.UsageMode)
}

func TestDecodeTree_MissingRequiredSection(t *testing.T) {
	v := New()
	tree := validDashboardTree()
	delete(tree, "credit_analysis")

	_, err := v.DecodeTree(tree, "the raw model text")

	var invalid *domain.ModelOutputInvalidError
	require.ErrorAs(t, err, &invalid)
	assert.NotEmpty(t, invalid.Errors)
	assert.Equal(t, "the raw model text", invalid.Raw)
}

func TestDecodeTree_InvalidEnum(t *testing.T) {
	v := New()
	tree := validDashboardTree()
	tree["credit_analysis"].(map[string]any)["credit_band"] = "E"

	_, err := v.DecodeTree(tree, "raw")

	var invalid *domain.ModelOutputInvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestDecodeTree_ZeroTenorRejected(t *testing.T) {
	v := New()
	tree := validDashboardTree()
	tree["credit_analysis"].(map[string]any)["max_safe_tenor_months"] = 0

	_, err := v.DecodeTree(tree, "raw")

	var invalid *domain.ModelOutputInvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestDecodeBytes_MalformedJSON(t *testing.T) {
	v := New()

	_, err := v.DecodeBytes([]byte("{not json"))

	var invalid *domain.ModelOutputInvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestCustomerID_AcceptsNumberAndString(t *testing.T) {
	v := New()

	tree := validDashboardTree()
	tree["customer_id"] = 1234567890

	dashboard, err := v.DecodeTree(tree, "raw")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", dashboard.CustomerID.String())

	// Numeric ids round-trip as JSON numbers.
	body, err := json.Marshal(dashboard.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", string(body))
}
