package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_OfferTypeAndFieldRenames(t *testing.T) {
	data := map[string]any{
		"subscription_tier": "pro",
		"available_offers": []any{
			map[string]any{
				"offer_id":               "offer-1",
				"type":                   "working_capital_term_loan",
				"max_amount":             50000.0,
				"suggested_tenor_months": 12.0,
				"currency":               "SAR",
				"intended_use":           "inventory purchase",
			},
		},
	}

	Reconcile(data)

	offers := data["available_offers"].([]any)
	offer := offers[0].(map[string]any)

	assert.Equal(t, "working_capital_loan", offer["product_type"])
	assert.Equal(t, 50000.0, offer["amount"])
	assert.Equal(t, 12.0, offer["tenor_months"])
	assert.NotContains(t, offer, "type")
	assert.NotContains(t, offer, "max_amount")
	assert.NotContains(t, offer, "suggested_tenor_months")
	assert.NotContains(t, offer, "intended_use")
}

func TestReconcile_InvoiceFinancingSynonym(t *testing.T) {
	data := map[string]any{
		"available_offers": []any{
			map[string]any{
				"offer_id":   "offer-1",
				"type":       "invoice_financing",
				"max_amount": 5000.0,
			},
		},
	}

	Reconcile(data)

	offer := data["available_offers"].([]any)[0].(map[string]any)
	assert.Equal(t, "invoice_factoring", offer["product_type"])
	assert.Equal(t, 5000.0, offer["amount"])
	assert.NotContains(t, offer, "type")
	assert.NotContains(t, offer, "max_amount")
}

func TestReconcile_UnknownOfferTypeBecomesOther(t *testing.T) {
	data := map[string]any{
		"available_offers": []any{
			map[string]any{"offer_id": "offer-1", "type": "mystery_product"},
		},
	}

	Reconcile(data)

	offer := data["available_offers"].([]any)[0].(map[string]any)
	assert.Equal(t, "other", offer["product_type"])
}

func TestReconcile_ExistingProductTypeWins(t *testing.T) {
	data := map[string]any{
		"available_offers": []any{
			map[string]any{
				"offer_id":     "offer-1",
				"type":         "invoice_financing",
				"product_type": "overdraft",
			},
		},
	}

	Reconcile(data)

	offer := data["available_offers"].([]any)[0].(map[string]any)
	assert.Equal(t, "overdraft", offer["product_type"])
}

func TestReconcile_FlattensObjectListsToStrings(t *testing.T) {
	data := map[string]any{
		"early_warning_flags": []any{
			"revenue dip in Q2",
			map[string]any{"description": "overdue invoices rising"},
			map[string]any{"code": "EWF-3"},
		},
		"segment_specific_risks": []any{
			map[string]any{"risk": "delivery platform dependence"},
		},
	}

	Reconcile(data)

	assert.Equal(t, []any{
		"revenue dip in Q2",
		"overdue invoices rising",
		"EWF-3",
	}, data["early_warning_flags"])
	assert.Equal(t, []any{"delivery platform dependence"}, data["segment_specific_risks"])
}

func TestReconcile_KeepsListWhenNothingExtractable(t *testing.T) {
	original := []any{map[string]any{"unrelated": "value"}}
	data := map[string]any{"early_warning_flags": original}

	Reconcile(data)

	assert.Equal(t, original, data["early_warning_flags"])
}

func TestReconcile_TierDefaults(t *testing.T) {
	for _, tc := range []struct {
		name string
		data map[string]any
		want string
	}{
		{"missing", map[string]any{}, "standard"},
		{"invalid", map[string]any{"subscription_tier": "platinum"}, "standard"},
		{"valid", map[string]any{"subscription_tier": "enterprise"}, "enterprise"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			Reconcile(tc.data)
			assert.Equal(t, tc.want, tc.data["subscription_tier"])
		})
	}
}

func TestReconcile_PrunesUnknownRootFields(t *testing.T) {
	data := map[string]any{
		"customer_id":     "42",
		"extra_narrative": "the model likes to chat",
		"internal_notes":  map[string]any{"a": 1},
	}

	Reconcile(data)

	assert.Contains(t, data, "customer_id")
	assert.NotContains(t, data, "extra_narrative")
	assert.NotContains(t, data, "internal_notes")
}

func TestReconcile_Idempotent(t *testing.T) {
	data := map[string]any{
		"customer_id": "42",
		"available_offers": []any{
			map[string]any{
				"offer_id":   "offer-1",
				"type":       "invoice_financing",
				"max_amount": 10000.0,
			},
		},
		"early_warning_flags": []any{map[string]any{"description": "flag"}},
	}

	once := Reconcile(data)
	firstPass, err := json.Marshal(once)
	require.NoError(t, err)

	secondPass, err := json.Marshal(Reconcile(once))
	require.NoError(t, err)

	assert.JSONEq(t, string(firstPass), string(secondPass))
}

func TestReconcile_NilAndNonListInputsAreSafe(t *testing.T) {
	assert.Nil(t, Reconcile(nil))

	data := map[string]any{
		"available_offers":    "not a list",
		"early_warning_flags": 7,
	}
	Reconcile(data)
	assert.Equal(t, "not a list", data["available_offers"])
	assert.Equal(t, 7, data["early_warning_flags"])
}
