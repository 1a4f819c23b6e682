// Package reconcile repairs common shape deviations in raw model output
// before strict validation. Every rule is best-effort and total: reconciling
// never fails, and reconciling twice gives the same result as once.
package reconcile

// productTypeSynonyms maps offer type names the model tends to invent onto
// the fixed product_type enumeration.
var productTypeSynonyms = map[string]string{
	"working_capital_term_loan": "working_capital_loan",
	"supplier_payments_line":    "working_capital_loan",
	"invoice_factoring":         "invoice_factoring",
	"invoice_financing":         "invoice_factoring",
	"invoice_financing_limit":   "invoice_factoring",
	"terminal_financing":        "terminal_financing",
	"overdraft":                 "overdraft",
	"card_limit":                "card_limit",
}

var allowedOfferFields = map[string]struct{}{
	"offer_id":               {},
	"product_type":           {},
	"amount":                 {},
	"currency":               {},
	"tenor_months":           {},
	"interest_rate_percent":  {},
	"fee_percent":            {},
	"grace_period_days":      {},
	"collateral_required":    {},
	"collateral_description": {},
	"conditions_precedent":   {},
	"risk_tier":              {},
}

// stringListFields hold plain strings in the schema, but the model sometimes
// emits objects instead.
var stringListFields = []string{
	"early_warning_flags",
	"recommendations_for_lender",
	"improvement_actions_for_merchant",
	"segment_specific_strengths",
	"segment_specific_risks",
}

// candidateTextKeys is the ordered list of keys tried when extracting a
// representative string from an object element.
var candidateTextKeys = []string{
	"description", "recommendation", "action", "text", "comment",
	"code", "strength", "risk", "detail",
}

var validTiers = map[string]struct{}{
	"free": {}, "standard": {}, "pro": {}, "enterprise": {},
}

var allowedRootFields = map[string]struct{}{
	"customer_id":                      {},
	"usage_mode":                       {},
	"subscription_tier":                {},
	"kyc_profile":                      {},
	"behaviour_profile":                {},
	"financial_health":                 {},
	"cashflow_forecast":                {},
	"credit_analysis":                  {},
	"safety_and_compliance":            {},
	"audit_metadata":                   {},
	"available_offers":                 {},
	"early_warning_flags":              {},
	"recommendations_for_lender":       {},
	"improvement_actions_for_merchant": {},
	"segment_specific_strengths":       {},
	"segment_specific_risks":           {},
	"lender_profile":                   {},
	"economics":                        {},
}

// Reconcile normalizes a decoded model response in place and returns it.
func Reconcile(data map[string]any) map[string]any {
	if data == nil {
		return data
	}

	reconcileOffers(data)
	reconcileStringLists(data)
	reconcileTier(data)
	pruneRootFields(data)

	return data
}

func reconcileOffers(data map[string]any) {
	offers, ok := data["available_offers"].([]any)
	if !ok {
		return
	}

	for _, item := range offers {
		offer, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if rawType, ok := offer["type"]; ok {
			if _, exists := offer["product_type"]; !exists {
				mapped := "other"
				if name, ok := rawType.(string); ok {
					if synonym, ok := productTypeSynonyms[name]; ok {
						mapped = synonym
					}
				}
				offer["product_type"] = mapped
			}
		}
		renameKey(offer, "max_amount", "amount")
		renameKey(offer, "suggested_tenor_months", "tenor_months")

		for key := range offer {
			if _, ok := allowedOfferFields[key]; !ok {
				delete(offer, key)
			}
		}
	}
}

func renameKey(obj map[string]any, from, to string) {
	value, ok := obj[from]
	if !ok {
		return
	}
	if _, exists := obj[to]; !exists {
		obj[to] = value
	}
	delete(obj, from)
}

func reconcileStringLists(data map[string]any) {
	for _, field := range stringListFields {
		raw, ok := data[field]
		if !ok {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			continue
		}

		flattened := flattenToStrings(items)
		// Only replace when something was extracted; an extraction that
		// empties a non-empty field leaves the original untouched.
		if len(flattened) > 0 {
			data[field] = flattened
		}
	}
}

func flattenToStrings(items []any) []any {
	result := make([]any, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			result = append(result, v)
		case map[string]any:
			for _, key := range candidateTextKeys {
				if text, ok := v[key].(string); ok && text != "" {
					result = append(result, text)
					break
				}
			}
		}
	}
	return result
}

func reconcileTier(data map[string]any) {
	tier, ok := data["subscription_tier"].(string)
	if !ok {
		data["subscription_tier"] = "standard"
		return
	}
	if _, valid := validTiers[tier]; !valid {
		data["subscription_tier"] = "standard"
	}
}

func pruneRootFields(data map[string]any) {
	for key := range data {
		if _, ok := allowedRootFields[key]; !ok {
			delete(data, key)
		}
	}
}
