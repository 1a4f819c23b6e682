// Package schema performs the strict decode of reconciled model output into
// the typed dashboard. Repair lives in the reconcile package; this one only
// accepts or rejects.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/silkysystems/credit-engine/internal/dashboard/domain"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// DecodeTree marshals a reconciled tree and decodes it into the dashboard
// type. Any structural mismatch is reported as a ModelOutputInvalidError
// carrying the raw model text for diagnosis.
func (v *Validator) DecodeTree(tree map[string]any, raw string) (*domain.CreditDashboard, error) {
	body, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshal reconciled tree: %w", err)
	}

	dashboard, err := v.DecodeBytes(body)
	if err != nil {
		var invalid *domain.ModelOutputInvalidError
		if errors.As(err, &invalid) {
			invalid.Raw = raw
		}
		return nil, err
	}
	return dashboard, nil
}

// DecodeBytes decodes and validates a serialized dashboard. Used both for
// fresh model output and for stored snapshot bodies.
func (v *Validator) DecodeBytes(body []byte) (*domain.CreditDashboard, error) {
	var dashboard domain.CreditDashboard
	if err := json.Unmarshal(body, &dashboard); err != nil {
		return nil, &domain.ModelOutputInvalidError{
			Errors: []string{err.Error()},
			Raw:    string(body),
		}
	}

	if err := v.validate.Struct(&dashboard); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		messages := make([]string, 0, len(verrs))
		for _, fieldErr := range verrs {
			messages = append(messages, fmt.Sprintf("%s: failed %q", fieldErr.Namespace(), fieldErr.Tag()))
		}
		return nil, &domain.ModelOutputInvalidError{
			Errors: messages,
			Raw:    string(body),
		}
	}

	return &dashboard, nil
}
