package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Viewer types accepted by the HTTP surface.
const (
	ViewerSilkyInternal = "silky_internal"
	ViewerBankPartner   = "bank_partner"
	ViewerMerchant      = "merchant"
)

// Usage modes derived from viewer types.
const (
	ModeInternalAnalytics = "internal_analytics"
	ModeBankPartnerPortal = "bank_partner_portal"
	ModeMerchantPortal    = "merchant_portal"
)

// Subscription tiers.
const (
	TierFree       = "free"
	TierStandard   = "standard"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// GenerateRequest asks for a dashboard for one customer as seen by one
// viewer. UsageMode and SubscriptionTier are optional overrides; when empty
// they are derived from the viewer type and stored plan.
type GenerateRequest struct {
	CustomerID       snowflake.ID
	ViewerType       string
	UsageMode        string
	SubscriptionTier string
	LenderID         *string
}

// Context is the resolved view tuple. Together with the customer id it keys
// the snapshot cache: one model call at most per distinct context.
type Context struct {
	ViewerType       string
	UsageMode        string
	SubscriptionTier string
	LenderID         *string
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*CreditDashboard, error)
}

var ErrInvalidViewerType = errors.New("invalid_viewer_type")

// ModelOutputInvalidError reports that the model's JSON, even after
// reconciliation, does not match the dashboard schema. It is an upstream
// dependency fault, not a caller error, and is never retried here.
type ModelOutputInvalidError struct {
	Errors []string
	Raw    string
}

func (e *ModelOutputInvalidError) Error() string {
	return fmt.Sprintf("model output did not match dashboard schema: %v", e.Errors)
}
