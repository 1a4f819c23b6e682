package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/silkysystems/credit-engine/internal/config"
	"github.com/silkysystems/credit-engine/internal/dashboard/domain"
	"github.com/silkysystems/credit-engine/internal/dashboard/prompt"
	"github.com/silkysystems/credit-engine/internal/dashboard/reconcile"
	"github.com/silkysystems/credit-engine/internal/dashboard/schema"
	featuresdomain "github.com/silkysystems/credit-engine/internal/features/domain"
	"github.com/silkysystems/credit-engine/internal/llm"
	"github.com/silkysystems/credit-engine/internal/observability"
	snapshotdomain "github.com/silkysystems/credit-engine/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Policies  *config.LenderPolicyHolder
	GenID     *snowflake.Node
	Extractor featuresdomain.Extractor
	Snapshots snapshotdomain.Repository
	Provider  llm.Provider
	Metrics   *observability.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	cfg       config.Config
	policies  *config.LenderPolicyHolder
	genID     *snowflake.Node
	extractor featuresdomain.Extractor
	snapshots snapshotdomain.Repository
	provider  llm.Provider
	metrics   *observability.Metrics
	validator *schema.Validator
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("dashboard.service"),
		cfg:       p.Cfg,
		policies:  p.Policies,
		genID:     p.GenID,
		extractor: p.Extractor,
		snapshots: p.Snapshots,
		provider:  p.Provider,
		metrics:   p.Metrics,
		validator: schema.New(),
	}
}

// Generate runs the full pipeline: derive features, resolve the view tuple,
// serve from the snapshot cache when possible, otherwise invoke the model,
// reconcile and validate its output, and persist a new snapshot. The snapshot
// is only written after the dashboard passed validation.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.CreditDashboard, error) {
	kyc, err := s.extractor.ExtractIdentity(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	view, err := ResolveContext(req, kyc)
	if err != nil {
		return nil, err
	}

	cached, err := s.lookupCached(ctx, req.CustomerID, view)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		s.metrics.CacheHit()
		s.log.Info("returning cached dashboard",
			zap.Int64("customer_id", int64(req.CustomerID)),
			zap.String("viewer_type", view.ViewerType))
		return cached, nil
	}
	s.metrics.CacheMiss()

	now := time.Now().UTC()
	usage, err := s.extractor.ExtractUsage(ctx, req.CustomerID, now)
	if err != nil {
		return nil, err
	}
	financial, err := s.extractor.ExtractFinancial(ctx, req.CustomerID, now)
	if err != nil {
		return nil, err
	}

	lenderProfile := BuildLenderProfile(view.LenderID, kyc.Segment, s.policies.Get())

	text, err := prompt.Build(prompt.Input{
		CustomerID:         req.CustomerID.String(),
		ViewerType:         view.ViewerType,
		UsageMode:          view.UsageMode,
		SubscriptionTier:   view.SubscriptionTier,
		Model:              s.cfg.OpenAIModel,
		KYC:                kyc,
		UsageMetrics:       usage,
		FinancialMetrics:   financial,
		LenderProfile:      lenderProfile,
		InputDataDateRange: financial.RevenuePeriod,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ModelInvocation()
	s.log.Info("invoking model",
		zap.Int64("customer_id", int64(req.CustomerID)),
		zap.String("model", s.cfg.OpenAIModel))
	raw, err := s.provider.Invoke(ctx, s.cfg.OpenAIModel, text)
	if err != nil {
		s.metrics.ModelFailure()
		return nil, fmt.Errorf("invoke model: %w", err)
	}

	var tree map[string]any
	if err := json.Unmarshal([]byte(StripFences(raw)), &tree); err != nil {
		s.metrics.ModelFailure()
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	reconcile.Reconcile(tree)

	dashboard, err := s.validator.DecodeTree(tree, raw)
	if err != nil {
		var invalid *domain.ModelOutputInvalidError
		if errors.As(err, &invalid) {
			s.metrics.ModelFailure()
			s.log.Error("model output failed schema validation",
				zap.Int64("customer_id", int64(req.CustomerID)),
				zap.Strings("validation_errors", invalid.Errors))
		}
		return nil, err
	}

	if err := s.persistSnapshot(ctx, req.CustomerID, view, dashboard, financial.RevenuePeriod); err != nil {
		return nil, err
	}
	s.metrics.DashboardGenerated()
	s.log.Info("generated dashboard",
		zap.Int64("customer_id", int64(req.CustomerID)),
		zap.Int("credit_score", dashboard.CreditAnalysis.CreditScore),
		zap.String("credit_band", dashboard.CreditAnalysis.CreditBand))

	return dashboard, nil
}

// lookupCached returns the stored dashboard for this exact view tuple, or nil
// when none exists. A stored body that no longer decodes counts as a miss so
// the dashboard gets regenerated instead of failing the request.
func (s *Service) lookupCached(ctx context.Context, customerID snowflake.ID, view domain.Context) (*domain.CreditDashboard, error) {
	snap, err := s.snapshots.FindLatest(ctx, s.db, customerID,
		view.ViewerType, view.UsageMode, view.SubscriptionTier, view.LenderID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	dashboard, err := s.validator.DecodeBytes(snap.DashboardJSON)
	if err != nil {
		s.log.Warn("stored snapshot no longer matches the schema, regenerating",
			zap.Int64("customer_id", int64(customerID)),
			zap.Int64("snapshot_id", int64(snap.ID)))
		return nil, nil
	}
	return dashboard, nil
}

func (s *Service) persistSnapshot(ctx context.Context, customerID snowflake.ID, view domain.Context, dashboard *domain.CreditDashboard, dateRange *string) error {
	body, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}

	analysis := dashboard.CreditAnalysis
	snap := &snapshotdomain.DashboardSnapshot{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		SnapshotAt: time.Now().UTC(),

		ViewerType:       view.ViewerType,
		UsageMode:        view.UsageMode,
		SubscriptionTier: view.SubscriptionTier,
		LenderID:         view.LenderID,

		DashboardJSON: datatypes.JSON(body),

		CreditScore:                    analysis.CreditScore,
		CreditBand:                     analysis.CreditBand,
		RecommendedCreditLimitAmount:   analysis.RecommendedCreditLimit.Amount,
		RecommendedCreditLimitCurrency: analysis.RecommendedCreditLimit.Currency,
		MaxSafeTenorMonths:             analysis.MaxSafeTenorMonths,
		DataQualityComment:             analysis.DataQualityComment,

		ModelVersion:       &s.cfg.OpenAIModel,
		ModelProvider:      strPtr("openai"),
		InputDataDateRange: dateRange,
	}

	return s.snapshots.Insert(ctx, s.db, snap)
}

// ResolveContext validates the viewer type and fills in the usage mode and
// subscription tier when the caller did not pin them.
func ResolveContext(req domain.GenerateRequest, kyc featuresdomain.KYCFeatures) (domain.Context, error) {
	viewer := req.ViewerType
	if viewer == "" {
		viewer = domain.ViewerSilkyInternal
	}
	switch viewer {
	case domain.ViewerSilkyInternal, domain.ViewerBankPartner, domain.ViewerMerchant:
	default:
		return domain.Context{}, domain.ErrInvalidViewerType
	}

	return domain.Context{
		ViewerType:       viewer,
		UsageMode:        ResolveUsageMode(viewer, req.UsageMode),
		SubscriptionTier: ResolveSubscriptionTier(req.SubscriptionTier, kyc),
		LenderID:         req.LenderID,
	}, nil
}

// ResolveUsageMode maps a viewer type onto its portal mode unless an explicit
// mode was requested.
func ResolveUsageMode(viewerType, override string) string {
	if override != "" {
		return override
	}
	switch viewerType {
	case domain.ViewerSilkyInternal:
		return domain.ModeInternalAnalytics
	case domain.ViewerBankPartner:
		return domain.ModeBankPartnerPortal
	case domain.ViewerMerchant:
		return domain.ModeMerchantPortal
	default:
		return domain.ModeInternalAnalytics
	}
}

// ResolveSubscriptionTier infers the tier from the stored plan name unless an
// explicit tier was requested. Unknown plans fall back to standard.
func ResolveSubscriptionTier(override string, kyc featuresdomain.KYCFeatures) string {
	if override != "" {
		return override
	}

	plan := ""
	if kyc.RelationshipWithSilky.SubscriptionPlan != nil {
		plan = strings.ToLower(*kyc.RelationshipWithSilky.SubscriptionPlan)
	}
	switch {
	case strings.Contains(plan, "pro"), strings.Contains(plan, "enterprise"):
		return domain.TierPro
	case strings.Contains(plan, "standard"):
		return domain.TierStandard
	case strings.Contains(plan, "free"), strings.Contains(plan, "trial"):
		return domain.TierFree
	default:
		return domain.TierStandard
	}
}

// BuildLenderProfile materializes the policy defaults for a lender view.
// Requests without a lender id get no profile.
func BuildLenderProfile(lenderID *string, segment *string, policy config.LenderPolicy) *domain.LenderProfile {
	if lenderID == nil || *lenderID == "" {
		return nil
	}

	allowed := []string{}
	if segment != nil && *segment != "" {
		allowed = append(allowed, *segment)
	}

	return &domain.LenderProfile{
		LenderID:               *lenderID,
		AllowedSegments:        allowed,
		MinScore:               intPtr(policy.MinScore),
		MaxExposurePerCustomer: floatPtr(policy.MaxExposurePerCustomer),
		MaxTenorMonths:         intPtr(policy.MaxTenorMonths),
		PricingStrategy:        strPtr(policy.PricingStrategy),
	}
}

// StripFences removes a markdown code fence wrapped around a JSON body. Some
// models fence their output despite being told not to.
func StripFences(raw string) string {
	out := strings.TrimSpace(raw)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
