package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/silkysystems/credit-engine/internal/customer/domain"
	snapshotdomain "github.com/silkysystems/credit-engine/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Snapshots snapshotdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	snapshots snapshotdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("customer.service"),
		repo:      p.Repo,
		snapshots: p.Snapshots,
	}
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) ListWithLatestCredit(ctx context.Context) ([]domain.CustomerSummary, error) {
	customers, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.ID)
	}

	latest, err := s.snapshots.LatestByCustomer(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		summary := domain.CustomerSummary{
			ID:        customer.ID.String(),
			LegalName: customer.LegalName,
			TradeName: customer.TradeName,
			City:      customer.City,
			Segment:   customer.Industry,
		}
		if snap, ok := latest[customer.ID]; ok {
			summary.LatestCredit = &domain.LatestCredit{
				CreditScore:         snap.CreditScore,
				CreditBand:          snap.CreditBand,
				CreditLimitAmount:   snap.RecommendedCreditLimitAmount,
				CreditLimitCurrency: snap.RecommendedCreditLimitCurrency,
				MaxSafeTenorMonths:  snap.MaxSafeTenorMonths,
				SnapshotAt:          snap.SnapshotAt,
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
