package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/silkysystems/credit-engine/internal/snapshot/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB, customerID snowflake.ID, viewerType, usageMode, subscriptionTier string, lenderID *string) (*domain.DashboardSnapshot, error) {
	stmt := db.WithContext(ctx).
		Where("customer_id = ? AND viewer_type = ? AND usage_mode = ? AND subscription_tier = ?",
			customerID, viewerType, usageMode, subscriptionTier)
	if lenderID == nil {
		stmt = stmt.Where("lender_id IS NULL")
	} else {
		stmt = stmt.Where("lender_id = ?", *lenderID)
	}

	var snap domain.DashboardSnapshot
	err := stmt.
		Order("snapshot_at desc, id desc").
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, snap *domain.DashboardSnapshot) error {
	return db.WithContext(ctx).Create(snap).Error
}

func (r *repo) LatestByCustomer(ctx context.Context, db *gorm.DB, customerIDs []snowflake.ID) (map[snowflake.ID]*domain.DashboardSnapshot, error) {
	latest := make(map[snowflake.ID]*domain.DashboardSnapshot, len(customerIDs))
	if len(customerIDs) == 0 {
		return latest, nil
	}

	var snaps []domain.DashboardSnapshot
	err := db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Order("snapshot_at desc, id desc").
		Find(&snaps).Error
	if err != nil {
		return nil, err
	}

	for i := range snaps {
		snap := snaps[i]
		if _, ok := latest[snap.CustomerID]; !ok {
			latest[snap.CustomerID] = &snap
		}
	}
	return latest, nil
}
