package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/silkysystems/credit-engine/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListSince(ctx context.Context, db *gorm.DB, customerID snowflake.ID, since time.Time) ([]domain.UsageEvent, error) {
	var events []domain.UsageEvent
	err := db.WithContext(ctx).
		Where("customer_id = ? AND timestamp >= ?", customerID, since).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
