package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/silkysystems/credit-engine/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListTransactionsSince(ctx context.Context, db *gorm.DB, customerID snowflake.ID, since time.Time) ([]domain.PosTransaction, error) {
	var txs []domain.PosTransaction
	err := db.WithContext(ctx).
		Where("customer_id = ? AND date >= ?", customerID, since).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repo) ListInvoicesSince(ctx context.Context, db *gorm.DB, customerID snowflake.ID, since time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := db.WithContext(ctx).
		Where("customer_id = ? AND issue_date >= ?", customerID, since).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
