package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListTransactionsSince(ctx context.Context, db *gorm.DB, customerID snowflake.ID, since time.Time) ([]PosTransaction, error)
	ListInvoicesSince(ctx context.Context, db *gorm.DB, customerID snowflake.ID, since time.Time) ([]Invoice, error)
}
