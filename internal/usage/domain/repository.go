package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListSince(ctx context.Context, db *gorm.DB, customerID snowflake.ID, since time.Time) ([]UsageEvent, error)
}
