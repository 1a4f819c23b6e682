package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindLatest returns the newest snapshot for the exact context tuple, or
	// nil when none exists. A nil lenderID matches only rows with no lender.
	FindLatest(ctx context.Context, db *gorm.DB, customerID snowflake.ID, viewerType, usageMode, subscriptionTier string, lenderID *string) (*DashboardSnapshot, error)
	// Insert appends a snapshot row. Snapshots are never updated or deleted.
	Insert(ctx context.Context, db *gorm.DB, snap *DashboardSnapshot) error
	// LatestByCustomer returns each customer's newest snapshot regardless of
	// context, keyed by customer id.
	LatestByCustomer(ctx context.Context, db *gorm.DB, customerIDs []snowflake.ID) (map[snowflake.ID]*DashboardSnapshot, error)
}
