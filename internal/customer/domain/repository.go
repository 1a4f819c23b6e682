package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB) ([]*Customer, error)
	CountUsers(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (int64, error)
}
