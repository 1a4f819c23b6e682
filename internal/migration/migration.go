// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted environments.
package migration

import (
	"errors"

	billingdomain "github.com/silkysystems/credit-engine/internal/billing/domain"
	"github.com/silkysystems/credit-engine/internal/config"
	customerdomain "github.com/silkysystems/credit-engine/internal/customer/domain"
	"github.com/silkysystems/credit-engine/internal/seed"
	snapshotdomain "github.com/silkysystems/credit-engine/internal/snapshot/domain"
	usagedomain "github.com/silkysystems/credit-engine/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := Run(conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoMerchant(conn)
		}
		return nil
	}),
)

// Run applies the schema for every persisted model. AutoMigrate keeps the
// service dialect-agnostic across postgres, mysql and sqlite.
func Run(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	return db.AutoMigrate(
		&customerdomain.Customer{},
		&customerdomain.CustomerSetting{},
		&customerdomain.User{},
		&usagedomain.UsageEvent{},
		&billingdomain.PosTransaction{},
		&billingdomain.Invoice{},
		&snapshotdomain.DashboardSnapshot{},
	)
}
