// Package seed bootstraps a demo merchant so a fresh install has data to
// generate a dashboard from.
package seed

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/silkysystems/credit-engine/internal/billing/domain"
	customerdomain "github.com/silkysystems/credit-engine/internal/customer/domain"
	usagedomain "github.com/silkysystems/credit-engine/internal/usage/domain"
	"gorm.io/gorm"
)

const (
	demoLegalName = "Riyadh Burger House Co."
	demoTradeName = "Burger House - Riyadh"
	demoCRNumber  = "1010123456"
	demoVATNumber = "310123456700003"
)

// EnsureDemoMerchant seeds one merchant with ~90 days of usage events, a year
// of POS transactions and six months of invoices. A database that already has
// a customer is assumed seeded and left alone.
func EnsureDemoMerchant(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&customerdomain.Customer{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		customer, err := createDemoCustomer(ctx, tx, node)
		if err != nil {
			return err
		}

		users, err := createDemoUsers(ctx, tx, node, customer.ID)
		if err != nil {
			return err
		}
		if err := createDemoUsage(ctx, tx, node, customer.ID, users); err != nil {
			return err
		}
		if err := createDemoTransactions(ctx, tx, node, customer.ID, customer.BranchesCount); err != nil {
			return err
		}
		return createDemoInvoices(ctx, tx, node, customer.ID)
	})
}

func createDemoCustomer(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*customerdomain.Customer, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	founded := today.AddDate(-5, 0, 0)
	goLive := today.AddDate(-2, 0, 0)

	customer := customerdomain.Customer{
		ID:                 node.Generate(),
		LegalName:          demoLegalName,
		TradeName:          strPtr(demoTradeName),
		CRNumber:           strPtr(demoCRNumber),
		VATNumber:          strPtr(demoVATNumber),
		Country:            strPtr("Saudi Arabia"),
		City:               strPtr("Riyadh"),
		Industry:           strPtr("F&B_QSR"),
		FoundedDate:        &founded,
		BranchesCount:      3,
		AcquisitionChannel: "silky_direct",
	}
	if err := tx.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	settings := customerdomain.CustomerSetting{
		ID:               node.Generate(),
		CustomerID:       customer.ID,
		SubscriptionPlan: "pro",
		ModulesEnabled:   "POS,Inventory,Invoices",
		GoLiveDate:       &goLive,
		Status:           "active",
	}
	if err := tx.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func createDemoUsers(ctx context.Context, tx *gorm.DB, node *snowflake.Node, customerID snowflake.ID) ([]customerdomain.User, error) {
	users := []customerdomain.User{
		{ID: node.Generate(), CustomerID: customerID, Name: "Store Manager", Role: strPtr("manager")},
		{ID: node.Generate(), CustomerID: customerID, Name: "Cashier 1", Role: strPtr("cashier")},
		{ID: node.Generate(), CustomerID: customerID, Name: "Cashier 2", Role: strPtr("cashier")},
	}
	if err := tx.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// createDemoUsage fills roughly 40 of the trailing 90 days with POS logins
// and a trickle of inventory updates.
func createDemoUsage(ctx context.Context, tx *gorm.DB, node *snowflake.Node, customerID snowflake.ID, users []customerdomain.User) error {
	now := time.Now().UTC()
	events := make([]usagedomain.UsageEvent, 0, 1024)

	for dayOffset := 0; dayOffset < 90; dayOffset++ {
		if rand.Intn(100) >= 45 {
			continue
		}
		day := now.AddDate(0, 0, -dayOffset)

		for i := 0; i < 5+rand.Intn(16); i++ {
			userID := users[rand.Intn(len(users))].ID
			events = append(events, usagedomain.UsageEvent{
				ID:         node.Generate(),
				CustomerID: customerID,
				UserID:     &userID,
				Module:     "POS",
				EventType:  "login",
				Timestamp:  day.Add(-time.Duration(rand.Intn(600)) * time.Minute),
			})
		}
		for i := 0; i < 1+rand.Intn(5); i++ {
			userID := users[rand.Intn(len(users))].ID
			events = append(events, usagedomain.UsageEvent{
				ID:         node.Generate(),
				CustomerID: customerID,
				UserID:     &userID,
				Module:     "Inventory",
				EventType:  "stock_update",
				Timestamp:  day.Add(-time.Duration(rand.Intn(600)) * time.Minute),
			})
		}
	}

	if len(events) == 0 {
		return nil
	}
	return tx.WithContext(ctx).CreateInBatches(events, 200).Error
}

func createDemoTransactions(ctx context.Context, tx *gorm.DB, node *snowflake.Node, customerID snowflake.ID, branches int) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	txs := make([]billingdomain.PosTransaction, 0, 240)

	for monthOffset := 0; monthOffset < 12; monthOffset++ {
		monthStart := today.AddDate(0, 0, -monthOffset*30)
		for i := 0; i < 20; i++ {
			branch := 1 + rand.Intn(branches)
			txs = append(txs, billingdomain.PosTransaction{
				ID:            node.Generate(),
				CustomerID:    customerID,
				Date:          monthStart.AddDate(0, 0, -rand.Intn(26)),
				NetSales:      3000 + rand.Float64()*12000,
				BranchID:      &branch,
				PaymentMethod: strPtr("card"),
			})
		}
	}
	return tx.WithContext(ctx).CreateInBatches(txs, 200).Error
}

func createDemoInvoices(ctx context.Context, tx *gorm.DB, node *snowflake.Node, customerID snowflake.ID) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	invoices := make([]billingdomain.Invoice, 0, 30)

	for monthOffset := 0; monthOffset < 6; monthOffset++ {
		monthStart := today.AddDate(0, 0, -monthOffset*30)
		for i := 0; i < 5; i++ {
			issue := monthStart.AddDate(0, 0, -rand.Intn(11))
			due := issue.AddDate(0, 0, 30)

			invoice := billingdomain.Invoice{
				ID:         node.Generate(),
				CustomerID: customerID,
				IssueDate:  issue,
				DueDate:    due,
				Amount:     5000 + rand.Float64()*15000,
				Status:     billingdomain.StatusOverdue,
			}
			if rand.Intn(100) < 75 {
				paid := due.AddDate(0, 0, rand.Intn(16)-5)
				invoice.Status = billingdomain.StatusPaid
				invoice.PaidDate = &paid
			}
			invoices = append(invoices, invoice)
		}
	}
	return tx.WithContext(ctx).CreateInBatches(invoices, 200).Error
}

func strPtr(s string) *string { return &s }
