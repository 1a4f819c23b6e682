package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/silkysystems/credit-engine/internal/billing/domain"
	billingrepository "github.com/silkysystems/credit-engine/internal/billing/repository"
	customerdomain "github.com/silkysystems/credit-engine/internal/customer/domain"
	customerrepository "github.com/silkysystems/credit-engine/internal/customer/repository"
	"github.com/silkysystems/credit-engine/internal/features/domain"
	usagedomain "github.com/silkysystems/credit-engine/internal/usage/domain"
	usagerepository "github.com/silkysystems/credit-engine/internal/usage/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestExtractor(t *testing.T) (domain.Extractor, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&customerdomain.CustomerSetting{},
		&customerdomain.User{},
		&usagedomain.UsageEvent{},
		&billingdomain.PosTransaction{},
		&billingdomain.Invoice{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Customers: customerrepository.Provide(),
		Usage:     usagerepository.Provide(),
		Billing:   billingrepository.Provide(),
	})
	return svc, db, node
}

func createCustomer(t *testing.T, db *gorm.DB, node *snowflake.Node, goLive *time.Time) customerdomain.Customer {
	t.Helper()

	city := "Riyadh"
	segment := "F&B_QSR"
	founded := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	customer := customerdomain.Customer{
		ID:                 node.Generate(),
		LegalName:          "Riyadh Burger House Co.",
		City:               &city,
		Industry:           &segment,
		FoundedDate:        &founded,
		BranchesCount:      3,
		AcquisitionChannel: "silky_direct",
	}
	require.NoError(t, db.Create(&customer).Error)

	settings := customerdomain.CustomerSetting{
		ID:               node.Generate(),
		CustomerID:       customer.ID,
		SubscriptionPlan: "pro",
		ModulesEnabled:   "POS, Inventory,Invoices",
		GoLiveDate:       goLive,
		Status:           "active",
	}
	require.NoError(t, db.Create(&settings).Error)
	return customer
}

func TestExtractIdentity_UnknownCustomer(t *testing.T) {
	svc, _, node := newTestExtractor(t)

	_, err := svc.ExtractIdentity(context.Background(), node.Generate())
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)
}

func TestExtractIdentity_TenureAndModules(t *testing.T) {
	svc, db, node := newTestExtractor(t)

	goLive := time.Now().UTC().AddDate(0, -14, -3)
	customer := createCustomer(t, db, node, &goLive)

	kyc, err := svc.ExtractIdentity(context.Background(), customer.ID)
	require.NoError(t, err)

	assert.Equal(t, "Riyadh Burger House Co.", kyc.LegalName)
	assert.Equal(t, []string{"POS", "Inventory", "Invoices"}, kyc.RelationshipWithSilky.ModulesEnabled)
	assert.Equal(t, 14, kyc.RelationshipWithSilky.TenureMonths)
	assert.Equal(t, "unknown", kyc.RelationshipWithSilky.SilkyPaymentBehaviour)
	require.NotNil(t, kyc.RelationshipWithSilky.SubscriptionPlan)
	assert.Equal(t, "pro", *kyc.RelationshipWithSilky.SubscriptionPlan)
	require.NotNil(t, kyc.Registration.YearsInBusiness)
}

func TestExtractIdentity_NoGoLiveDate(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	kyc, err := svc.ExtractIdentity(context.Background(), customer.ID)
	require.NoError(t, err)

	assert.Nil(t, kyc.RelationshipWithSilky.GoLiveDate)
	assert.Equal(t, 0, kyc.RelationshipWithSilky.TenureMonths)
}

func TestExtractUsage_ActiveStatusAndAdoption(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	userA := customerdomain.User{ID: node.Generate(), CustomerID: customer.ID, Name: "Cashier 1"}
	userB := customerdomain.User{ID: node.Generate(), CustomerID: customer.ID, Name: "Cashier 2"}
	userC := customerdomain.User{ID: node.Generate(), CustomerID: customer.ID, Name: "Manager"}
	require.NoError(t, db.Create(&[]customerdomain.User{userA, userB, userC}).Error)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// 22 distinct active days, alternating the two active users.
	events := make([]usagedomain.UsageEvent, 0, 44)
	for day := 0; day < 22; day++ {
		userID := userA.ID
		if day%2 == 1 {
			userID = userB.ID
		}
		ts := now.AddDate(0, 0, -day)
		events = append(events,
			usagedomain.UsageEvent{
				ID: node.Generate(), CustomerID: customer.ID, UserID: &userID,
				Module: "POS", EventType: "login", Timestamp: ts,
			},
			usagedomain.UsageEvent{
				ID: node.Generate(), CustomerID: customer.ID, UserID: &userID,
				Module: "Inventory", EventType: "stock_update", Timestamp: ts.Add(time.Hour),
			},
		)
	}
	require.NoError(t, db.Create(&events).Error)

	usage, err := svc.ExtractUsage(context.Background(), customer.ID, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, usage.Activity.Status)
	assert.Equal(t, 22, usage.Activity.ActiveDaysLast90)
	assert.Equal(t, 44, usage.Activity.LoginsLast90)
	assert.Equal(t, 2, usage.Activity.ActiveUsers)
	assert.Equal(t, 3, usage.Activity.TotalUsers)
	assert.LessOrEqual(t, usage.Activity.ActiveUsers, usage.Activity.TotalUsers)

	require.Len(t, usage.FeatureAdoption, 2)
	assert.Equal(t, "Inventory", usage.FeatureAdoption[0].Module)
	assert.Equal(t, "POS", usage.FeatureAdoption[1].Module)
	assert.Equal(t, "low", usage.FeatureAdoption[0].UsageLevel)
	assert.Equal(t, 22, usage.FeatureAdoption[0].KeyMetrics["events_last_90"])
}

func TestExtractUsage_NoEvents(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	usage, err := svc.ExtractUsage(context.Background(), customer.ID, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInactive, usage.Activity.Status)
	assert.Zero(t, usage.Activity.ActiveDaysLast90)
	assert.Zero(t, usage.Activity.LoginsLast90)
	assert.Empty(t, usage.FeatureAdoption)
}

func TestExtractUsage_EventsOutsideWindowIgnored(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	old := usagedomain.UsageEvent{
		ID: node.Generate(), CustomerID: customer.ID,
		Module: "POS", EventType: "login", Timestamp: now.AddDate(0, 0, -120),
	}
	require.NoError(t, db.Create(&old).Error)

	usage, err := svc.ExtractUsage(context.Background(), customer.ID, now)
	require.NoError(t, err)
	assert.Zero(t, usage.Activity.LoginsLast90)
}

func TestExtractFinancial_MonthlyBucketsAndGrowth(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	now := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	txs := []billingdomain.PosTransaction{
		{ID: node.Generate(), CustomerID: customer.ID, Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), NetSales: 400},
		{ID: node.Generate(), CustomerID: customer.ID, Date: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), NetSales: 600},
		{ID: node.Generate(), CustomerID: customer.ID, Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), NetSales: 1200},
	}
	require.NoError(t, db.Create(&txs).Error)

	financial, err := svc.ExtractFinancial(context.Background(), customer.ID, now)
	require.NoError(t, err)

	require.Len(t, financial.MonthlyRevenue, 2)
	assert.Equal(t, "2025-03-01", financial.MonthlyRevenue[0].Month)
	assert.Equal(t, 1000.0, financial.MonthlyRevenue[0].Revenue)
	assert.Equal(t, "2025-04-01", financial.MonthlyRevenue[1].Month)
	assert.Equal(t, 1200.0, financial.MonthlyRevenue[1].Revenue)

	assert.InDelta(t, 1100.0, financial.AvgMonthlyRevenue, 0.001)
	assert.InDelta(t, 0.2, financial.MoMGrowth, 0.001)

	require.NotNil(t, financial.RevenuePeriod)
	assert.Equal(t, "2025-03-01 to 2025-04-01", *financial.RevenuePeriod)
}

func TestExtractFinancial_SingleMonthHasZeroGrowth(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	now := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	tx := billingdomain.PosTransaction{
		ID: node.Generate(), CustomerID: customer.ID,
		Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), NetSales: 900,
	}
	require.NoError(t, db.Create(&tx).Error)

	financial, err := svc.ExtractFinancial(context.Background(), customer.ID, now)
	require.NoError(t, err)
	assert.Zero(t, financial.MoMGrowth)
}

func TestExtractFinancial_NoRecords(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	financial, err := svc.ExtractFinancial(context.Background(), customer.ID, time.Now().UTC())
	require.NoError(t, err)

	assert.Empty(t, financial.MonthlyRevenue)
	assert.Zero(t, financial.AvgMonthlyRevenue)
	assert.Zero(t, financial.MoMGrowth)
	assert.Zero(t, financial.OverdueInvoicesRatio)
	assert.Nil(t, financial.RevenuePeriod)
}

func TestExtractFinancial_OverdueRatio(t *testing.T) {
	svc, db, node := newTestExtractor(t)
	customer := createCustomer(t, db, node, nil)

	now := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	paid := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	invoices := []billingdomain.Invoice{
		{ID: node.Generate(), CustomerID: customer.ID, IssueDate: now.AddDate(0, -1, 0), DueDate: now, Amount: 5000, Status: billingdomain.StatusPaid, PaidDate: &paid},
		{ID: node.Generate(), CustomerID: customer.ID, IssueDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, -1, 0), Amount: 3000, Status: billingdomain.StatusPaid, PaidDate: &paid},
		{ID: node.Generate(), CustomerID: customer.ID, IssueDate: now.AddDate(0, -1, 0), DueDate: now, Amount: 2500, Status: billingdomain.StatusOpen},
		{ID: node.Generate(), CustomerID: customer.ID, IssueDate: now.AddDate(0, -3, 0), DueDate: now.AddDate(0, -2, 0), Amount: 4000, Status: billingdomain.StatusOverdue},
	}
	require.NoError(t, db.Create(&invoices).Error)

	financial, err := svc.ExtractFinancial(context.Background(), customer.ID, now)
	require.NoError(t, err)

	assert.Len(t, financial.Invoices, 4)
	assert.InDelta(t, 0.25, financial.OverdueInvoicesRatio, 0.001)
}
