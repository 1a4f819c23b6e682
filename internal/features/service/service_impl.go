package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/silkysystems/credit-engine/internal/billing/domain"
	customerdomain "github.com/silkysystems/credit-engine/internal/customer/domain"
	"github.com/silkysystems/credit-engine/internal/features/domain"
	usagedomain "github.com/silkysystems/credit-engine/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	usageWindowDays       = 90
	financialWindowMonths = 24

	activeDaysActiveThreshold = 20
	activeDaysAtRiskThreshold = 5

	moduleEventsHighThreshold   = 3000
	moduleEventsMediumThreshold = 500
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Customers customerdomain.Repository
	Usage     usagedomain.Repository
	Billing   billingdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	customers customerdomain.Repository
	usage     usagedomain.Repository
	billing   billingdomain.Repository
}

func New(p Params) domain.Extractor {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("features.service"),
		customers: p.Customers,
		usage:     p.Usage,
		billing:   p.Billing,
	}
}

func (s *Service) ExtractIdentity(ctx context.Context, customerID snowflake.ID) (domain.KYCFeatures, error) {
	customer, err := s.customers.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.KYCFeatures{}, err
	}
	if customer == nil {
		return domain.KYCFeatures{}, customerdomain.ErrNotFound
	}

	today := time.Now().UTC()

	var yearsInBusiness *int
	if customer.FoundedDate != nil {
		years := today.Year() - customer.FoundedDate.Year()
		yearsInBusiness = &years
	}

	settings := customer.Settings

	var goLive *string
	tenureMonths := 0
	if settings != nil && settings.GoLiveDate != nil {
		formatted := settings.GoLiveDate.Format("2006-01-02")
		goLive = &formatted
		tenureMonths = wholeMonthsBetween(*settings.GoLiveDate, today)
	}

	var plan *string
	var modules []string
	if settings != nil {
		plan = &settings.SubscriptionPlan
		modules = splitModules(settings.ModulesEnabled)
	}

	return domain.KYCFeatures{
		LegalName: customer.LegalName,
		TradeName: customer.TradeName,
		Registration: domain.Registration{
			CRNumber:        customer.CRNumber,
			VATNumber:       customer.VATNumber,
			Country:         customer.Country,
			City:            customer.City,
			YearsInBusiness: yearsInBusiness,
		},
		Segment:            customer.Industry,
		BranchesCount:      customer.BranchesCount,
		AcquisitionChannel: customer.AcquisitionChannel,
		ReferralPartnerID:  customer.ReferralPartnerID,
		RelationshipWithSilky: domain.Relationship{
			GoLiveDate:            goLive,
			SubscriptionPlan:      plan,
			ModulesEnabled:        modules,
			TenureMonths:          tenureMonths,
			SilkyPaymentBehaviour: "unknown",
		},
	}, nil
}

func (s *Service) ExtractUsage(ctx context.Context, customerID snowflake.ID, now time.Time) (domain.UsageFeatures, error) {
	cutoff := now.Add(-usageWindowDays * 24 * time.Hour)

	events, err := s.usage.ListSince(ctx, s.db, customerID, cutoff)
	if err != nil {
		return domain.UsageFeatures{}, err
	}

	activeDates := make(map[string]struct{})
	activeUserIDs := make(map[snowflake.ID]struct{})
	moduleEvents := make(map[string]int)
	for _, evt := range events {
		activeDates[evt.Timestamp.UTC().Format("2006-01-02")] = struct{}{}
		if evt.UserID != nil {
			activeUserIDs[*evt.UserID] = struct{}{}
		}
		moduleEvents[evt.Module]++
	}

	totalUsers, err := s.customers.CountUsers(ctx, s.db, customerID)
	if err != nil {
		return domain.UsageFeatures{}, err
	}

	activeDays := len(activeDates)
	status := domain.StatusInactive
	switch {
	case activeDays > activeDaysActiveThreshold:
		status = domain.StatusActive
	case activeDays > activeDaysAtRiskThreshold:
		status = domain.StatusAtRisk
	}

	moduleNames := make([]string, 0, len(moduleEvents))
	for module := range moduleEvents {
		moduleNames = append(moduleNames, module)
	}
	sort.Strings(moduleNames)

	adoption := make([]domain.FeatureAdoption, 0, len(moduleNames))
	for _, module := range moduleNames {
		count := moduleEvents[module]
		level := "low"
		switch {
		case count > moduleEventsHighThreshold:
			level = "high"
		case count > moduleEventsMediumThreshold:
			level = "medium"
		}
		adoption = append(adoption, domain.FeatureAdoption{
			Module:     module,
			UsageLevel: level,
			KeyMetrics: map[string]any{"events_last_90": count},
		})
	}

	return domain.UsageFeatures{
		Activity: domain.Activity{
			Status:           status,
			ActiveDaysLast90: activeDays,
			LoginsLast90:     len(events),
			ActiveUsers:      len(activeUserIDs),
			TotalUsers:       int(totalUsers),
		},
		FeatureAdoption: adoption,
	}, nil
}

func (s *Service) ExtractFinancial(ctx context.Context, customerID snowflake.ID, now time.Time) (domain.FinancialFeatures, error) {
	since := now.AddDate(0, -financialWindowMonths, 0)

	txs, err := s.billing.ListTransactionsSince(ctx, s.db, customerID, since)
	if err != nil {
		return domain.FinancialFeatures{}, err
	}
	invoices, err := s.billing.ListInvoicesSince(ctx, s.db, customerID, since)
	if err != nil {
		return domain.FinancialFeatures{}, err
	}

	// Bucket net sales by calendar month, keyed on the first of the month.
	buckets := make(map[string]float64)
	for _, tx := range txs {
		key := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		buckets[key] += tx.NetSales
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	monthly := make([]domain.MonthlyRevenue, 0, len(months))
	revenues := make([]float64, 0, len(months))
	for _, month := range months {
		revenue := round2(buckets[month])
		monthly = append(monthly, domain.MonthlyRevenue{Month: month, Revenue: revenue})
		revenues = append(revenues, revenue)
	}

	avgMonthly := 0.0
	if len(revenues) > 0 {
		total := 0.0
		for _, revenue := range revenues {
			total += revenue
		}
		avgMonthly = total / float64(len(revenues))
	}

	last, prev := 0.0, 0.0
	if len(revenues) > 0 {
		last = revenues[len(revenues)-1]
		prev = last
	}
	if len(revenues) > 1 {
		prev = revenues[len(revenues)-2]
	}
	momGrowth := 0.0
	if prev > 0 {
		momGrowth = (last - prev) / prev
	}

	invoiceSummaries := make([]domain.InvoiceSummary, 0, len(invoices))
	overdue := 0
	for _, inv := range invoices {
		if inv.Status == billingdomain.StatusOverdue {
			overdue++
		}
		var paid *string
		if inv.PaidDate != nil {
			formatted := inv.PaidDate.Format("2006-01-02")
			paid = &formatted
		}
		invoiceSummaries = append(invoiceSummaries, domain.InvoiceSummary{
			ID:        inv.ID,
			IssueDate: inv.IssueDate.Format("2006-01-02"),
			DueDate:   inv.DueDate.Format("2006-01-02"),
			Amount:    inv.Amount,
			Status:    inv.Status,
			PaidDate:  paid,
		})
	}

	overdueRatio := 0.0
	if len(invoices) > 0 {
		overdueRatio = float64(overdue) / float64(len(invoices))
	}

	var revenuePeriod *string
	if len(months) > 0 {
		period := months[0] + " to " + months[len(months)-1]
		revenuePeriod = &period
	}

	return domain.FinancialFeatures{
		MonthlyRevenue:       monthly,
		AvgMonthlyRevenue:    avgMonthly,
		MoMGrowth:            momGrowth,
		Invoices:             invoiceSummaries,
		OverdueInvoicesRatio: overdueRatio,
		RevenuePeriod:        revenuePeriod,
	}, nil
}

// wholeMonthsBetween counts complete calendar months from one date to a
// later one, never less than zero.
func wholeMonthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func splitModules(raw string) []string {
	parts := strings.Split(raw, ",")
	modules := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		modules = append(modules, part)
	}
	return modules
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
