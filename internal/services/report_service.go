package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"caixa/internal/core"
	"caixa/internal/store"
)

// ReportService computes monthly financial summaries from the entity
// store. It holds no state between calls; every report reads fresh
// data.
type ReportService struct {
	revenues  store.RevenueReader
	purchases store.PurchaseReader
	expenses  store.ExpenseReader
}

func NewReportService(revenues store.RevenueReader, purchases store.PurchaseReader, expenses store.ExpenseReader) *ReportService {
	return &ReportService{
		revenues:  revenues,
		purchases: purchases,
		expenses:  expenses,
	}
}

type monthData struct {
	revenues  []core.Revenue
	purchases []core.Purchase
	expenses  []core.Expense
}

// fetchMonth loads every entity dated inside the month. The four store
// reads run concurrently; any failure aborts with a DataAccessError.
func (s *ReportService) fetchMonth(ctx context.Context, month core.Date) (monthData, error) {
	start, end := core.MonthRange(month)

	var data monthData
	var fixed, general []core.Expense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.revenues, err = s.revenues.FetchRevenues(gctx, store.RevenueFilter{DateStart: start, DateEnd: end})
		return core.NewDataAccessError("fetch revenues", err)
	})
	g.Go(func() error {
		var err error
		data.purchases, err = s.purchases.FetchPurchases(gctx, store.PurchaseFilter{DateStart: start, DateEnd: end})
		return core.NewDataAccessError("fetch purchases", err)
	})
	g.Go(func() error {
		var err error
		fixed, err = s.expenses.FetchExpenses(gctx, store.ExpenseFilter{
			Kind:      core.FixedExpense,
			DateStart: start,
			DateEnd:   end,
		})
		return core.NewDataAccessError("fetch fixed expenses", err)
	})
	g.Go(func() error {
		var err error
		general, err = s.expenses.FetchExpenses(gctx, store.ExpenseFilter{
			Kind:      core.GeneralExpense,
			DateStart: start,
			DateEnd:   end,
		})
		return core.NewDataAccessError("fetch general expenses", err)
	})
	if err := g.Wait(); err != nil {
		return monthData{}, err
	}

	data.expenses = append(fixed, general...)
	return data, nil
}

// MonthlySummary aggregates one calendar month.
func (s *ReportService) MonthlySummary(ctx context.Context, month core.Date) (core.MonthlySummary, error) {
	data, err := s.fetchMonth(ctx, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}

	summary := core.Summarize(core.FirstOfMonth(month), data.revenues, data.purchases, data.expenses)

	slog.InfoContext(ctx, "Monthly summary computed",
		"month", summary.Month.Format("2006-01"),
		"revenue_total_cents", summary.Revenue.Total.Cents,
		"net_profit_cents", summary.NetProfit.Cents)

	return summary, nil
}

// MonthlyReport is a summary plus the per-category and per-supplier
// breakdowns, as rendered on the report page and exported to sheets.
type MonthlyReport struct {
	Summary             core.MonthlySummary
	ExpensesByCategory  []core.GroupTotal
	RevenuesByCategory  []core.GroupTotal
	PurchasesBySupplier []core.GroupTotal
}

// Report builds the full monthly report with groupings.
func (s *ReportService) Report(ctx context.Context, month core.Date) (MonthlyReport, error) {
	data, err := s.fetchMonth(ctx, month)
	if err != nil {
		return MonthlyReport{}, err
	}

	return MonthlyReport{
		Summary:             core.Summarize(core.FirstOfMonth(month), data.revenues, data.purchases, data.expenses),
		ExpensesByCategory:  core.GroupExpensesByCategory(data.expenses),
		RevenuesByCategory:  core.GroupRevenuesByCategory(data.revenues),
		PurchasesBySupplier: core.GroupPurchasesBySupplier(data.purchases),
	}, nil
}
