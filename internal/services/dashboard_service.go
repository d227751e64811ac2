package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"caixa/internal/core"
	"caixa/internal/store"
)

// DashboardMetrics is the month overview shown on the landing page.
type DashboardMetrics struct {
	Report          MonthlyReport
	ActiveSuppliers int
}

// Bill is an upcoming obligation: a pending purchase with a due date or
// a pending fixed expense whose due day falls inside the window.
type Bill struct {
	Description string
	Amount      core.Money
	DueDate     core.Date
	Source      BillSource
}

type BillSource string

const (
	BillFromPurchase BillSource = "purchase"
	BillFromExpense  BillSource = "fixed_expense"
)

// DashboardService assembles the overview screens on top of the report
// service and the store.
type DashboardService struct {
	reports   *ReportService
	purchases store.PurchaseReader
	expenses  store.ExpenseReader
	suppliers store.SupplierStore
}

func NewDashboardService(reports *ReportService, purchases store.PurchaseReader, expenses store.ExpenseReader, suppliers store.SupplierStore) *DashboardService {
	return &DashboardService{
		reports:   reports,
		purchases: purchases,
		expenses:  expenses,
		suppliers: suppliers,
	}
}

// Metrics builds the month overview: full report plus the active
// supplier count.
func (s *DashboardService) Metrics(ctx context.Context, month core.Date) (DashboardMetrics, error) {
	var metrics DashboardMetrics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metrics.Report, err = s.reports.Report(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		metrics.ActiveSuppliers, err = s.suppliers.CountActiveSuppliers(gctx)
		return core.NewDataAccessError("count suppliers", err)
	})
	if err := g.Wait(); err != nil {
		return DashboardMetrics{}, err
	}
	return metrics, nil
}

// UpcomingBills lists pending obligations due between from and from +
// days, soonest first.
func (s *DashboardService) UpcomingBills(ctx context.Context, from core.Date, days int) ([]Bill, error) {
	until := core.Date{Time: from.AddDate(0, 0, days)}

	purchases, err := s.purchases.FetchPurchases(ctx, store.PurchaseFilter{
		PaymentStatus: core.StatusPending,
		DueStart:      from,
		DueEnd:        until,
	})
	if err != nil {
		return nil, core.NewDataAccessError("fetch due purchases", err)
	}

	var bills []Bill
	for _, p := range purchases {
		bills = append(bills, Bill{
			Description: p.SupplierName,
			Amount:      p.Amount,
			DueDate:     p.DueDate,
			Source:      BillFromPurchase,
		})
	}

	// Fixed expenses have no stored due date; resolve the due day
	// inside each month the window touches.
	for month := core.FirstOfMonth(from); !month.After(until.Time); month = core.NextMonth(month) {
		fixed, err := s.expenses.FetchExpenses(ctx, store.ExpenseFilter{
			Kind:          core.FixedExpense,
			DateStart:     month,
			DateEnd:       core.LastOfMonth(month),
			PaymentStatus: core.StatusPending,
			ActiveOnly:    true,
		})
		if err != nil {
			return nil, core.NewDataAccessError("fetch due expenses", err)
		}
		for _, e := range fixed {
			due := core.DueDateInMonth(month, e.DueDay)
			if due.Before(from.Time) || due.After(until.Time) {
				continue
			}
			bills = append(bills, Bill{
				Description: e.Description,
				Amount:      e.Amount,
				DueDate:     due,
				Source:      BillFromExpense,
			})
		}
	}

	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].DueDate.Before(bills[j].DueDate.Time)
	})
	return bills, nil
}
