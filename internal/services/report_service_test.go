package services

import (
	"context"
	"testing"

	"caixa/internal/core"
	"caixa/internal/store"
	"caixa/internal/store/memory"
)

func seedMonth(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()

	supplier, err := core.NewSupplier("Foods SA")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreateSupplier(ctx, supplier); err != nil {
		t.Fatal(err)
	}

	received, err := core.NewRevenue(core.NewDate(2024, 6, 3), "counter sales", core.Money{Cents: 50000}, "Sales", core.StatusReceived)
	if err != nil {
		t.Fatal(err)
	}
	pending, err := core.NewRevenue(core.NewDate(2024, 6, 9), "invoice 42", core.Money{Cents: 20000}, "Sales", core.ReceiptPending)
	if err != nil {
		t.Fatal(err)
	}
	outside, err := core.NewRevenue(core.NewDate(2024, 5, 30), "may sale", core.Money{Cents: 99900}, "Sales", core.StatusReceived)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []core.Revenue{received, pending, outside} {
		if err := st.CreateRevenue(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	purchase, err := core.NewPurchase(supplier.ID, core.NewDate(2024, 6, 4), core.Money{Cents: 30000}, core.PaymentPix, core.StatusPaid)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreatePurchase(ctx, purchase); err != nil {
		t.Fatal(err)
	}

	fixed, err := core.NewFixed("Rent", core.Money{Cents: 10000}, "Facilities", 5, core.NewDate(2024, 6, 1))
	if err != nil {
		t.Fatal(err)
	}
	fixed.PaymentStatus = core.StatusPaid
	general, err := core.NewGeneral("Repairs", core.Money{Cents: 5000}, "Maintenance", core.NewDate(2024, 6, 15))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []core.Expense{fixed, general} {
		if err := st.CreateExpense(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMonthlySummary(t *testing.T) {
	st := memory.New()
	seedMonth(t, st)
	svc := NewReportService(st, st, st)

	s, err := svc.MonthlySummary(context.Background(), core.NewDate(2024, 6, 17))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if s.Month != core.NewDate(2024, 6, 1) {
		t.Fatalf("month not normalized: %v", s.Month)
	}
	if s.Revenue.Total.Cents != 70000 || s.Revenue.Received.Cents != 50000 || s.Revenue.Pending.Cents != 20000 {
		t.Fatalf("revenue: %+v", s.Revenue)
	}
	if s.Purchases.Total.Cents != 30000 {
		t.Fatalf("purchases: %+v", s.Purchases)
	}
	if s.Expenses.Total.Cents != 15000 {
		t.Fatalf("expenses: %+v", s.Expenses)
	}
	if s.NetProfit.Cents != 5000 {
		t.Fatalf("net profit: %d", s.NetProfit.Cents)
	}
	if s.ProfitMargin != 10.0 {
		t.Fatalf("profit margin: %v", s.ProfitMargin)
	}
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	st := memory.New()
	seedMonth(t, st)
	svc := NewReportService(st, st, st)

	s, err := svc.MonthlySummary(context.Background(), core.NewDate(2030, 1, 1))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if s.Revenue.Total.Cents != 0 || s.NetProfit.Cents != 0 || s.ProfitMargin != 0 {
		t.Fatalf("empty month should be all zero: %+v", s)
	}
}

func TestReportIncludesGroupings(t *testing.T) {
	st := memory.New()
	seedMonth(t, st)
	svc := NewReportService(st, st, st)

	report, err := svc.Report(context.Background(), core.NewDate(2024, 6, 1))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if len(report.ExpensesByCategory) != 2 {
		t.Fatalf("expected 2 expense categories, got %+v", report.ExpensesByCategory)
	}
	if report.ExpensesByCategory[0].Name != "Facilities" {
		t.Fatalf("expected biggest category first, got %s", report.ExpensesByCategory[0].Name)
	}
	if len(report.PurchasesBySupplier) != 1 || report.PurchasesBySupplier[0].Name != "Foods SA" {
		t.Fatalf("supplier grouping: %+v", report.PurchasesBySupplier)
	}
}

var errTimeout = &timeoutErr{}

type timeoutErr struct{}

func (*timeoutErr) Error() string { return "connection timed out" }

// revenueReaderFunc adapts a func to store.RevenueReader.
type revenueReaderFunc func(ctx context.Context, f store.RevenueFilter) ([]core.Revenue, error)

func (f revenueReaderFunc) FetchRevenues(ctx context.Context, filter store.RevenueFilter) ([]core.Revenue, error) {
	return f(ctx, filter)
}

func TestMonthlySummaryStoreFailure(t *testing.T) {
	st := memory.New()
	failing := revenueReaderFunc(func(context.Context, store.RevenueFilter) ([]core.Revenue, error) {
		return nil, errTimeout
	})
	svc := NewReportService(failing, st, st)

	_, err := svc.MonthlySummary(context.Background(), core.NewDate(2024, 6, 1))
	if err == nil {
		t.Fatal("expected failure")
	}
	if !core.IsDataAccess(err) {
		t.Fatalf("expected DataAccessError, got %v", err)
	}
}
