package services

import (
	"context"
	"testing"
	"time"

	"caixa/internal/core"
	"caixa/internal/store/memory"
)

func addFixed(t *testing.T, st *memory.Store, description string, month core.Date, createdAt time.Time) core.Expense {
	t.Helper()
	e, err := core.NewFixed(description, core.Money{Cents: 10000}, "Facilities", 5, month)
	if err != nil {
		t.Fatal(err)
	}
	e.CreatedAt = createdAt
	if err := st.CreateExpense(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return e
}

func addGeneral(t *testing.T, st *memory.Store, description string, day core.Date, createdAt time.Time) core.Expense {
	t.Helper()
	e, err := core.NewGeneral(description, core.Money{Cents: 5000}, "Maintenance", day)
	if err != nil {
		t.Fatal(err)
	}
	e.CreatedAt = createdAt
	if err := st.CreateExpense(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return e
}

func descriptions(expenses []core.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.Description
	}
	return out
}

func TestFilteredExpensesMergesBothKinds(t *testing.T) {
	st := memory.New()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	addFixed(t, st, "Rent", core.NewDate(2024, 6, 1), base)
	addGeneral(t, st, "Repairs", core.NewDate(2024, 6, 15), base.Add(time.Minute))
	addGeneral(t, st, "May repairs", core.NewDate(2024, 5, 20), base.Add(2*time.Minute))
	addFixed(t, st, "May rent", core.NewDate(2024, 5, 1), base.Add(3*time.Minute))

	svc := NewFilterService(st)
	out, err := svc.FilteredExpenses(context.Background(), ExpenseQuery{
		DateStart: core.NewDate(2024, 6, 1),
		DateEnd:   core.NewDate(2024, 6, 30),
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	got := descriptions(out)
	want := []string{"Repairs", "Rent"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFilteredExpensesDateRangeUsesKindField(t *testing.T) {
	st := memory.New()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	// A fixed expense for June sits at reference month June 1; a date
	// range starting mid-month must not see it, while a general expense
	// inside the range must match.
	addFixed(t, st, "Rent", core.NewDate(2024, 6, 1), base)
	addGeneral(t, st, "Repairs", core.NewDate(2024, 6, 20), base)

	svc := NewFilterService(st)
	out, err := svc.FilteredExpenses(context.Background(), ExpenseQuery{
		DateStart: core.NewDate(2024, 6, 10),
		DateEnd:   core.NewDate(2024, 6, 30),
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(out) != 1 || out[0].Description != "Repairs" {
		t.Fatalf("expected only Repairs, got %v", descriptions(out))
	}
}

func TestFilteredExpensesTieBreakOnInsertionRecency(t *testing.T) {
	st := memory.New()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	// Same effective date (June 1): the later insertion wins.
	addFixed(t, st, "Rent", core.NewDate(2024, 6, 1), base)
	addGeneral(t, st, "Same day purchase", core.NewDate(2024, 6, 1), base.Add(time.Hour))

	svc := NewFilterService(st)
	out, err := svc.FilteredExpenses(context.Background(), ExpenseQuery{
		DateStart: core.NewDate(2024, 6, 1),
		DateEnd:   core.NewDate(2024, 6, 30),
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	got := descriptions(out)
	if got[0] != "Same day purchase" || got[1] != "Rent" {
		t.Fatalf("tie must order by insertion recency, got %v", got)
	}
}

func TestFilteredExpensesSingleKindPassthrough(t *testing.T) {
	st := memory.New()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	addFixed(t, st, "Rent", core.NewDate(2024, 6, 1), base)
	addGeneral(t, st, "Repairs", core.NewDate(2024, 6, 15), base)

	svc := NewFilterService(st)
	out, err := svc.FilteredExpenses(context.Background(), ExpenseQuery{
		Kind:      core.FixedExpense,
		DateStart: core.NewDate(2024, 6, 1),
		DateEnd:   core.NewDate(2024, 6, 30),
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(out) != 1 || out[0].Description != "Rent" {
		t.Fatalf("expected only the fixed expense, got %v", descriptions(out))
	}
}

func TestFilteredExpensesWithoutDates(t *testing.T) {
	st := memory.New()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	addFixed(t, st, "Rent", core.NewDate(2024, 6, 1), base)
	paid, err := core.NewGeneral("Paid repairs", core.Money{Cents: 100}, "Maintenance", core.NewDate(2024, 6, 2))
	if err != nil {
		t.Fatal(err)
	}
	paid.PaymentStatus = core.StatusPaid
	if err := st.CreateExpense(context.Background(), paid); err != nil {
		t.Fatal(err)
	}

	svc := NewFilterService(st)
	out, err := svc.FilteredExpenses(context.Background(), ExpenseQuery{
		PaymentStatus: core.StatusPaid,
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(out) != 1 || out[0].Description != "Paid repairs" {
		t.Fatalf("expected only the paid expense, got %v", descriptions(out))
	}
}
