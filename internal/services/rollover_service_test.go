package services

import (
	"context"
	"errors"
	"testing"

	"caixa/internal/core"
	"caixa/internal/store"
	"caixa/internal/store/memory"
)

func seedFixed(t *testing.T, st *memory.Store, description string, month core.Date, active bool) core.Expense {
	t.Helper()
	e, err := core.NewFixed(description, core.Money{Cents: 10000}, "Facilities", 5, month)
	if err != nil {
		t.Fatal(err)
	}
	e.Active = active
	e.PaymentStatus = core.StatusPaid
	if err := st.CreateExpense(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return e
}

func fetchFixed(t *testing.T, st *memory.Store, month core.Date) []core.Expense {
	t.Helper()
	out, err := st.FetchExpenses(context.Background(), store.ExpenseFilter{
		Kind:      core.FixedExpense,
		DateStart: core.FirstOfMonth(month),
		DateEnd:   core.LastOfMonth(month),
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRolloverClonesActiveFixedExpenses(t *testing.T) {
	st := memory.New()
	may := core.NewDate(2024, 5, 1)
	june := core.NewDate(2024, 6, 1)
	seedFixed(t, st, "Rent", may, true)
	seedFixed(t, st, "Internet", may, true)
	seedFixed(t, st, "Old contract", may, false) // inactive, must not clone

	svc := NewRolloverService(st, st)
	count, err := svc.Rollover(context.Background(), core.NewDate(2024, 6, 20))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 clones, got %d", count)
	}

	clones := fetchFixed(t, st, june)
	if len(clones) != 2 {
		t.Fatalf("expected 2 fixed expenses in June, got %d", len(clones))
	}
	for _, clone := range clones {
		if clone.PaymentStatus != core.StatusPending {
			t.Fatalf("clone %s should start pending, got %s", clone.Description, clone.PaymentStatus)
		}
		if !clone.Active {
			t.Fatalf("clone %s should be active", clone.Description)
		}
		if clone.ReferenceMonth != june {
			t.Fatalf("clone %s wrong month: %v", clone.Description, clone.ReferenceMonth)
		}
		if clone.OriginExpenseID == "" || clone.ID == clone.OriginExpenseID {
			t.Fatalf("clone %s must reference its source", clone.Description)
		}
	}

	// Source records untouched.
	if sources := fetchFixed(t, st, may); len(sources) != 3 {
		t.Fatalf("source month modified: %d records", len(sources))
	}
}

func TestRolloverLineagePointsAtFirstOrigin(t *testing.T) {
	st := memory.New()
	template := seedFixed(t, st, "Rent", core.NewDate(2024, 4, 1), true)

	svc := NewRolloverService(st, st)
	if _, err := svc.Rollover(context.Background(), core.NewDate(2024, 5, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Rollover(context.Background(), core.NewDate(2024, 6, 1)); err != nil {
		t.Fatal(err)
	}

	june := fetchFixed(t, st, core.NewDate(2024, 6, 1))
	if len(june) != 1 {
		t.Fatalf("expected 1 June clone, got %d", len(june))
	}
	if june[0].OriginExpenseID != template.ID {
		t.Fatalf("second-generation clone must point at the original template, got %s", june[0].OriginExpenseID)
	}
}

func TestRolloverRejectsSecondRun(t *testing.T) {
	st := memory.New()
	seedFixed(t, st, "Rent", core.NewDate(2024, 5, 1), true)

	svc := NewRolloverService(st, st)
	if _, err := svc.Rollover(context.Background(), core.NewDate(2024, 6, 1)); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Rollover(context.Background(), core.NewDate(2024, 6, 1))
	if !errors.Is(err, core.ErrAlreadyRolledOver) {
		t.Fatalf("expected ErrAlreadyRolledOver, got %v", err)
	}

	if clones := fetchFixed(t, st, core.NewDate(2024, 6, 1)); len(clones) != 1 {
		t.Fatalf("rejected rollover must not duplicate: %d records", len(clones))
	}
}

func TestRolloverBlockedByAnyTargetFixedExpense(t *testing.T) {
	st := memory.New()
	seedFixed(t, st, "Rent", core.NewDate(2024, 5, 1), true)
	// A manually created fixed expense in June blocks the rollover even
	// though it is inactive.
	seedFixed(t, st, "Manual entry", core.NewDate(2024, 6, 1), false)

	svc := NewRolloverService(st, st)
	_, err := svc.Rollover(context.Background(), core.NewDate(2024, 6, 1))
	if !errors.Is(err, core.ErrAlreadyRolledOver) {
		t.Fatalf("expected ErrAlreadyRolledOver, got %v", err)
	}
}

func TestRolloverWithoutSources(t *testing.T) {
	st := memory.New()
	svc := NewRolloverService(st, st)

	_, err := svc.Rollover(context.Background(), core.NewDate(2024, 6, 1))
	if !errors.Is(err, core.ErrNoSourceExpenses) {
		t.Fatalf("expected ErrNoSourceExpenses, got %v", err)
	}
}

func TestRolloverUsesCalendarPreviousMonth(t *testing.T) {
	st := memory.New()
	// January 2024 sources; rolling over February must look at January
	// even across the short month boundary.
	seedFixed(t, st, "Rent", core.NewDate(2024, 1, 1), true)

	svc := NewRolloverService(st, st)
	count, err := svc.Rollover(context.Background(), core.NewDate(2024, 2, 29))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 clone, got %d", count)
	}
	if clones := fetchFixed(t, st, core.NewDate(2024, 2, 1)); len(clones) != 1 {
		t.Fatalf("February should hold the clone, got %d", len(clones))
	}
}
