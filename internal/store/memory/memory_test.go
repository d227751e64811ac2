package memory

import (
	"context"
	"errors"
	"testing"

	"caixa/internal/core"
	"caixa/internal/store"
)

func TestDeleteSupplierWithPurchasesFails(t *testing.T) {
	st := New()
	ctx := context.Background()

	supplier, err := core.NewSupplier("Foods SA")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreateSupplier(ctx, supplier); err != nil {
		t.Fatal(err)
	}
	purchase, err := core.NewPurchase(supplier.ID, core.NewDate(2024, 6, 1), core.Money{Cents: 100}, core.PaymentPix, core.StatusPaid)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreatePurchase(ctx, purchase); err != nil {
		t.Fatal(err)
	}

	if err := st.DeleteSupplier(ctx, supplier.ID); !errors.Is(err, core.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}

	// Soft delete still works.
	supplier.Active = false
	if err := st.UpdateSupplier(ctx, supplier); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	n, err := st.CountActiveSuppliers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected 0 active suppliers, got %d", n)
	}
}

func TestFetchExpensesRejectsKindlessDateFilter(t *testing.T) {
	st := New()
	_, err := st.FetchExpenses(context.Background(), store.ExpenseFilter{
		DateStart: core.NewDate(2024, 6, 1),
	})
	if !errors.Is(err, store.ErrDateFilterNeedsKind) {
		t.Fatalf("expected ErrDateFilterNeedsKind, got %v", err)
	}
}

func TestFetchPurchasesResolvesSupplierName(t *testing.T) {
	st := New()
	ctx := context.Background()

	supplier, err := core.NewSupplier("Foods SA")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreateSupplier(ctx, supplier); err != nil {
		t.Fatal(err)
	}
	known, err := core.NewPurchase(supplier.ID, core.NewDate(2024, 6, 1), core.Money{Cents: 100}, core.PaymentPix, core.StatusPaid)
	if err != nil {
		t.Fatal(err)
	}
	orphan, err := core.NewPurchase("missing-supplier", core.NewDate(2024, 6, 2), core.Money{Cents: 200}, core.PaymentPix, core.StatusPaid)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []core.Purchase{known, orphan} {
		if err := st.CreatePurchase(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	out, err := st.FetchPurchases(ctx, store.PurchaseFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 purchases, got %d", len(out))
	}
	// Newest first.
	if out[0].SupplierName != "" {
		t.Fatalf("orphan purchase should have empty supplier name, got %q", out[0].SupplierName)
	}
	if out[1].SupplierName != "Foods SA" {
		t.Fatalf("expected resolved supplier name, got %q", out[1].SupplierName)
	}
}

func TestUpdateExpensePreservesLineage(t *testing.T) {
	st := New()
	ctx := context.Background()

	clone, err := core.NewFixed("Rent", core.Money{Cents: 120000}, "Facilities", 5, core.NewDate(2024, 4, 1))
	if err != nil {
		t.Fatal(err)
	}
	clone.OriginExpenseID = "march-template"
	if err := st.CreateExpense(ctx, clone); err != nil {
		t.Fatal(err)
	}

	edited := clone
	edited.PaymentStatus = core.StatusPaid
	edited.OriginExpenseID = ""
	if err := st.UpdateExpense(ctx, edited); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetExpense(ctx, clone.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.OriginExpenseID != "march-template" {
		t.Fatalf("update must not change lineage, got origin %q", got.OriginExpenseID)
	}
	if !got.CreatedAt.Equal(clone.CreatedAt) {
		t.Fatalf("update must not change created_at, got %v want %v", got.CreatedAt, clone.CreatedAt)
	}
	if got.PaymentStatus != core.StatusPaid {
		t.Fatalf("payment status not updated, got %s", got.PaymentStatus)
	}
}

func TestGetExpenseMissing(t *testing.T) {
	st := New()
	if _, err := st.GetExpense(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBulkInsertValidatesWholeBatch(t *testing.T) {
	st := New()
	ctx := context.Background()

	good, err := core.NewGeneral("Repairs", core.Money{Cents: 100}, "Maintenance", core.NewDate(2024, 6, 1))
	if err != nil {
		t.Fatal(err)
	}
	bad := good
	bad.ID = "bad"
	bad.Description = ""

	if err := st.BulkInsertExpenses(ctx, []core.Expense{good, bad}); err == nil {
		t.Fatal("expected validation failure")
	}

	out, err := st.FetchExpenses(ctx, store.ExpenseFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("failed bulk insert must not leave partial state, got %d records", len(out))
	}
}
