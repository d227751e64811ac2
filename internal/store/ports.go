// Package store defines the entity-store contract the core consumes.
// Implementations live in internal/storage (SQLite) and
// internal/store/memory (tests, demo backend).
package store

import (
	"context"
	"errors"

	"caixa/internal/core"
)

// ErrDateFilterNeedsKind is returned when an expense fetch carries date
// bounds but no kind. Fixed and general expenses are keyed by different
// date fields, so a kind-less range query cannot be answered by a single
// scan; the filter composer owns the split-and-merge strategy.
var ErrDateFilterNeedsKind = errors.New("expense date filter requires a kind")

// ErrNotFound is returned for lookups of identifiers that do not exist.
var ErrNotFound = errors.New("record not found")

type (
	// RevenueFilter narrows a revenue fetch. Zero-valued fields impose
	// no constraint. Date bounds are inclusive.
	RevenueFilter struct {
		DateStart     core.Date
		DateEnd       core.Date
		Category      string
		ReceiptStatus core.ReceiptStatus
	}

	// PurchaseFilter narrows a purchase fetch.
	PurchaseFilter struct {
		DateStart     core.Date
		DateEnd       core.Date
		SupplierID    string
		PaymentStatus core.PaymentStatus
		// DueStart/DueEnd bound the optional due date, used for the
		// upcoming-bills dashboard view.
		DueStart core.Date
		DueEnd   core.Date
	}

	// ExpenseFilter narrows an expense fetch. When Kind is set, date
	// bounds apply to that kind's date field (reference month for
	// fixed, exact date for general). When Kind is empty, date bounds
	// are rejected with ErrDateFilterNeedsKind.
	ExpenseFilter struct {
		Kind          core.ExpenseKind
		DateStart     core.Date
		DateEnd       core.Date
		Category      string
		Description   string
		PaymentStatus core.PaymentStatus
		// ActiveOnly keeps only active fixed expenses. General
		// expenses are unaffected.
		ActiveOnly bool
	}
)

// Ports consumed by the aggregation, rollover and filter services.
type (
	RevenueReader interface {
		// FetchRevenues returns revenues matching the filter, newest
		// date first.
		FetchRevenues(ctx context.Context, f RevenueFilter) ([]core.Revenue, error)
	}

	PurchaseReader interface {
		// FetchPurchases returns purchases matching the filter, newest
		// date first, with the supplier display name resolved eagerly
		// (empty when the supplier no longer exists).
		FetchPurchases(ctx context.Context, f PurchaseFilter) ([]core.Purchase, error)
	}

	ExpenseReader interface {
		FetchExpenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error)
		// GetExpense returns a single expense by id, or ErrNotFound.
		GetExpense(ctx context.Context, id string) (core.Expense, error)
	}

	ExpenseWriter interface {
		CreateExpense(ctx context.Context, e core.Expense) error
		// UpdateExpense replaces the mutable fields of an existing
		// expense. OriginExpenseID and CreatedAt are immutable: the
		// rollover lineage must keep pointing at the first record in
		// the chain no matter how often a clone is edited.
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
		// BulkInsertExpenses inserts all expenses or none: the rollover
		// depends on this being atomic.
		BulkInsertExpenses(ctx context.Context, expenses []core.Expense) error
	}

	RevenueWriter interface {
		CreateRevenue(ctx context.Context, r core.Revenue) error
		DeleteRevenue(ctx context.Context, id string) error
	}

	PurchaseWriter interface {
		CreatePurchase(ctx context.Context, p core.Purchase) error
		DeletePurchase(ctx context.Context, id string) error
	}

	SupplierStore interface {
		CreateSupplier(ctx context.Context, s core.Supplier) error
		UpdateSupplier(ctx context.Context, s core.Supplier) error
		// DeleteSupplier hard-deletes; it fails with
		// core.ErrConstraintViolation while purchases still reference
		// the supplier. Soft-delete goes through UpdateSupplier with
		// Active=false.
		DeleteSupplier(ctx context.Context, id string) error
		ListSuppliers(ctx context.Context, activeOnly bool) ([]core.Supplier, error)
		CountActiveSuppliers(ctx context.Context) (int, error)
	}
)

// EntityStore bundles every port for backends that implement the full
// contract.
type EntityStore interface {
	RevenueReader
	RevenueWriter
	PurchaseReader
	PurchaseWriter
	ExpenseReader
	ExpenseWriter
	SupplierStore
}
