// Package memory is an in-process EntityStore used by tests and the
// memory backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"caixa/internal/core"
	"caixa/internal/store"
)

type Store struct {
	mu        sync.Mutex
	suppliers []core.Supplier
	purchases []core.Purchase
	revenues  []core.Revenue
	expenses  []core.Expense
}

func New() *Store {
	return &Store{}
}

var _ store.EntityStore = (*Store)(nil)

func (s *Store) CreateSupplier(_ context.Context, sup core.Supplier) error {
	if err := sup.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers = append(s.suppliers, sup)
	return nil
}

func (s *Store) UpdateSupplier(_ context.Context, sup core.Supplier) error {
	if err := sup.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.suppliers {
		if s.suppliers[i].ID == sup.ID {
			s.suppliers[i] = sup
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.purchases {
		if p.SupplierID == id {
			return core.ErrConstraintViolation
		}
	}
	for i := range s.suppliers {
		if s.suppliers[i].ID == id {
			s.suppliers = append(s.suppliers[:i], s.suppliers[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListSuppliers(_ context.Context, activeOnly bool) ([]core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		if activeOnly && !sup.Active {
			continue
		}
		out = append(out, sup)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CountActiveSuppliers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sup := range s.suppliers {
		if sup.Active {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreatePurchase(_ context.Context, p core.Purchase) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, p)
	return nil
}

func (s *Store) DeletePurchase(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.purchases {
		if s.purchases[i].ID == id {
			s.purchases = append(s.purchases[:i], s.purchases[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FetchPurchases(_ context.Context, f store.PurchaseFilter) ([]core.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make(map[string]string, len(s.suppliers))
	for _, sup := range s.suppliers {
		names[sup.ID] = sup.Name
	}
	var out []core.Purchase
	for _, p := range s.purchases {
		if !inRange(p.Date, f.DateStart, f.DateEnd) {
			continue
		}
		if !f.DueStart.IsEmpty() || !f.DueEnd.IsEmpty() {
			if p.DueDate.IsEmpty() || !inRange(p.DueDate, f.DueStart, f.DueEnd) {
				continue
			}
		}
		if f.SupplierID != "" && p.SupplierID != f.SupplierID {
			continue
		}
		if f.PaymentStatus != "" && p.PaymentStatus != f.PaymentStatus {
			continue
		}
		p.SupplierName = names[p.SupplierID]
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

func (s *Store) CreateRevenue(_ context.Context, r core.Revenue) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revenues = append(s.revenues, r)
	return nil
}

func (s *Store) DeleteRevenue(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.revenues {
		if s.revenues[i].ID == id {
			s.revenues = append(s.revenues[:i], s.revenues[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FetchRevenues(_ context.Context, f store.RevenueFilter) ([]core.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Revenue
	for _, r := range s.revenues {
		if !inRange(r.Date, f.DateStart, f.DateEnd) {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if f.ReceiptStatus != "" && r.ReceiptStatus != f.ReceiptStatus {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			// Lineage and insertion time survive updates.
			e.OriginExpenseID = s.expenses[i].OriginExpenseID
			e.CreatedAt = s.expenses[i].CreatedAt
			s.expenses[i] = e
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, store.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// BulkInsertExpenses validates the whole batch before touching state so
// the insert is all-or-nothing.
func (s *Store) BulkInsertExpenses(_ context.Context, expenses []core.Expense) error {
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, expenses...)
	return nil
}

func (s *Store) FetchExpenses(_ context.Context, f store.ExpenseFilter) ([]core.Expense, error) {
	if f.Kind == "" && (!f.DateStart.IsEmpty() || !f.DateEnd.IsEmpty()) {
		return nil, store.ErrDateFilterNeedsKind
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if !inRange(e.EffectiveDate(), f.DateStart, f.DateEnd) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Description != "" && e.Description != f.Description {
			continue
		}
		if f.PaymentStatus != "" && e.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.ActiveOnly && e.Kind == core.FixedExpense && !e.Active {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].EffectiveDate(), out[j].EffectiveDate()
		if !di.Equal(dj.Time) {
			return di.After(dj.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func inRange(d, start, end core.Date) bool {
	if !start.IsEmpty() && d.Before(start.Time) {
		return false
	}
	if !end.IsEmpty() && d.After(end.Time) {
		return false
	}
	return true
}
