package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"caixa/internal/core"
	"caixa/internal/store"
)

// ExpenseQuery is the user-facing expense filter. Unlike
// store.ExpenseFilter it allows a date range without a kind; the
// composer answers that combination with one sub-query per kind.
type ExpenseQuery struct {
	Kind          core.ExpenseKind
	DateStart     core.Date
	DateEnd       core.Date
	Category      string
	Description   string
	PaymentStatus core.PaymentStatus
	ActiveOnly    bool
}

// FilterService resolves expense queries against the store.
//
// Fixed and general expenses are keyed by different date fields, so a
// kind-less date query cannot be a single scan: filtering one field
// would silently drop every record of the other kind. The composer
// runs both scans and merges.
type FilterService struct {
	expenses store.ExpenseReader
}

func NewFilterService(expenses store.ExpenseReader) *FilterService {
	return &FilterService{expenses: expenses}
}

// FilteredExpenses returns expenses matching the query, newest
// effective date first. Records sharing an effective date are ordered
// by insertion recency.
func (s *FilterService) FilteredExpenses(ctx context.Context, q ExpenseQuery) ([]core.Expense, error) {
	hasDates := !q.DateStart.IsEmpty() || !q.DateEnd.IsEmpty()
	if q.Kind != "" || !hasDates {
		out, err := s.expenses.FetchExpenses(ctx, storeFilter(q, q.Kind))
		if err != nil {
			return nil, core.NewDataAccessError("fetch expenses", err)
		}
		return out, nil
	}

	// Date range with no kind: one sub-query per kind, each bounded on
	// its own date field, merged and re-sorted.
	var fixed, general []core.Expense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fixed, err = s.expenses.FetchExpenses(gctx, storeFilter(q, core.FixedExpense))
		return core.NewDataAccessError("fetch fixed expenses", err)
	})
	g.Go(func() error {
		var err error
		general, err = s.expenses.FetchExpenses(gctx, storeFilter(q, core.GeneralExpense))
		return core.NewDataAccessError("fetch general expenses", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := append(fixed, general...)
	sort.SliceStable(merged, func(i, j int) bool {
		di, dj := merged[i].EffectiveDate(), merged[j].EffectiveDate()
		if !di.Equal(dj.Time) {
			return di.After(dj.Time)
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

func storeFilter(q ExpenseQuery, kind core.ExpenseKind) store.ExpenseFilter {
	return store.ExpenseFilter{
		Kind:          kind,
		DateStart:     q.DateStart,
		DateEnd:       q.DateEnd,
		Category:      q.Category,
		Description:   q.Description,
		PaymentStatus: q.PaymentStatus,
		ActiveOnly:    q.ActiveOnly,
	}
}
