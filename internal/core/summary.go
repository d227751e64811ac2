package core

import "sort"

// Fallback group labels for records missing a category or whose
// supplier has been deleted.
const (
	UncategorizedLabel    = "Uncategorized"
	SupplierNotFoundLabel = "Supplier not found"
)

type (
	// RevenueSummary partitions a month's revenue by receipt status.
	// Total is always derived as Received + Pending.
	RevenueSummary struct {
		Total    Money
		Received Money
		Pending  Money
	}

	PurchaseSummary struct {
		Total Money
		Count int
	}

	// ExpenseSummary partitions a month's expenses by kind and payment
	// status. FixedTotal counts only active fixed expenses; inactive
	// ones are excluded from profit but still listable elsewhere.
	ExpenseSummary struct {
		Total        Money
		FixedTotal   Money
		GeneralTotal Money
		PaidTotal    Money
	}

	// MonthlySummary is the value object consumed by the presentation
	// and export layers. Net profit deliberately mixes cash revenue
	// (received only) with accrual expenses (paid and pending): pending
	// revenue cannot fund expenses, while an unpaid bill is still an
	// obligation. Changing this asymmetry changes every displayed margin.
	MonthlySummary struct {
		Month     Date
		Revenue   RevenueSummary
		Purchases PurchaseSummary
		Expenses  ExpenseSummary
		NetProfit Money
		// ProfitMargin is NetProfit over received revenue as a
		// percentage, defined as 0 when nothing was received.
		ProfitMargin float64
	}

	// GroupTotal is one row of a by-category or by-supplier breakdown.
	GroupTotal struct {
		Name   string
		Amount Money
		Count  int
	}
)

// Summarize computes the monthly summary from collections already
// filtered to the reference month's date range. It is pure: no fetching,
// no mutation, no clock.
func Summarize(month Date, revenues []Revenue, purchases []Purchase, expenses []Expense) MonthlySummary {
	s := MonthlySummary{Month: FirstOfMonth(month)}

	for _, r := range revenues {
		switch r.ReceiptStatus {
		case StatusReceived:
			s.Revenue.Received = s.Revenue.Received.Add(r.Amount)
		default:
			s.Revenue.Pending = s.Revenue.Pending.Add(r.Amount)
		}
	}
	s.Revenue.Total = s.Revenue.Received.Add(s.Revenue.Pending)

	for _, p := range purchases {
		s.Purchases.Total = s.Purchases.Total.Add(p.Amount)
		s.Purchases.Count++
	}

	s.Expenses = SummarizeExpenses(expenses)

	obligations := s.Purchases.Total.Add(s.Expenses.Total)
	s.NetProfit = Money{Cents: s.Revenue.Received.Cents - obligations.Cents}
	if s.Revenue.Received.Cents > 0 {
		s.ProfitMargin = float64(s.NetProfit.Cents) / float64(s.Revenue.Received.Cents) * 100
	}
	return s
}

// SummarizeExpenses partitions expense totals by kind and payment
// status. Inactive fixed expenses do not count toward any total here;
// list them through an unfiltered fetch instead.
func SummarizeExpenses(expenses []Expense) ExpenseSummary {
	var sum ExpenseSummary
	for _, e := range expenses {
		if e.Kind == FixedExpense && !e.Active {
			continue
		}
		switch e.Kind {
		case FixedExpense:
			sum.FixedTotal = sum.FixedTotal.Add(e.Amount)
		case GeneralExpense:
			sum.GeneralTotal = sum.GeneralTotal.Add(e.Amount)
		}
		if e.PaymentStatus == StatusPaid {
			sum.PaidTotal = sum.PaidTotal.Add(e.Amount)
		}
	}
	sum.Total = sum.FixedTotal.Add(sum.GeneralTotal)
	return sum
}

// GroupExpensesByCategory accumulates expense amounts per category.
// Inactive fixed expenses are skipped, matching the profit totals.
func GroupExpensesByCategory(expenses []Expense) []GroupTotal {
	g := newGrouper(UncategorizedLabel)
	for _, e := range expenses {
		if e.Kind == FixedExpense && !e.Active {
			continue
		}
		g.add(e.Category, e.Amount)
	}
	return g.sorted()
}

// GroupRevenuesByCategory accumulates revenue amounts per category.
func GroupRevenuesByCategory(revenues []Revenue) []GroupTotal {
	g := newGrouper(UncategorizedLabel)
	for _, r := range revenues {
		g.add(r.Category, r.Amount)
	}
	return g.sorted()
}

// GroupPurchasesBySupplier accumulates purchase amounts per supplier
// display name, falling back when the supplier was deleted.
func GroupPurchasesBySupplier(purchases []Purchase) []GroupTotal {
	g := newGrouper(SupplierNotFoundLabel)
	for _, p := range purchases {
		g.add(p.SupplierName, p.Amount)
	}
	return g.sorted()
}

// grouper accumulates totals per name preserving first-seen order so
// equal-amount groups stay stable after sorting.
type grouper struct {
	fallback string
	order    []string
	byName   map[string]*GroupTotal
}

func newGrouper(fallback string) *grouper {
	return &grouper{fallback: fallback, byName: make(map[string]*GroupTotal)}
}

func (g *grouper) add(name string, amount Money) {
	if name == "" {
		name = g.fallback
	}
	row, ok := g.byName[name]
	if !ok {
		row = &GroupTotal{Name: name}
		g.byName[name] = row
		g.order = append(g.order, name)
	}
	row.Amount = row.Amount.Add(amount)
	row.Count++
}

func (g *grouper) sorted() []GroupTotal {
	out := make([]GroupTotal, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, *g.byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}
