package core

import "testing"

func fixedFor(t *testing.T, amountCents int64, category string, month Date) Expense {
	t.Helper()
	e, err := NewFixed("fixed", Money{Cents: amountCents}, category, 10, month)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func generalFor(t *testing.T, amountCents int64, category string, day Date) Expense {
	t.Helper()
	e, err := NewGeneral("general", Money{Cents: amountCents}, category, day)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSummarizeScenario(t *testing.T) {
	// Revenue 500 received + 200 pending, one 300 purchase, one active
	// paid fixed expense of 100 and one pending general expense of 50.
	month := NewDate(2024, 6, 1)
	revenues := []Revenue{
		{Date: NewDate(2024, 6, 3), Description: "a", Amount: Money{Cents: 50000}, ReceiptStatus: StatusReceived},
		{Date: NewDate(2024, 6, 9), Description: "b", Amount: Money{Cents: 20000}, ReceiptStatus: ReceiptPending},
	}
	purchases := []Purchase{
		{SupplierID: "s1", SupplierName: "Foods SA", Date: NewDate(2024, 6, 4), Amount: Money{Cents: 30000}, PaymentStatus: StatusPaid},
	}
	fixed := fixedFor(t, 10000, "Facilities", month)
	fixed.PaymentStatus = StatusPaid
	general := generalFor(t, 5000, "Maintenance", NewDate(2024, 6, 15))
	expenses := []Expense{fixed, general}

	s := Summarize(month, revenues, purchases, expenses)

	if s.Revenue.Total.Cents != 70000 || s.Revenue.Received.Cents != 50000 || s.Revenue.Pending.Cents != 20000 {
		t.Fatalf("revenue summary wrong: %+v", s.Revenue)
	}
	if s.Purchases.Total.Cents != 30000 || s.Purchases.Count != 1 {
		t.Fatalf("purchase summary wrong: %+v", s.Purchases)
	}
	if s.Expenses.FixedTotal.Cents != 10000 || s.Expenses.GeneralTotal.Cents != 5000 || s.Expenses.Total.Cents != 15000 {
		t.Fatalf("expense summary wrong: %+v", s.Expenses)
	}
	if s.Expenses.PaidTotal.Cents != 10000 {
		t.Fatalf("paid total wrong: %+v", s.Expenses)
	}
	if s.NetProfit.Cents != 5000 {
		t.Fatalf("net profit: expected 5000, got %d", s.NetProfit.Cents)
	}
	if s.ProfitMargin != 10.0 {
		t.Fatalf("profit margin: expected 10.0, got %v", s.ProfitMargin)
	}
}

func TestRevenueTotalIsDerived(t *testing.T) {
	revenues := []Revenue{
		{Amount: Money{Cents: 101}, ReceiptStatus: StatusReceived},
		{Amount: Money{Cents: 307}, ReceiptStatus: ReceiptPending},
		{Amount: Money{Cents: 499}, ReceiptStatus: StatusReceived},
	}
	s := Summarize(NewDate(2024, 1, 1), revenues, nil, nil)
	if s.Revenue.Total.Cents != s.Revenue.Received.Cents+s.Revenue.Pending.Cents {
		t.Fatalf("total %d != received %d + pending %d",
			s.Revenue.Total.Cents, s.Revenue.Received.Cents, s.Revenue.Pending.Cents)
	}
}

func TestProfitMarginZeroWithoutReceivedRevenue(t *testing.T) {
	month := NewDate(2024, 6, 1)
	cases := [][]Revenue{
		nil,
		{{Amount: Money{Cents: 99900}, ReceiptStatus: ReceiptPending}},
	}
	for i, revenues := range cases {
		expenses := []Expense{generalFor(t, 123400, "Maintenance", NewDate(2024, 6, 2))}
		s := Summarize(month, revenues, nil, expenses)
		if s.ProfitMargin != 0 {
			t.Fatalf("case %d: margin should be 0, got %v", i, s.ProfitMargin)
		}
		if s.NetProfit.Cents >= 0 {
			t.Fatalf("case %d: expected negative profit, got %d", i, s.NetProfit.Cents)
		}
	}
}

func TestInactiveFixedExcludedFromTotals(t *testing.T) {
	month := NewDate(2024, 6, 1)
	active := fixedFor(t, 10000, "Facilities", month)
	inactive := fixedFor(t, 7000, "Facilities", month)
	inactive.Active = false

	sum := SummarizeExpenses([]Expense{active, inactive})
	if sum.FixedTotal.Cents != 10000 {
		t.Fatalf("inactive fixed expense leaked into totals: %d", sum.FixedTotal.Cents)
	}

	groups := GroupExpensesByCategory([]Expense{active, inactive})
	if len(groups) != 1 || groups[0].Amount.Cents != 10000 {
		t.Fatalf("inactive fixed expense leaked into grouping: %+v", groups)
	}
}

func TestGroupingSortsDescending(t *testing.T) {
	month := NewDate(2024, 6, 1)
	expenses := []Expense{
		fixedFor(t, 100, "Small", month),
		fixedFor(t, 900, "Big", month),
		fixedFor(t, 500, "Mid", month),
	}
	groups := GroupExpensesByCategory(expenses)
	want := []string{"Big", "Mid", "Small"}
	for i, name := range want {
		if groups[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, groups[i].Name)
		}
	}
}

func TestGroupingStableOnTies(t *testing.T) {
	month := NewDate(2024, 6, 1)
	expenses := []Expense{
		fixedFor(t, 500, "First", month),
		fixedFor(t, 500, "Second", month),
		fixedFor(t, 900, "Top", month),
	}
	groups := GroupExpensesByCategory(expenses)
	want := []string{"Top", "First", "Second"}
	for i, name := range want {
		if groups[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s (first-seen order must survive ties)", i, name, groups[i].Name)
		}
	}
}

func TestGroupingFallbackLabels(t *testing.T) {
	revenues := []Revenue{{Amount: Money{Cents: 100}, ReceiptStatus: StatusReceived}}
	if g := GroupRevenuesByCategory(revenues); g[0].Name != UncategorizedLabel {
		t.Fatalf("expected %q, got %q", UncategorizedLabel, g[0].Name)
	}
	purchases := []Purchase{{SupplierID: "gone", Amount: Money{Cents: 100}}}
	if g := GroupPurchasesBySupplier(purchases); g[0].Name != SupplierNotFoundLabel {
		t.Fatalf("expected %q, got %q", SupplierNotFoundLabel, g[0].Name)
	}
}

func TestGroupCounts(t *testing.T) {
	purchases := []Purchase{
		{SupplierName: "Foods SA", Amount: Money{Cents: 100}},
		{SupplierName: "Foods SA", Amount: Money{Cents: 200}},
		{SupplierName: "Drinks Ltda", Amount: Money{Cents: 50}},
	}
	groups := GroupPurchasesBySupplier(purchases)
	if groups[0].Name != "Foods SA" || groups[0].Count != 2 || groups[0].Amount.Cents != 300 {
		t.Fatalf("unexpected top group: %+v", groups[0])
	}
	if groups[1].Count != 1 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}
