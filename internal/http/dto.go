package http

import (
	"time"

	"caixa/internal/core"
	"caixa/internal/services"
)

// Wire representations. Amounts travel as integer cents; dates as
// YYYY-MM-DD strings and months as YYYY-MM.

type supplierPayload struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TaxID           string    `json:"tax_id,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	Address         string    `json:"address,omitempty"`
	PaymentTermDays int       `json:"payment_term_days,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

type purchasePayload struct {
	ID            string    `json:"id"`
	SupplierID    string    `json:"supplier_id"`
	SupplierName  string    `json:"supplier_name,omitempty"`
	Date          string    `json:"date"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	DueDate       string    `json:"due_date,omitempty"`
	InvoiceRef    string    `json:"invoice_ref,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type revenuePayload struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Description   string    `json:"description"`
	AmountCents   int64     `json:"amount_cents"`
	Category      string    `json:"category,omitempty"`
	ReceiptStatus string    `json:"receipt_status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type expensePayload struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	AmountCents   int64  `json:"amount_cents"`
	Category      string `json:"category,omitempty"`
	PaymentStatus string `json:"payment_status"`
	Notes         string `json:"notes,omitempty"`

	DueDay          int    `json:"due_day,omitempty"`
	ReferenceMonth  string `json:"reference_month,omitempty"`
	Active          *bool  `json:"active,omitempty"`
	OriginExpenseID string `json:"origin_expense_id,omitempty"`

	Date string `json:"date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type revenueSummaryPayload struct {
	TotalCents    int64 `json:"total_cents"`
	ReceivedCents int64 `json:"received_cents"`
	PendingCents  int64 `json:"pending_cents"`
}

type purchaseSummaryPayload struct {
	TotalCents int64 `json:"total_cents"`
	Count      int   `json:"count"`
}

type expenseSummaryPayload struct {
	TotalCents   int64 `json:"total_cents"`
	FixedCents   int64 `json:"fixed_cents"`
	GeneralCents int64 `json:"general_cents"`
	PaidCents    int64 `json:"paid_cents"`
}

type summaryPayload struct {
	Month          string                 `json:"month"`
	Revenue        revenueSummaryPayload  `json:"revenue"`
	Purchases      purchaseSummaryPayload `json:"purchases"`
	Expenses       expenseSummaryPayload  `json:"expenses"`
	NetProfitCents int64                  `json:"net_profit_cents"`
	ProfitMargin   float64                `json:"profit_margin"`
}

type groupPayload struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Count       int    `json:"count"`
}

type reportPayload struct {
	Summary             summaryPayload `json:"summary"`
	ExpensesByCategory  []groupPayload `json:"expenses_by_category"`
	RevenuesByCategory  []groupPayload `json:"revenues_by_category"`
	PurchasesBySupplier []groupPayload `json:"purchases_by_supplier"`
}

type dashboardPayload struct {
	Report          reportPayload `json:"report"`
	ActiveSuppliers int           `json:"active_suppliers"`
}

type billPayload struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
	Source      string `json:"source"`
}

type rolloverResultPayload struct {
	TargetMonth string `json:"target_month"`
	Created     int    `json:"created"`
}

func toSupplierPayload(s core.Supplier) supplierPayload {
	return supplierPayload{
		ID:              s.ID,
		Name:            s.Name,
		TaxID:           s.TaxID,
		Phone:           s.Phone,
		Email:           s.Email,
		Address:         s.Address,
		PaymentTermDays: s.PaymentTermDays,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
	}
}

func toPurchasePayload(p core.Purchase) purchasePayload {
	out := purchasePayload{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Date:          p.Date.Format(dateLayout),
		AmountCents:   p.Amount.Cents,
		PaymentMethod: string(p.PaymentMethod),
		PaymentStatus: string(p.PaymentStatus),
		InvoiceNumber: p.InvoiceNumber,
		InvoiceRef:    p.InvoiceRef,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
	if !p.DueDate.IsEmpty() {
		out.DueDate = p.DueDate.Format(dateLayout)
	}
	return out
}

func toRevenuePayload(r core.Revenue) revenuePayload {
	return revenuePayload{
		ID:            r.ID,
		Date:          r.Date.Format(dateLayout),
		Description:   r.Description,
		AmountCents:   r.Amount.Cents,
		Category:      r.Category,
		ReceiptStatus: string(r.ReceiptStatus),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

func toExpensePayload(e core.Expense) expensePayload {
	out := expensePayload{
		ID:            e.ID,
		Kind:          string(e.Kind),
		Description:   e.Description,
		AmountCents:   e.Amount.Cents,
		Category:      e.Category,
		PaymentStatus: string(e.PaymentStatus),
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
	if e.Kind == core.FixedExpense {
		active := e.Active
		out.DueDay = e.DueDay
		out.ReferenceMonth = e.ReferenceMonth.Format(monthLayout)
		out.Active = &active
		out.OriginExpenseID = e.OriginExpenseID
	} else {
		out.Date = e.Date.Format(dateLayout)
	}
	return out
}

func toExpensePayloads(expenses []core.Expense) []expensePayload {
	out := make([]expensePayload, len(expenses))
	for i, e := range expenses {
		out[i] = toExpensePayload(e)
	}
	return out
}

func toSummaryPayload(s core.MonthlySummary) summaryPayload {
	return summaryPayload{
		Month: s.Month.Format(monthLayout),
		Revenue: revenueSummaryPayload{
			TotalCents:    s.Revenue.Total.Cents,
			ReceivedCents: s.Revenue.Received.Cents,
			PendingCents:  s.Revenue.Pending.Cents,
		},
		Purchases: purchaseSummaryPayload{
			TotalCents: s.Purchases.Total.Cents,
			Count:      s.Purchases.Count,
		},
		Expenses: expenseSummaryPayload{
			TotalCents:   s.Expenses.Total.Cents,
			FixedCents:   s.Expenses.FixedTotal.Cents,
			GeneralCents: s.Expenses.GeneralTotal.Cents,
			PaidCents:    s.Expenses.PaidTotal.Cents,
		},
		NetProfitCents: s.NetProfit.Cents,
		ProfitMargin:   s.ProfitMargin,
	}
}

func toGroupPayloads(groups []core.GroupTotal) []groupPayload {
	out := make([]groupPayload, len(groups))
	for i, g := range groups {
		out[i] = groupPayload{Name: g.Name, AmountCents: g.Amount.Cents, Count: g.Count}
	}
	return out
}

func toReportPayload(r services.MonthlyReport) reportPayload {
	return reportPayload{
		Summary:             toSummaryPayload(r.Summary),
		ExpensesByCategory:  toGroupPayloads(r.ExpensesByCategory),
		RevenuesByCategory:  toGroupPayloads(r.RevenuesByCategory),
		PurchasesBySupplier: toGroupPayloads(r.PurchasesBySupplier),
	}
}

func toBillPayloads(bills []services.Bill) []billPayload {
	out := make([]billPayload, len(bills))
	for i, b := range bills {
		out[i] = billPayload{
			Description: b.Description,
			AmountCents: b.Amount.Cents,
			DueDate:     b.DueDate.Format(dateLayout),
			Source:      string(b.Source),
		}
	}
	return out
}
