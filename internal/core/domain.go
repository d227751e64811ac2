package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentCheck  PaymentMethod = "check"

	StatusPaid    PaymentStatus = "paid"
	StatusPending PaymentStatus = "pending"

	StatusReceived ReceiptStatus = "received"
	// ReceiptPending mirrors StatusPending but lives in its own enum:
	// revenues are received, not paid.
	ReceiptPending ReceiptStatus = "pending"

	FixedExpense   ExpenseKind = "fixed"
	GeneralExpense ExpenseKind = "general"
)

type (
	PaymentMethod string
	PaymentStatus string
	ReceiptStatus string
	ExpenseKind   string

	Date struct {
		time.Time
	}

	Supplier struct {
		ID      string
		Name    string
		TaxID   string // CNPJ, optional
		Phone   string
		Email   string
		Address string
		// PaymentTermDays is the default payment term offered by the
		// supplier, 0 when unknown.
		PaymentTermDays int
		Active          bool
		CreatedAt       time.Time
	}

	Purchase struct {
		ID         string
		SupplierID string
		// SupplierName is resolved eagerly by the store; empty when the
		// referenced supplier no longer exists.
		SupplierName  string
		Date          Date
		Amount        Money
		PaymentMethod PaymentMethod
		PaymentStatus PaymentStatus
		InvoiceNumber string
		// DueDate is set for purchases paid later (boleto, credit).
		DueDate    Date
		InvoiceRef string // attachment reference, opaque to the core
		Notes      string
		CreatedAt  time.Time
	}

	Revenue struct {
		ID            string
		Date          Date
		Description   string
		Amount        Money
		Category      string
		ReceiptStatus ReceiptStatus
		Notes         string
		CreatedAt     time.Time
	}

	// Expense is a tagged union over two variants. Fixed expenses are
	// monthly obligations keyed by ReferenceMonth with a DueDay; general
	// expenses are one-off records keyed by Date. Exactly one variant's
	// fields may be populated; use NewFixed / NewGeneral so invalid
	// combinations cannot be constructed.
	Expense struct {
		ID            string
		Kind          ExpenseKind
		Description   string
		Amount        Money
		Category      string
		PaymentStatus PaymentStatus
		Notes         string

		// fixed variant
		DueDay          int  // 1..31
		ReferenceMonth  Date // always the first day of its month
		Active          bool
		OriginExpenseID string // lineage to the first occurrence in the chain

		// general variant
		Date Date

		CreatedAt time.Time
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidKind      = errors.New("invalid expense kind")
	ErrInvalidDueDay    = errors.New("due day must be between 1 and 31")
	ErrMixedVariant     = errors.New("expense populates fields of both variants")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrMissingSupplier  = errors.New("purchase requires a supplier reference")
)

// NewDate creates a Date at UTC midnight from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// IsEmpty returns true for the zero date (used for optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentPix, PaymentBoleto, PaymentCard, PaymentCash, PaymentCheck:
		return nil
	}
	return ErrInvalidMethod
}

func (s PaymentStatus) Validate() error {
	switch s {
	case StatusPaid, StatusPending:
		return nil
	}
	return ErrInvalidStatus
}

func (s ReceiptStatus) Validate() error {
	switch s {
	case StatusReceived, ReceiptPending:
		return nil
	}
	return ErrInvalidStatus
}

// NewSupplier creates an active supplier with a fresh identifier.
func NewSupplier(name string) (Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return Supplier{}, ErrEmptyName
	}
	return Supplier{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// NewPurchase creates a purchase referencing a supplier.
func NewPurchase(supplierID string, date Date, amount Money, method PaymentMethod, status PaymentStatus) (Purchase, error) {
	p := Purchase{
		ID:            uuid.NewString(),
		SupplierID:    supplierID,
		Date:          date,
		Amount:        amount,
		PaymentMethod: method,
		PaymentStatus: status,
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return Purchase{}, err
	}
	return p, nil
}

func (p Purchase) Validate() error {
	if strings.TrimSpace(p.SupplierID) == "" {
		return ErrMissingSupplier
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.PaymentMethod.Validate(); err != nil {
		return err
	}
	return p.PaymentStatus.Validate()
}

// NewRevenue creates a revenue record.
func NewRevenue(date Date, description string, amount Money, category string, status ReceiptStatus) (Revenue, error) {
	r := Revenue{
		ID:            uuid.NewString(),
		Date:          date,
		Description:   strings.TrimSpace(description),
		Amount:        amount,
		Category:      strings.TrimSpace(category),
		ReceiptStatus: status,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return Revenue{}, err
	}
	return r, nil
}

func (r Revenue) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.ReceiptStatus.Validate()
}

// NewFixed creates an active fixed expense for the month containing
// referenceMonth. Payment status starts pending.
func NewFixed(description string, amount Money, category string, dueDay int, referenceMonth Date) (Expense, error) {
	e := Expense{
		ID:             uuid.NewString(),
		Kind:           FixedExpense,
		Description:    strings.TrimSpace(description),
		Amount:         amount,
		Category:       strings.TrimSpace(category),
		PaymentStatus:  StatusPending,
		DueDay:         dueDay,
		ReferenceMonth: FirstOfMonth(referenceMonth),
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// NewGeneral creates a one-off expense dated at date. Payment status
// starts pending.
func NewGeneral(description string, amount Money, category string, date Date) (Expense, error) {
	e := Expense{
		ID:            uuid.NewString(),
		Kind:          GeneralExpense,
		Description:   strings.TrimSpace(description),
		Amount:        amount,
		Category:      strings.TrimSpace(category),
		PaymentStatus: StatusPending,
		Date:          date,
		CreatedAt:     time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Validate enforces the variant invariant on top of the shared fields.
// Constructors make violations unreachable; this is the backstop for
// records loaded from storage.
func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.PaymentStatus.Validate(); err != nil {
		return err
	}

	switch e.Kind {
	case FixedExpense:
		if !e.Date.IsEmpty() {
			return ErrMixedVariant
		}
		if e.DueDay < 1 || e.DueDay > 31 {
			return ErrInvalidDueDay
		}
		if err := e.ReferenceMonth.Validate(); err != nil {
			return err
		}
		if e.ReferenceMonth.Day() != 1 {
			return errors.New("reference month must be the first day of a month")
		}
	case GeneralExpense:
		if e.DueDay != 0 || !e.ReferenceMonth.IsEmpty() || e.Active || e.OriginExpenseID != "" {
			return ErrMixedVariant
		}
		if err := e.Date.Validate(); err != nil {
			return err
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

// EffectiveDate is the date an expense sorts and filters by: the
// reference month for fixed expenses, the exact date for general ones.
func (e Expense) EffectiveDate() Date {
	if e.Kind == FixedExpense {
		return e.ReferenceMonth
	}
	return e.Date
}

// Origin returns the identifier the next clone in a rollover chain must
// carry: the original template's ID, never an intermediate clone's.
func (e Expense) Origin() string {
	if e.OriginExpenseID != "" {
		return e.OriginExpenseID
	}
	return e.ID
}
