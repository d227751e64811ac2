package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"caixa/internal/core"
	"caixa/internal/store"

	_ "modernc.org/sqlite"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.EntityStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateSupplier(ctx context.Context, s core.Supplier) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, tax_id, phone, email, address, payment_term_days, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.TaxID, s.Phone, s.Email, s.Address, s.PaymentTermDays, boolToInt(s.Active), s.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	slog.InfoContext(ctx, "Supplier saved", "id", s.ID, "name", s.Name)
	return nil
}

func (r *SQLiteRepository) UpdateSupplier(ctx context.Context, s core.Supplier) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = ?, tax_id = ?, phone = ?, email = ?, address = ?, payment_term_days = ?, active = ?
		WHERE id = ?`,
		s.Name, s.TaxID, s.Phone, s.Email, s.Address, s.PaymentTermDays, boolToInt(s.Active), s.ID)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return requireRow(res)
}

// DeleteSupplier refuses to remove a supplier that purchases still
// reference; those records must keep their supplier lineage.
func (r *SQLiteRepository) DeleteSupplier(ctx context.Context, id string) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchases WHERE supplier_id = ?`, id).Scan(&refs); err != nil {
		return fmt.Errorf("count supplier references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("supplier has %d purchases: %w", refs, core.ErrConstraintViolation)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListSuppliers(ctx context.Context, activeOnly bool) ([]core.Supplier, error) {
	query := `
		SELECT id, name, tax_id, phone, email, address, payment_term_days, active, created_at
		FROM suppliers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []core.Supplier
	for rows.Next() {
		var s core.Supplier
		var active int
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.Email, &s.Address, &s.PaymentTermDays, &active, &createdAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		s.Active = active != 0
		s.CreatedAt = parseTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountActiveSuppliers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM suppliers WHERE active = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active suppliers: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CreatePurchase(ctx context.Context, p core.Purchase) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO purchases (id, supplier_id, date, amount_cents, payment_method, payment_status,
			invoice_number, due_date, invoice_ref, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SupplierID, fmtDate(p.Date), p.Amount.Cents, string(p.PaymentMethod), string(p.PaymentStatus),
		p.InvoiceNumber, fmtDate(p.DueDate), p.InvoiceRef, p.Notes, p.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	slog.InfoContext(ctx, "Purchase saved",
		"id", p.ID,
		"supplier_id", p.SupplierID,
		"amount_cents", p.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) DeletePurchase(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) FetchPurchases(ctx context.Context, f store.PurchaseFilter) ([]core.Purchase, error) {
	query := `
		SELECT p.id, p.supplier_id, COALESCE(s.name, ''), p.date, p.amount_cents,
			p.payment_method, p.payment_status, p.invoice_number, p.due_date,
			p.invoice_ref, p.notes, p.created_at
		FROM purchases p
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE 1 = 1`
	var args []any
	if !f.DateStart.IsEmpty() {
		query += ` AND p.date >= ?`
		args = append(args, fmtDate(f.DateStart))
	}
	if !f.DateEnd.IsEmpty() {
		query += ` AND p.date <= ?`
		args = append(args, fmtDate(f.DateEnd))
	}
	if !f.DueStart.IsEmpty() {
		query += ` AND p.due_date != '' AND p.due_date >= ?`
		args = append(args, fmtDate(f.DueStart))
	}
	if !f.DueEnd.IsEmpty() {
		query += ` AND p.due_date != '' AND p.due_date <= ?`
		args = append(args, fmtDate(f.DueEnd))
	}
	if f.SupplierID != "" {
		query += ` AND p.supplier_id = ?`
		args = append(args, f.SupplierID)
	}
	if f.PaymentStatus != "" {
		query += ` AND p.payment_status = ?`
		args = append(args, string(f.PaymentStatus))
	}
	query += ` ORDER BY p.date DESC, p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	defer rows.Close()

	var out []core.Purchase
	for rows.Next() {
		var p core.Purchase
		var date, dueDate, method, status, createdAt string
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &date, &p.Amount.Cents,
			&method, &status, &p.InvoiceNumber, &dueDate, &p.InvoiceRef, &p.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Date = parseDate(date)
		p.DueDate = parseDate(dueDate)
		p.PaymentMethod = core.PaymentMethod(method)
		p.PaymentStatus = core.PaymentStatus(status)
		p.CreatedAt = parseTime(createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateRevenue(ctx context.Context, rev core.Revenue) error {
	if err := rev.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revenues (id, date, description, amount_cents, category, receipt_status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rev.ID, fmtDate(rev.Date), rev.Description, rev.Amount.Cents, rev.Category,
		string(rev.ReceiptStatus), rev.Notes, rev.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert revenue: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRevenue(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revenues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete revenue: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) FetchRevenues(ctx context.Context, f store.RevenueFilter) ([]core.Revenue, error) {
	query := `
		SELECT id, date, description, amount_cents, category, receipt_status, notes, created_at
		FROM revenues
		WHERE 1 = 1`
	var args []any
	if !f.DateStart.IsEmpty() {
		query += ` AND date >= ?`
		args = append(args, fmtDate(f.DateStart))
	}
	if !f.DateEnd.IsEmpty() {
		query += ` AND date <= ?`
		args = append(args, fmtDate(f.DateEnd))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.ReceiptStatus != "" {
		query += ` AND receipt_status = ?`
		args = append(args, string(f.ReceiptStatus))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch revenues: %w", err)
	}
	defer rows.Close()

	var out []core.Revenue
	for rows.Next() {
		var rev core.Revenue
		var date, status, createdAt string
		if err := rows.Scan(&rev.ID, &date, &rev.Description, &rev.Amount.Cents,
			&rev.Category, &status, &rev.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		rev.Date = parseDate(date)
		rev.ReceiptStatus = core.ReceiptStatus(status)
		rev.CreatedAt = parseTime(createdAt)
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, expenseInsertSQL, expenseInsertArgs(e)...)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"kind", string(e.Kind),
		"description", e.Description,
		"amount_cents", e.Amount.Cents)
	return nil
}

// UpdateExpense leaves origin_expense_id and created_at untouched so
// editing a rolled-over clone cannot break the lineage chain.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET description = ?, amount_cents = ?, category = ?, payment_status = ?, notes = ?,
			due_day = ?, reference_month = ?, active = ?, date = ?
		WHERE id = ?`,
		e.Description, e.Amount.Cents, e.Category, string(e.PaymentStatus), e.Notes,
		e.DueDay, fmtDate(e.ReferenceMonth), boolToInt(e.Active), fmtDate(e.Date), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, description, amount_cents, category, payment_status, notes,
			due_day, reference_month, active, origin_expense_id, date, created_at
		FROM expenses
		WHERE id = ?`, id)

	var e core.Expense
	var kind, status, refMonth, date, createdAt string
	var active int
	err := row.Scan(&e.ID, &kind, &e.Description, &e.Amount.Cents, &e.Category,
		&status, &e.Notes, &e.DueDay, &refMonth, &active, &e.OriginExpenseID, &date, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	e.Kind = core.ExpenseKind(kind)
	e.PaymentStatus = core.PaymentStatus(status)
	e.ReferenceMonth = parseDate(refMonth)
	e.Active = active != 0
	e.Date = parseDate(date)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

// BulkInsertExpenses writes the batch inside one transaction: either
// every row lands or none does.
func (r *SQLiteRepository) BulkInsertExpenses(ctx context.Context, expenses []core.Expense) error {
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, expenseInsertSQL)
	if err != nil {
		return fmt.Errorf("prepare bulk insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range expenses {
		if _, err := stmt.ExecContext(ctx, expenseInsertArgs(e)...); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	slog.InfoContext(ctx, "Expenses bulk inserted", "count", len(expenses))
	return nil
}

func (r *SQLiteRepository) FetchExpenses(ctx context.Context, f store.ExpenseFilter) ([]core.Expense, error) {
	hasDates := !f.DateStart.IsEmpty() || !f.DateEnd.IsEmpty()
	if f.Kind == "" && hasDates {
		return nil, store.ErrDateFilterNeedsKind
	}

	query := `
		SELECT id, kind, description, amount_cents, category, payment_status, notes,
			due_day, reference_month, active, origin_expense_id, date, created_at
		FROM expenses
		WHERE 1 = 1`
	var args []any
	dateColumn := "date"
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
		if f.Kind == core.FixedExpense {
			dateColumn = "reference_month"
		}
	}
	if !f.DateStart.IsEmpty() {
		query += ` AND ` + dateColumn + ` >= ?`
		args = append(args, fmtDate(f.DateStart))
	}
	if !f.DateEnd.IsEmpty() {
		query += ` AND ` + dateColumn + ` <= ?`
		args = append(args, fmtDate(f.DateEnd))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Description != "" {
		query += ` AND description = ?`
		args = append(args, f.Description)
	}
	if f.PaymentStatus != "" {
		query += ` AND payment_status = ?`
		args = append(args, string(f.PaymentStatus))
	}
	if f.ActiveOnly {
		query += ` AND (kind != 'fixed' OR active = 1)`
	}
	// Effective date: reference month for fixed rows, exact date for
	// general ones.
	query += ` ORDER BY CASE kind WHEN 'fixed' THEN reference_month ELSE date END DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var kind, status, refMonth, date, createdAt string
		var active int
		if err := rows.Scan(&e.ID, &kind, &e.Description, &e.Amount.Cents, &e.Category,
			&status, &e.Notes, &e.DueDay, &refMonth, &active, &e.OriginExpenseID, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Kind = core.ExpenseKind(kind)
		e.PaymentStatus = core.PaymentStatus(status)
		e.ReferenceMonth = parseDate(refMonth)
		e.Active = active != 0
		e.Date = parseDate(date)
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

const expenseInsertSQL = `
	INSERT INTO expenses (id, kind, description, amount_cents, category, payment_status, notes,
		due_day, reference_month, active, origin_expense_id, date, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func expenseInsertArgs(e core.Expense) []any {
	return []any{
		e.ID, string(e.Kind), e.Description, e.Amount.Cents, e.Category,
		string(e.PaymentStatus), e.Notes, e.DueDay, fmtDate(e.ReferenceMonth),
		boolToInt(e.Active), e.OriginExpenseID, fmtDate(e.Date), e.CreatedAt.Format(timeLayout),
	}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func fmtDate(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

func parseDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
