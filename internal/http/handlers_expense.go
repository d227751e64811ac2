package http

import (
	"fmt"
	"net/http"

	"caixa/internal/amqp"
	"caixa/internal/core"
)

type expenseRequest struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	// Amount is a decimal string, e.g. "120.50" or "120,50".
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaymentStatus string `json:"payment_status"`
	Notes         string `json:"notes"`

	// fixed variant
	DueDay         int    `json:"due_day"`
	ReferenceMonth string `json:"reference_month"` // 2006-01
	Active         *bool  `json:"active"`

	// general variant
	Date string `json:"date"` // 2006-01-02
}

// toExpense builds a validated expense from the request. The variant is
// chosen by kind; fields of the other variant must stay empty.
func (req expenseRequest) toExpense() (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid amount '%s': %w", req.Amount, err)
	}
	amount := core.Money{Cents: cents}
	description := sanitizeInput(req.Description)
	category := sanitizeInput(req.Category)

	var e core.Expense
	switch core.ExpenseKind(req.Kind) {
	case core.FixedExpense:
		month, err := monthOrNow(req.ReferenceMonth)
		if err != nil {
			return core.Expense{}, err
		}
		e, err = core.NewFixed(description, amount, category, req.DueDay, month)
		if err != nil {
			return core.Expense{}, err
		}
		if req.Active != nil {
			e.Active = *req.Active
		}
	case core.GeneralExpense:
		date, err := parseDate(req.Date)
		if err != nil {
			return core.Expense{}, err
		}
		e, err = core.NewGeneral(description, amount, category, date)
		if err != nil {
			return core.Expense{}, err
		}
	default:
		return core.Expense{}, core.ErrInvalidKind
	}

	e.Notes = sanitizeInput(req.Notes)
	if req.PaymentStatus != "" {
		status := core.PaymentStatus(req.PaymentStatus)
		if err := status.Validate(); err != nil {
			return core.Expense{}, fmt.Errorf("invalid payment_status '%s'", req.PaymentStatus)
		}
		e.PaymentStatus = status
	}
	return e, e.Validate()
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	query, err := parseExpenseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.filters.FilteredExpenses(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpensePayloads(expenses))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := req.toExpense()
	if err != nil {
		respondValidationError(w, err)
		return
	}

	if err := s.store.CreateExpense(r.Context(), expense); err != nil {
		respondError(w, r, err)
		return
	}

	s.publishExport(r, expense.EffectiveDate().Format(monthLayout), amqp.ReasonManual)
	writeJSON(w, http.StatusCreated, toExpensePayload(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := req.toExpense()
	if err != nil {
		respondValidationError(w, err)
		return
	}

	// The payload never carries lineage or insertion time; copy both
	// from the stored record so editing a rolled-over clone keeps its
	// chain pointing at the first template.
	current, err := s.store.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	expense.ID = current.ID
	expense.OriginExpenseID = current.OriginExpenseID
	expense.CreatedAt = current.CreatedAt

	if err := s.store.UpdateExpense(r.Context(), expense); err != nil {
		respondError(w, r, err)
		return
	}

	s.publishExport(r, expense.EffectiveDate().Format(monthLayout), amqp.ReasonManual)
	writeJSON(w, http.StatusOK, toExpensePayload(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
