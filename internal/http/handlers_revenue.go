package http

import (
	"fmt"
	"net/http"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/store"
)

type revenueRequest struct {
	Date        string `json:"date"` // 2006-01-02
	Description string `json:"description"`
	// Amount is a decimal string, e.g. "1500.00".
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	ReceiptStatus string `json:"receipt_status"`
	Notes         string `json:"notes"`
}

func (req revenueRequest) toRevenue() (core.Revenue, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Revenue{}, err
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Revenue{}, fmt.Errorf("invalid amount '%s': %w", req.Amount, err)
	}

	status := core.ReceiptStatus(req.ReceiptStatus)
	if req.ReceiptStatus == "" {
		status = core.ReceiptPending
	}
	if err := status.Validate(); err != nil {
		return core.Revenue{}, fmt.Errorf("invalid receipt_status '%s'", req.ReceiptStatus)
	}

	revenue, err := core.NewRevenue(date, sanitizeInput(req.Description),
		core.Money{Cents: cents}, sanitizeInput(req.Category), status)
	if err != nil {
		return core.Revenue{}, err
	}
	revenue.Notes = sanitizeInput(req.Notes)
	return revenue, nil
}

func (s *Server) handleListRevenues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var f store.RevenueFilter
	var err error
	if f.DateStart, err = parseDateParam(query, "date_start"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.DateEnd, err = parseDateParam(query, "date_end"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.Category = sanitizeInput(query.Get("category"))
	if v := query.Get("receipt_status"); v != "" {
		status := core.ReceiptStatus(v)
		if err := status.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid receipt_status '"+v+"'")
			return
		}
		f.ReceiptStatus = status
	}

	revenues, err := s.store.FetchRevenues(r.Context(), f)
	if err != nil {
		respondError(w, r, core.NewDataAccessError("fetch revenues", err))
		return
	}
	out := make([]revenuePayload, len(revenues))
	for i, rev := range revenues {
		out[i] = toRevenuePayload(rev)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRevenue(w http.ResponseWriter, r *http.Request) {
	var req revenueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	revenue, err := req.toRevenue()
	if err != nil {
		respondValidationError(w, err)
		return
	}

	if err := s.store.CreateRevenue(r.Context(), revenue); err != nil {
		respondError(w, r, err)
		return
	}

	s.publishExport(r, revenue.Date.Format(monthLayout), amqp.ReasonManual)
	writeJSON(w, http.StatusCreated, toRevenuePayload(revenue))
}

func (s *Server) handleDeleteRevenue(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRevenue(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
