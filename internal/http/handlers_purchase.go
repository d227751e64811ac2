package http

import (
	"fmt"
	"net/http"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/store"
)

type purchaseRequest struct {
	SupplierID string `json:"supplier_id"`
	Date       string `json:"date"` // 2006-01-02
	// Amount is a decimal string, e.g. "350.00".
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	InvoiceNumber string `json:"invoice_number"`
	DueDate       string `json:"due_date"` // optional, 2006-01-02
	InvoiceRef    string `json:"invoice_ref"`
	Notes         string `json:"notes"`
}

func (req purchaseRequest) toPurchase() (core.Purchase, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Purchase{}, err
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("invalid amount '%s': %w", req.Amount, err)
	}

	status := core.PaymentStatus(req.PaymentStatus)
	if req.PaymentStatus == "" {
		status = core.StatusPending
	}

	purchase, err := core.NewPurchase(sanitizeInput(req.SupplierID), date,
		core.Money{Cents: cents}, core.PaymentMethod(req.PaymentMethod), status)
	if err != nil {
		return core.Purchase{}, err
	}

	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return core.Purchase{}, err
		}
		purchase.DueDate = due
	}
	purchase.InvoiceNumber = sanitizeInput(req.InvoiceNumber)
	purchase.InvoiceRef = sanitizeInput(req.InvoiceRef)
	purchase.Notes = sanitizeInput(req.Notes)
	return purchase, nil
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var f store.PurchaseFilter
	var err error
	if f.DateStart, err = parseDateParam(query, "date_start"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.DateEnd, err = parseDateParam(query, "date_end"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.SupplierID = sanitizeInput(query.Get("supplier_id"))
	if v := query.Get("payment_status"); v != "" {
		status := core.PaymentStatus(v)
		if err := status.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payment_status '"+v+"'")
			return
		}
		f.PaymentStatus = status
	}

	purchases, err := s.store.FetchPurchases(r.Context(), f)
	if err != nil {
		respondError(w, r, core.NewDataAccessError("fetch purchases", err))
		return
	}
	out := make([]purchasePayload, len(purchases))
	for i, p := range purchases {
		out[i] = toPurchasePayload(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	purchase, err := req.toPurchase()
	if err != nil {
		respondValidationError(w, err)
		return
	}

	if err := s.store.CreatePurchase(r.Context(), purchase); err != nil {
		respondError(w, r, err)
		return
	}

	s.publishExport(r, purchase.Date.Format(monthLayout), amqp.ReasonManual)
	writeJSON(w, http.StatusCreated, toPurchasePayload(purchase))
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePurchase(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
