package http

import (
	"net/http"
	"strconv"

	"caixa/internal/core"
)

type supplierRequest struct {
	Name            string `json:"name"`
	TaxID           string `json:"tax_id"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	PaymentTermDays int    `json:"payment_term_days"`
	Active          *bool  `json:"active"`
}

func (req supplierRequest) apply(s *core.Supplier) {
	s.Name = sanitizeInput(req.Name)
	s.TaxID = sanitizeInput(req.TaxID)
	s.Phone = sanitizeInput(req.Phone)
	s.Email = sanitizeInput(req.Email)
	s.Address = sanitizeInput(req.Address)
	s.PaymentTermDays = req.PaymentTermDays
	if req.Active != nil {
		s.Active = *req.Active
	}
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid active '"+v+"': expected a boolean")
			return
		}
		activeOnly = parsed
	}

	suppliers, err := s.store.ListSuppliers(r.Context(), activeOnly)
	if err != nil {
		respondError(w, r, core.NewDataAccessError("list suppliers", err))
		return
	}
	out := make([]supplierPayload, len(suppliers))
	for i, sup := range suppliers {
		out[i] = toSupplierPayload(sup)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	supplier, err := core.NewSupplier(req.Name)
	if err != nil {
		respondValidationError(w, err)
		return
	}
	req.apply(&supplier)
	if err := supplier.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := s.store.CreateSupplier(r.Context(), supplier); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplierPayload(supplier))
}

func (s *Server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	supplier := core.Supplier{ID: r.PathValue("id"), Active: true}
	req.apply(&supplier)
	if err := supplier.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := s.store.UpdateSupplier(r.Context(), supplier); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplierPayload(supplier))
}

// handleDeleteSupplier hard-deletes a supplier. The store rejects the
// delete while purchases still reference it; deactivate via update to
// keep history.
func (s *Server) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSupplier(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
