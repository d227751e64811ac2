package http

import (
	"net/http"
	"strconv"
	"time"

	"caixa/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthParam(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := s.dashboard.Metrics(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardPayload{
		Report:          toReportPayload(metrics.Report),
		ActiveSuppliers: metrics.ActiveSuppliers,
	})
}

func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := parseDateParam(query, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if from.IsEmpty() {
		now := time.Now().UTC()
		from = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	days := 7
	if v := query.Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 90 {
			writeError(w, http.StatusBadRequest, "invalid days '"+v+"': expected 1..90")
			return
		}
		days = parsed
	}

	bills, err := s.dashboard.UpcomingBills(r.Context(), from, days)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillPayloads(bills))
}
