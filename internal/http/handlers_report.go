package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"caixa/internal/amqp"
	"caixa/internal/core"
)

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthParam(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.reports.MonthlySummary(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryPayload(summary))
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthParam(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.reports.Report(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportPayload(report))
}

type rolloverRequest struct {
	// Month in 2006-01 format; empty means the current month.
	Month string `json:"month"`
}

func (s *Server) handleRollover(w http.ResponseWriter, r *http.Request) {
	var req rolloverRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	target, err := monthOrNow(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := s.rollover.Rollover(r.Context(), target)
	if err != nil {
		respondError(w, r, err)
		return
	}

	monthStr := core.FirstOfMonth(target).Format(monthLayout)
	s.publishExport(r, monthStr, amqp.ReasonRollover)

	writeJSON(w, http.StatusCreated, rolloverResultPayload{
		TargetMonth: monthStr,
		Created:     count,
	})
}

type exportRequest struct {
	Month  string `json:"month"`
	Reason string `json:"reason"`
}

// handleExportRequest queues a summary export for a month. The export
// worker consumes the message and writes the spreadsheet row.
func (s *Server) handleExportRequest(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "export queue is not configured")
		return
	}

	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	month, err := monthOrNow(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = amqp.ReasonManual
	}
	switch reason {
	case amqp.ReasonManual, amqp.ReasonRollover, amqp.ReasonSchedule:
	default:
		writeError(w, http.StatusBadRequest, "invalid reason '"+reason+"'")
		return
	}

	monthStr := core.FirstOfMonth(month).Format(monthLayout)
	if err := s.publisher.PublishSummaryExport(r.Context(), monthStr, reason); err != nil {
		slog.ErrorContext(r.Context(), "Export publish failed", "error", err, "month", monthStr)
		writeError(w, http.StatusServiceUnavailable, "export queue unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"month": monthStr, "reason": reason})
}

// publishExport queues an export after a state change. Publish failures
// never fail the request that triggered them.
func (s *Server) publishExport(r *http.Request, month, reason string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSummaryExport(r.Context(), month, reason); err != nil {
		slog.WarnContext(r.Context(), "Export publish failed",
			"error", err, "month", month, "reason", reason)
	}
}

func monthOrNow(value string) (core.Date, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		now := time.Now().UTC()
		return core.NewDate(now.Year(), int(now.Month()), 1), nil
	}
	t, err := time.ParseInLocation(monthLayout, v, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid month '%s': expected YYYY-MM", v)
	}
	return core.Date{Time: t}, nil
}
