package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"caixa/internal/core"
	"caixa/internal/services"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"

	maxBodyBytes = 1 << 20 // 1MB
)

// parseMonthParam reads the month query parameter (2006-01 format),
// defaulting to the current month when absent.
func parseMonthParam(query url.Values) (core.Date, error) {
	v := strings.TrimSpace(query.Get("month"))
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

// parseDateParam reads an optional date query parameter (2006-01-02
// format). Absent values return the zero date.
func parseDateParam(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid %s '%s': expected YYYY-MM-DD", key, v)
	}
	return core.Date{Time: t}, nil
}

// parseDate parses a required date string in 2006-01-02 format.
func parseDate(value string) (core.Date, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date '%s': expected YYYY-MM-DD", value)
	}
	return core.Date{Time: t}, nil
}

// parseExpenseQuery builds the expense filter from query parameters.
// kind is optional; a date range without a kind is answered per kind
// by the filter composer.
func parseExpenseQuery(query url.Values) (services.ExpenseQuery, error) {
	var q services.ExpenseQuery

	if v := strings.TrimSpace(query.Get("kind")); v != "" {
		kind := core.ExpenseKind(v)
		if kind != core.FixedExpense && kind != core.GeneralExpense {
			return q, fmt.Errorf("invalid kind '%s': must be 'fixed' or 'general'", v)
		}
		q.Kind = kind
	}

	var err error
	if q.DateStart, err = parseDateParam(query, "date_start"); err != nil {
		return q, err
	}
	if q.DateEnd, err = parseDateParam(query, "date_end"); err != nil {
		return q, err
	}

	q.Category = sanitizeInput(query.Get("category"))
	q.Description = sanitizeInput(query.Get("description"))

	if v := strings.TrimSpace(query.Get("payment_status")); v != "" {
		status := core.PaymentStatus(v)
		if err := status.Validate(); err != nil {
			return q, fmt.Errorf("invalid payment_status '%s'", v)
		}
		q.PaymentStatus = status
	}

	if v := strings.TrimSpace(query.Get("active")); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("invalid active '%s': expected a boolean", v)
		}
		q.ActiveOnly = active
	}

	return q, nil
}

// decodeJSON reads a JSON request body into dst, bounding the body size.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
