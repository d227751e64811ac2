// Package memory is an in-process SummaryWriter used by tests and the
// memory backend.
package memory

import (
	"context"
	"sync"

	"caixa/internal/core"
)

type Exporter struct {
	mu        sync.Mutex
	summaries map[string]core.MonthlySummary
	order     []string
}

func New() *Exporter {
	return &Exporter{summaries: make(map[string]core.MonthlySummary)}
}

// WriteSummary stores the summary keyed by month, overwriting any
// earlier export for the same month.
func (e *Exporter) WriteSummary(_ context.Context, s core.MonthlySummary) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := s.Month.Format("2006-01")
	if _, seen := e.summaries[key]; !seen {
		e.order = append(e.order, key)
	}
	e.summaries[key] = s
	return nil
}

// Summaries returns exported summaries in first-export order.
func (e *Exporter) Summaries() []core.MonthlySummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.MonthlySummary, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.summaries[key])
	}
	return out
}
