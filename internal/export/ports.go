// Package export publishes monthly summaries to external sinks.
package export

import (
	"context"

	"caixa/internal/core"
)

// SummaryWriter appends one month's summary to a sink, replacing any
// previously exported row for the same month.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, s core.MonthlySummary) error
}
