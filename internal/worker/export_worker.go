package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/export"
	"caixa/internal/services"
)

// ExportWorker consumes summary export requests and writes the
// recomputed summary to the configured sink.
type ExportWorker struct {
	reports *services.ReportService
	writer  export.SummaryWriter
}

func NewExportWorker(reports *services.ReportService, writer export.SummaryWriter) *ExportWorker {
	return &ExportWorker{
		reports: reports,
		writer:  writer,
	}
}

// HandleExportMessage processes a single summary export message.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.SummaryExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"month", msg.Month,
		"reason", msg.Reason)

	month, err := parseMonth(msg.Month)
	if err != nil {
		// A malformed month can never succeed; report it without
		// requeueing by succeeding the delivery.
		slog.ErrorContext(ctx, "Discarding export message with invalid month",
			"month", msg.Month,
			"error", err)
		return nil
	}

	summary, err := w.reports.MonthlySummary(ctx, month)
	if err != nil {
		return fmt.Errorf("compute summary for %s: %w", msg.Month, err)
	}

	if err := w.writer.WriteSummary(ctx, summary); err != nil {
		return fmt.Errorf("write summary for %s: %w", msg.Month, err)
	}

	slog.InfoContext(ctx, "Summary exported",
		"month", msg.Month,
		"net_profit_cents", summary.NetProfit.Cents)

	return nil
}

func parseMonth(s string) (core.Date, error) {
	t, err := time.ParseInLocation("2006-01", s, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}
