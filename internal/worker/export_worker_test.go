package worker

import (
	"context"
	"testing"

	"caixa/internal/amqp"
	"caixa/internal/core"
	memexport "caixa/internal/export/memory"
	"caixa/internal/services"
	memstore "caixa/internal/store/memory"
)

func TestHandleExportMessageWritesSummary(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	rev, err := core.NewRevenue(core.NewDate(2024, 6, 10), "Consulting", core.Money{Cents: 50000}, "Services", core.StatusReceived)
	if err != nil {
		t.Fatalf("NewRevenue: %v", err)
	}
	if err := st.CreateRevenue(ctx, rev); err != nil {
		t.Fatalf("CreateRevenue: %v", err)
	}

	exp, err := core.NewGeneral("Office supplies", core.Money{Cents: 5000}, "Office", core.NewDate(2024, 6, 12))
	if err != nil {
		t.Fatalf("NewGeneral: %v", err)
	}
	if err := st.CreateExpense(ctx, exp); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	sink := memexport.New()
	w := NewExportWorker(services.NewReportService(st, st, st), sink)

	msg := amqp.NewSummaryExportMessage("2024-06", amqp.ReasonManual)
	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("HandleExportMessage: %v", err)
	}

	summaries := sink.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 exported summary, got %d", len(summaries))
	}
	got := summaries[0]
	if got.Month.Format("2006-01") != "2024-06" {
		t.Errorf("exported month = %s, want 2024-06", got.Month.Format("2006-01"))
	}
	if got.NetProfit.Cents != 45000 {
		t.Errorf("net profit = %d cents, want 45000", got.NetProfit.Cents)
	}
}

func TestHandleExportMessageDiscardsInvalidMonth(t *testing.T) {
	st := memstore.New()
	sink := memexport.New()
	w := NewExportWorker(services.NewReportService(st, st, st), sink)

	msg := amqp.NewSummaryExportMessage("June 2024", amqp.ReasonManual)
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected invalid month to be discarded without error, got %v", err)
	}
	if len(sink.Summaries()) != 0 {
		t.Error("nothing should be exported for an invalid month")
	}
}

func TestHandleExportMessageOverwritesSameMonth(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	rev, err := core.NewRevenue(core.NewDate(2024, 7, 1), "Retainer", core.Money{Cents: 10000}, "Services", core.StatusReceived)
	if err != nil {
		t.Fatalf("NewRevenue: %v", err)
	}
	if err := st.CreateRevenue(ctx, rev); err != nil {
		t.Fatalf("CreateRevenue: %v", err)
	}

	sink := memexport.New()
	w := NewExportWorker(services.NewReportService(st, st, st), sink)

	msg := amqp.NewSummaryExportMessage("2024-07", amqp.ReasonRollover)
	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("first export: %v", err)
	}

	rev2, err := core.NewRevenue(core.NewDate(2024, 7, 20), "Extra", core.Money{Cents: 5000}, "Services", core.StatusReceived)
	if err != nil {
		t.Fatalf("NewRevenue: %v", err)
	}
	if err := st.CreateRevenue(ctx, rev2); err != nil {
		t.Fatalf("CreateRevenue: %v", err)
	}

	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("second export: %v", err)
	}

	summaries := sink.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("expected the month's row to be replaced, got %d rows", len(summaries))
	}
	if summaries[0].Revenue.Received.Cents != 15000 {
		t.Errorf("received revenue = %d cents, want 15000", summaries[0].Revenue.Received.Cents)
	}
}
