package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"caixa/internal/core"
	"caixa/internal/store"
)

// RolloverService clones the previous month's active fixed expenses
// into a target month. The operation is idempotent by rejection: once
// the target month has any fixed expense, further attempts fail with
// ErrAlreadyRolledOver instead of duplicating.
type RolloverService struct {
	reader store.ExpenseReader
	writer store.ExpenseWriter
	now    func() time.Time
}

func NewRolloverService(reader store.ExpenseReader, writer store.ExpenseWriter) *RolloverService {
	return &RolloverService{
		reader: reader,
		writer: writer,
		now:    time.Now,
	}
}

// Rollover copies the previous month's active fixed expenses into the
// month containing target and returns how many were created.
//
// Clones start unpaid and carry the origin of their source, so a chain
// of rollovers always points back at the first template rather than at
// intermediate clones.
func (s *RolloverService) Rollover(ctx context.Context, target core.Date) (int, error) {
	targetMonth := core.FirstOfMonth(target)
	sourceMonth := core.PreviousMonth(targetMonth)

	// Any fixed expense in the target month, active or not, blocks the
	// rollover.
	existing, err := s.reader.FetchExpenses(ctx, store.ExpenseFilter{
		Kind:      core.FixedExpense,
		DateStart: targetMonth,
		DateEnd:   core.LastOfMonth(targetMonth),
	})
	if err != nil {
		return 0, core.NewDataAccessError("check target month", err)
	}
	if len(existing) > 0 {
		return 0, fmt.Errorf("month %s has %d fixed expenses: %w",
			targetMonth.Format("2006-01"), len(existing), core.ErrAlreadyRolledOver)
	}

	sources, err := s.reader.FetchExpenses(ctx, store.ExpenseFilter{
		Kind:       core.FixedExpense,
		DateStart:  sourceMonth,
		DateEnd:    core.LastOfMonth(sourceMonth),
		ActiveOnly: true,
	})
	if err != nil {
		return 0, core.NewDataAccessError("fetch source month", err)
	}
	if len(sources) == 0 {
		return 0, fmt.Errorf("month %s: %w", sourceMonth.Format("2006-01"), core.ErrNoSourceExpenses)
	}

	clones := make([]core.Expense, len(sources))
	for i, src := range sources {
		clones[i] = s.clone(src, targetMonth)
	}

	if err := s.writer.BulkInsertExpenses(ctx, clones); err != nil {
		return 0, core.NewDataAccessError("insert clones", err)
	}

	slog.InfoContext(ctx, "Month rollover completed",
		"source_month", sourceMonth.Format("2006-01"),
		"target_month", targetMonth.Format("2006-01"),
		"count", len(clones))

	return len(clones), nil
}

func (s *RolloverService) clone(src core.Expense, targetMonth core.Date) core.Expense {
	return core.Expense{
		ID:              uuid.NewString(),
		Kind:            core.FixedExpense,
		Description:     src.Description,
		Amount:          src.Amount,
		Category:        src.Category,
		PaymentStatus:   core.StatusPending,
		Notes:           src.Notes,
		DueDay:          src.DueDay,
		ReferenceMonth:  targetMonth,
		Active:          true,
		OriginExpenseID: src.Origin(),
		CreatedAt:       s.now().UTC(),
	}
}
