// Package google exports monthly summaries to a Google Sheets
// spreadsheet using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"caixa/internal/core"
	ports "caixa/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.SummaryWriter = (*Client)(nil)

// Config carries the export destination and credentials. Exactly one
// of CredentialsJSON or CredentialsFile must be set.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Summaries"
	}

	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets export client created",
		"spreadsheet_id", cfg.SpreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	if json := strings.TrimSpace(cfg.CredentialsJSON); json != "" {
		return []byte(json), nil
	}
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		credentials, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return credentials, nil
	}
	return nil, errors.New("missing service account credentials")
}

// WriteSummary upserts the month's row: an existing row for the same
// month is overwritten, otherwise a new row is appended.
func (c *Client) WriteSummary(ctx context.Context, s core.MonthlySummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	month := s.Month.Format("2006-01")

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	row := len(resp.Values) + 1
	for i, cells := range resp.Values {
		if len(cells) > 0 && fmt.Sprint(cells[0]) == month {
			row = i + 1
			break
		}
	}

	dataRange := fmt.Sprintf("%s!A%d:I%d", c.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{{
		month,
		s.Revenue.Total.Float(),
		s.Revenue.Received.Float(),
		s.Revenue.Pending.Float(),
		s.Purchases.Total.Float(),
		s.Expenses.FixedTotal.Float(),
		s.Expenses.GeneralTotal.Float(),
		s.NetProfit.Float(),
		s.ProfitMargin,
	}}}

	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write summary row for %s: %w", month, err)
	}

	slog.InfoContext(ctx, "Summary exported to Google Sheets",
		"month", month,
		"row", row,
		"net_profit_cents", s.NetProfit.Cents)

	return nil
}
