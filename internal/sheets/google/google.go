// Package google mirrors the ledger into a Google spreadsheet, one tab for
// receivables and one for payables, with the record id in column A.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"financas/internal/core"
	ports "financas/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	defaultReceivablesSheet = "Entradas"
	defaultPayablesSheet    = "Saidas"
)

type Client struct {
	svc              *gsheet.Service
	spreadsheetID    string
	receivablesSheet string
	payablesSheet    string

	mu       sync.Mutex
	sheetIDs map[string]int64 // tab title -> numeric sheet id
}

var _ ports.LedgerMirror = (*Client)(nil)

// Options selects the spreadsheet and tab names. Empty tab names fall back to
// "Entradas" and "Saidas".
type Options struct {
	SpreadsheetID    string
	ReceivablesSheet string
	PayablesSheet    string
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, opts), nil
}

func newClient(svc *gsheet.Service, opts Options) *Client {
	c := &Client{
		svc:              svc,
		spreadsheetID:    strings.TrimSpace(opts.SpreadsheetID),
		receivablesSheet: strings.TrimSpace(opts.ReceivablesSheet),
		payablesSheet:    strings.TrimSpace(opts.PayablesSheet),
		sheetIDs:         make(map[string]int64),
	}
	if c.receivablesSheet == "" {
		c.receivablesSheet = defaultReceivablesSheet
	}
	if c.payablesSheet == "" {
		c.payablesSheet = defaultPayablesSheet
	}
	return c
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) UpsertReceivable(ctx context.Context, r core.Receivable) error {
	return c.upsert(ctx, c.receivablesSheet, r.ID, receivableRow(r), receivableHeader)
}

func (c *Client) UpsertPayable(ctx context.Context, p core.Payable) error {
	return c.upsert(ctx, c.payablesSheet, p.ID, payableRow(p), payableHeader)
}

func (c *Client) upsert(ctx context.Context, sheet string, id int64, row, header []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ids, err := c.readRange(ctx, fmt.Sprintf("%s!A:A", sheet))
	if err != nil {
		return err
	}

	lastCol := columnLetter(len(header) - 1)
	if n := findRow(ids, id); n > 0 {
		rng := fmt.Sprintf("%s!A%d:%s%d", sheet, n, lastCol, n)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update %s: %w", rng, err)
		}
		slog.DebugContext(ctx, "Sheet row updated", "sheet", sheet, "row", n, "id", id)
		return nil
	}

	values := [][]any{row}
	if len(ids) == 0 {
		values = [][]any{header, row}
	}
	rng := fmt.Sprintf("%s!A:%s", sheet, lastCol)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	slog.DebugContext(ctx, "Sheet row appended", "sheet", sheet, "id", id)
	return nil
}

func (c *Client) Delete(ctx context.Context, kind string, id int64) error {
	sheet, err := c.sheetFor(kind)
	if err != nil {
		return err
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ids, err := c.readRange(ctx, fmt.Sprintf("%s!A:A", sheet))
	if err != nil {
		return err
	}
	n := findRow(ids, id)
	if n == 0 {
		return nil
	}
	return c.deleteRows(ctx, sheet, []int{n})
}

func (c *Client) DeleteGroup(ctx context.Context, groupID int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	values, err := c.readRange(ctx, fmt.Sprintf("%s!A:%s", c.payablesSheet, columnLetter(len(payableHeader)-1)))
	if err != nil {
		return err
	}
	rows := groupRows(values, groupID)
	if len(rows) == 0 {
		return nil
	}
	return c.deleteRows(ctx, c.payablesSheet, rows)
}

// ReplaceAll clears both tabs and writes the snapshot with a header row.
func (c *Client) ReplaceAll(ctx context.Context, receivables []core.Receivable, payables []core.Payable) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	recValues := [][]any{receivableHeader}
	for _, r := range receivables {
		recValues = append(recValues, receivableRow(r))
	}
	payValues := [][]any{payableHeader}
	for _, p := range payables {
		payValues = append(payValues, payableRow(p))
	}

	for _, tab := range []struct {
		sheet  string
		values [][]any
	}{
		{c.receivablesSheet, recValues},
		{c.payablesSheet, payValues},
	} {
		if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tab.sheet, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do(); err != nil {
			return fmt.Errorf("clear %s: %w", tab.sheet, err)
		}
		rng := fmt.Sprintf("%s!A1", tab.sheet)
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: tab.values}).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("write %s: %w", tab.sheet, err)
		}
	}

	slog.InfoContext(ctx, "Spreadsheet mirror rebuilt",
		"receivables", len(receivables),
		"payables", len(payables))
	return nil
}

func (c *Client) sheetFor(kind string) (string, error) {
	switch kind {
	case core.KindReceivable:
		return c.receivablesSheet, nil
	case core.KindPayable:
		return c.payablesSheet, nil
	}
	return "", fmt.Errorf("unknown record kind %q", kind)
}

func (c *Client) readRange(ctx context.Context, rng string) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// deleteRows removes whole rows; rows must be 1-based and sorted descending.
func (c *Client) deleteRows(ctx context.Context, sheet string, rows []int) error {
	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	reqs := make([]*gsheet.Request, 0, len(rows))
	for _, n := range rows {
		reqs = append(reqs, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(n - 1),
					EndIndex:   int64(n),
				},
			},
		})
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete rows from %s: %w", sheet, err)
	}
	slog.DebugContext(ctx, "Sheet rows deleted", "sheet", sheet, "count", len(rows))
	return nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[title]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet properties: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			c.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}
	id, ok = c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found in spreadsheet", title)
	}
	return id, nil
}
