package backend

import (
	"context"
	"fmt"

	"financas/internal/log"
	"financas/internal/sheets"
	gsheet "financas/internal/sheets/google"
	"financas/internal/sheets/memory"
)

// Factory creates mirrors. The sheets constructor is swappable for tests.
type Factory struct {
	logger    *log.Logger
	newSheets func(ctx context.Context, opts gsheet.Options) (sheets.LedgerMirror, error)
}

// NewFactory creates a new mirror factory.
func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{
		logger: logger.WithComponent(log.ComponentSheets),
		newSheets: func(ctx context.Context, opts gsheet.Options) (sheets.LedgerMirror, error) {
			return gsheet.New(ctx, opts)
		},
	}
}

// CreateMirror builds the mirror named by config.
func (f *Factory) CreateMirror(ctx context.Context, config Config) (sheets.LedgerMirror, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsMirror:
		m, err := f.newSheets(ctx, gsheet.Options{
			SpreadsheetID:    config.GoogleSpreadsheetID,
			ReceivablesSheet: config.GoogleReceivablesSheet,
			PayablesSheet:    config.GooglePayablesSheet,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets mirror", "spreadsheet_id", config.GoogleSpreadsheetID)
		return m, nil
	default:
		f.logger.Info("Initialized memory mirror")
		return memory.New(), nil
	}
}
