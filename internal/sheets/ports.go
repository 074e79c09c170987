// Package sheets defines the outbound port for mirroring the ledger to a
// spreadsheet. Adapters live in the google and memory subpackages.
package sheets

import (
	"context"

	"financas/internal/core"
)

// LedgerMirror keeps an external copy of the ledger, one row per record keyed
// by record id. All methods are idempotent.
type LedgerMirror interface {
	UpsertReceivable(ctx context.Context, r core.Receivable) error
	UpsertPayable(ctx context.Context, p core.Payable) error
	// Delete removes the row of one record. Missing rows are not an error.
	Delete(ctx context.Context, kind string, id int64) error
	// DeleteGroup removes every payable row of an installment group.
	DeleteGroup(ctx context.Context, groupID int64) error
	// ReplaceAll rewrites the mirror from a full snapshot.
	ReplaceAll(ctx context.Context, receivables []core.Receivable, payables []core.Payable) error
}
