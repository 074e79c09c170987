package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/sheets"

	"golang.org/x/sync/errgroup"
)

// LedgerReader is the read side of the record store used by the mirror.
type LedgerReader interface {
	GetReceivable(ctx context.Context, id int64) (core.Receivable, error)
	GetPayable(ctx context.Context, id int64) (core.Payable, error)
	ListReceivables(ctx context.Context) ([]core.Receivable, error)
	ListPayables(ctx context.Context) ([]core.Payable, error)
}

// SyncWorker keeps the spreadsheet mirror in line with the database. Events
// only carry ids, so each one is applied by reading the current row.
type SyncWorker struct {
	store    LedgerReader
	mirror   sheets.LedgerMirror
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncWorker(store LedgerReader, mirror sheets.LedgerMirror, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		store:    store,
		mirror:   mirror,
		interval: interval,
	}
}

// HandleEvent applies one ledger event to the mirror.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.DebugContext(ctx, "Processing ledger event",
		"event_id", ev.ID,
		"kind", ev.Kind,
		"action", ev.Action,
		"record_id", ev.RecordID)

	switch ev.Action {
	case amqp.ActionDeleteGroup:
		if err := w.mirror.DeleteGroup(ctx, ev.GroupID); err != nil {
			return fmt.Errorf("delete group %d from mirror: %w", ev.GroupID, err)
		}
		return nil
	case amqp.ActionDelete:
		return w.delete(ctx, ev.Kind, ev.RecordID)
	case amqp.ActionUpsert:
		return w.upsert(ctx, ev.Kind, ev.RecordID)
	}
	return fmt.Errorf("unknown action %q", ev.Action)
}

func (w *SyncWorker) upsert(ctx context.Context, kind string, id int64) error {
	var err error
	switch kind {
	case amqp.KindReceivable:
		var r core.Receivable
		if r, err = w.store.GetReceivable(ctx, id); err == nil {
			err = w.mirror.UpsertReceivable(ctx, r)
		}
	case amqp.KindPayable:
		var p core.Payable
		if p, err = w.store.GetPayable(ctx, id); err == nil {
			err = w.mirror.UpsertPayable(ctx, p)
		}
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}

	// The record was removed after the event was published.
	if errors.Is(err, core.ErrNotFound) {
		return w.delete(ctx, kind, id)
	}
	if err != nil {
		return fmt.Errorf("mirror %s %d: %w", kind, id, err)
	}
	return nil
}

func (w *SyncWorker) delete(ctx context.Context, kind string, id int64) error {
	if err := w.mirror.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s %d from mirror: %w", kind, id, err)
	}
	return nil
}

// FullResync rewrites the mirror from the database.
func (w *SyncWorker) FullResync(ctx context.Context) error {
	var (
		receivables []core.Receivable
		payables    []core.Payable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receivables, err = w.store.ListReceivables(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payables, err = w.store.ListPayables(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	if err := w.mirror.ReplaceAll(ctx, receivables, payables); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	slog.InfoContext(ctx, "Full mirror resync completed",
		"receivables", len(receivables),
		"payables", len(payables))
	return nil
}

// Start runs a full resync now and then every interval, catching anything
// missed while the broker was unreachable.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("sync worker is already running")
	}
	if w.interval <= 0 {
		w.mu.Unlock()
		return fmt.Errorf("sync interval must be positive, got %s", w.interval)
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Sync worker started", "interval", w.interval)
	return nil
}

// Stop ends the resync loop and waits for it to exit.
func (w *SyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync worker stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync worker stop timed out")
		return ctx.Err()
	}
}

func (w *SyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SyncWorker) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.resync(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.resync(ctx)
		}
	}
}

func (w *SyncWorker) resync(ctx context.Context) {
	if err := w.FullResync(ctx); err != nil {
		slog.ErrorContext(ctx, "Periodic mirror resync failed", "error", err)
	}
}
