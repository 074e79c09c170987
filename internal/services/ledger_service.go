package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financas/internal/amqp"
	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/log"

	"golang.org/x/sync/errgroup"
)

// Store is the record store the ledger writes through.
type Store interface {
	CreateReceivable(ctx context.Context, r core.Receivable) (core.Receivable, error)
	GetReceivable(ctx context.Context, id int64) (core.Receivable, error)
	UpdateReceivable(ctx context.Context, r core.Receivable) (core.Receivable, error)
	DeleteReceivable(ctx context.Context, id int64) error
	ListReceivables(ctx context.Context) ([]core.Receivable, error)
	ListReceivablesBetween(ctx context.Context, from, to core.Date) ([]core.Receivable, error)

	CreatePayables(ctx context.Context, payables []core.Payable) ([]core.Payable, error)
	GetPayable(ctx context.Context, id int64) (core.Payable, error)
	UpdatePayable(ctx context.Context, p core.Payable) (core.Payable, error)
	DeletePayable(ctx context.Context, id int64) error
	DeletePayableGroup(ctx context.Context, groupID int64) (int64, error)
	ListPayableGroup(ctx context.Context, groupID int64) ([]core.Payable, error)
	ListPayables(ctx context.Context) ([]core.Payable, error)
	ListPayablesDueBetween(ctx context.Context, from, to core.Date) ([]core.Payable, error)

	AvailableMonths(ctx context.Context) ([]core.Period, error)
}

// EventPublisher announces ledger changes to the mirror worker.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEvent) error
}

// ReceivableInput carries the user-editable fields of a receivable. A zero
// Date means today.
type ReceivableInput struct {
	Name   string
	Amount core.Money
	Status string
	Date   core.Date
}

// PayableUpdate carries the user-editable fields of a payable.
type PayableUpdate struct {
	Name    string
	Amount  core.Money
	Tags    core.Tags
	DueDate core.Date
}

// SummaryKey identifies a cached dashboard. The upcoming list depends on the
// current day, so entries are keyed by it as well.
type SummaryKey struct {
	Period core.Period
	Day    string
}

const (
	dashboardCacheSize = 24
	dashboardCacheTTL  = 5 * time.Minute
)

// LedgerService implements the ledger operations on top of the record store.
// Writes are published as events when a publisher is configured; publishing
// failures never fail the write.
type LedgerService struct {
	store     Store
	publisher EventPublisher
	summaries *cache.LRUCache[SummaryKey, core.DashboardSummary]
	logger    *log.Logger
	events    *log.StructuredLogger
	now       func() time.Time

	// cacheMu orders summary inserts against purges. generation counts
	// purges, so a summary loaded across a write is never cached.
	cacheMu    sync.Mutex
	generation uint64
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

// NewLedgerService wires the service. publisher may be nil.
func NewLedgerService(store Store, publisher EventPublisher, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:     store,
		publisher: publisher,
		summaries: cache.NewLRUCache[SummaryKey, core.DashboardSummary](dashboardCacheSize, dashboardCacheTTL),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.FromContext(context.Background()).WithComponent(log.ComponentLedger)
	}
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

// SummaryCache exposes the dashboard cache so it can be registered for
// background expiry.
func (s *LedgerService) SummaryCache() *cache.LRUCache[SummaryKey, core.DashboardSummary] {
	return s.summaries
}

func (s *LedgerService) CreateReceivable(ctx context.Context, in ReceivableInput) (core.Receivable, error) {
	r := s.receivableFrom(0, in)
	if err := r.Validate(); err != nil {
		return core.Receivable{}, err
	}
	created, err := s.store.CreateReceivable(ctx, r)
	if err != nil {
		return core.Receivable{}, fmt.Errorf("create receivable: %w", err)
	}
	s.changed(ctx, log.OpCreate, amqp.NewLedgerEvent(amqp.KindReceivable, amqp.ActionUpsert, created.ID))
	s.events.LogLedgerChange(ctx, log.OpCreate, core.KindReceivable, created.ID, created.Name, created.Amount.Cents)
	return created, nil
}

func (s *LedgerService) UpdateReceivable(ctx context.Context, id int64, in ReceivableInput) (core.Receivable, error) {
	r := s.receivableFrom(id, in)
	if err := r.Validate(); err != nil {
		return core.Receivable{}, err
	}
	updated, err := s.store.UpdateReceivable(ctx, r)
	if err != nil {
		return core.Receivable{}, fmt.Errorf("update receivable: %w", err)
	}
	s.changed(ctx, log.OpUpdate, amqp.NewLedgerEvent(amqp.KindReceivable, amqp.ActionUpsert, id))
	return updated, nil
}

// SetReceivableStatus changes only the status of a receivable.
func (s *LedgerService) SetReceivableStatus(ctx context.Context, id int64, status string) (core.Receivable, error) {
	r, err := s.store.GetReceivable(ctx, id)
	if err != nil {
		return core.Receivable{}, fmt.Errorf("get receivable: %w", err)
	}
	r.Status = core.NormalizeStatus(status)
	updated, err := s.store.UpdateReceivable(ctx, r)
	if err != nil {
		return core.Receivable{}, fmt.Errorf("update receivable status: %w", err)
	}
	s.changed(ctx, log.OpUpdate, amqp.NewLedgerEvent(amqp.KindReceivable, amqp.ActionUpsert, id))
	return updated, nil
}

func (s *LedgerService) DeleteReceivable(ctx context.Context, id int64) error {
	if err := s.store.DeleteReceivable(ctx, id); err != nil {
		return fmt.Errorf("delete receivable: %w", err)
	}
	s.changed(ctx, log.OpDelete, amqp.NewLedgerEvent(amqp.KindReceivable, amqp.ActionDelete, id))
	return nil
}

// ListReceivables returns all receivables, or those of one month when period
// is not nil.
func (s *LedgerService) ListReceivables(ctx context.Context, period *core.Period) ([]core.Receivable, error) {
	var (
		out []core.Receivable
		err error
	)
	if period == nil {
		out, err = s.store.ListReceivables(ctx)
	} else {
		out, err = s.store.ListReceivablesBetween(ctx, period.Start(), period.End())
	}
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	return out, nil
}

// CreatePayable expands req into one payable or an installment group and
// stores it atomically.
func (s *LedgerService) CreatePayable(ctx context.Context, req core.InstallmentRequest) ([]core.Payable, error) {
	payables, err := core.GenerateInstallments(req, s.now())
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreatePayables(ctx, payables)
	if err != nil {
		return nil, fmt.Errorf("create payable: %w", err)
	}

	events := make([]*amqp.LedgerEvent, 0, len(created))
	for _, p := range created {
		events = append(events, amqp.NewLedgerEvent(amqp.KindPayable, amqp.ActionUpsert, p.ID))
	}
	s.changed(ctx, log.OpCreate, events...)

	if g := created[0].GroupID; g != nil {
		s.logger.InfoContext(ctx, "Installment group created",
			log.NewFields().WithGroup(*g, len(created)).WithAmount(req.Total.Cents).ToSlice()...)
	} else {
		s.events.LogLedgerChange(ctx, log.OpCreate, core.KindPayable, created[0].ID, created[0].Name, created[0].Amount.Cents)
	}
	return created, nil
}

// UpdatePayable overwrites the editable fields of one payable. The
// installment position and group stay as they were.
func (s *LedgerService) UpdatePayable(ctx context.Context, id int64, in PayableUpdate) (core.Payable, error) {
	current, err := s.store.GetPayable(ctx, id)
	if err != nil {
		return core.Payable{}, fmt.Errorf("get payable: %w", err)
	}
	current.Name = in.Name
	current.Amount = in.Amount
	current.Tags = in.Tags
	if !in.DueDate.IsZero() {
		current.DueDate = in.DueDate
	}
	if err := current.Validate(); err != nil {
		return core.Payable{}, err
	}

	updated, err := s.store.UpdatePayable(ctx, current)
	if err != nil {
		return core.Payable{}, fmt.Errorf("update payable: %w", err)
	}
	s.changed(ctx, log.OpUpdate, amqp.NewLedgerEvent(amqp.KindPayable, amqp.ActionUpsert, id))
	return updated, nil
}

// SetPayableSettled adds or removes the settled tag.
func (s *LedgerService) SetPayableSettled(ctx context.Context, id int64, settled bool) (core.Payable, error) {
	p, err := s.store.GetPayable(ctx, id)
	if err != nil {
		return core.Payable{}, fmt.Errorf("get payable: %w", err)
	}
	if settled == p.IsSettled() {
		return p, nil
	}
	if settled {
		p.Tags = p.Tags.Add(core.TagSettled)
	} else {
		p.Tags = p.Tags.Remove(core.TagSettled)
	}
	updated, err := s.store.UpdatePayable(ctx, p)
	if err != nil {
		return core.Payable{}, fmt.Errorf("settle payable: %w", err)
	}
	s.changed(ctx, log.OpSettle, amqp.NewLedgerEvent(amqp.KindPayable, amqp.ActionUpsert, id))
	return updated, nil
}

func (s *LedgerService) DeletePayable(ctx context.Context, id int64) error {
	if err := s.store.DeletePayable(ctx, id); err != nil {
		return fmt.Errorf("delete payable: %w", err)
	}
	s.changed(ctx, log.OpDelete, amqp.NewLedgerEvent(amqp.KindPayable, amqp.ActionDelete, id))
	return nil
}

// DeleteInstallmentGroup removes every installment of a group and reports
// how many were deleted.
func (s *LedgerService) DeleteInstallmentGroup(ctx context.Context, groupID int64) (int64, error) {
	n, err := s.store.DeletePayableGroup(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("delete installment group: %w", err)
	}
	s.changed(ctx, log.OpDelete, amqp.NewGroupDeletedEvent(groupID))
	return n, nil
}

// ListInstallmentGroup returns the installments of a group in index order.
func (s *LedgerService) ListInstallmentGroup(ctx context.Context, groupID int64) ([]core.Payable, error) {
	out, err := s.store.ListPayableGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list installment group: %w", err)
	}
	if len(out) == 0 {
		return nil, &core.NotFoundError{Kind: core.KindInstallmentGroup, ID: groupID}
	}
	return out, nil
}

// ListPayables returns all payables, or those due in one month when period
// is not nil.
func (s *LedgerService) ListPayables(ctx context.Context, period *core.Period) ([]core.Payable, error) {
	var (
		out []core.Payable
		err error
	)
	if period == nil {
		out, err = s.store.ListPayables(ctx)
	} else {
		out, err = s.store.ListPayablesDueBetween(ctx, period.Start(), period.End())
	}
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}
	return out, nil
}

// Dashboard aggregates the given month, or the current one when year or
// month is nil.
func (s *LedgerService) Dashboard(ctx context.Context, year, month *int) (core.DashboardSummary, error) {
	now := s.now()
	period, err := core.ResolvePeriod(year, month, now)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	today := core.DateOf(now)
	key := SummaryKey{Period: period, Day: today.String()}
	if cached, ok := s.summaries.Get(key); ok {
		return cached, nil
	}
	gen := s.cacheGeneration()

	horizon := core.UpcomingHorizon(today)
	payFrom, payTo := period.Start(), period.End()
	if today.Before(payFrom.Time) {
		payFrom = today
	}
	if horizon.After(payTo.Time) {
		payTo = horizon
	}

	var (
		receivables []core.Receivable
		payables    []core.Payable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receivables, err = s.store.ListReceivablesBetween(gctx, period.Start(), period.End())
		return err
	})
	g.Go(func() error {
		var err error
		payables, err = s.store.ListPayablesDueBetween(gctx, payFrom, payTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSummary{}, fmt.Errorf("load dashboard data: %w", err)
	}

	summary := core.Aggregate(receivables, payables, period, now)
	s.cacheSummary(gen, key, summary)
	s.logger.DebugContext(ctx, "Dashboard aggregated",
		log.NewFields().WithPeriod(period.Year, period.Month).WithOperation(log.OpAggregate).ToSlice()...)
	return summary, nil
}

// AvailableMonths lists the months that hold any record, most recent first.
func (s *LedgerService) AvailableMonths(ctx context.Context) ([]core.Period, error) {
	months, err := s.store.AvailableMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("available months: %w", err)
	}
	return months, nil
}

func (s *LedgerService) receivableFrom(id int64, in ReceivableInput) core.Receivable {
	date := in.Date
	if date.IsZero() {
		date = core.DateOf(s.now())
	}
	return core.Receivable{
		ID:     id,
		Name:   in.Name,
		Amount: in.Amount,
		Status: core.NormalizeStatus(in.Status),
		Date:   date,
	}
}

func (s *LedgerService) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// cacheSummary stores summary unless a write purged the cache after gen was
// read.
func (s *LedgerService) cacheSummary(gen uint64, key SummaryKey, summary core.DashboardSummary) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return
	}
	s.summaries.Set(key, summary)
}

func (s *LedgerService) invalidateSummaries() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	s.summaries.Purge()
}

// changed drops cached summaries and publishes events for a successful write.
func (s *LedgerService) changed(ctx context.Context, op string, events ...*amqp.LedgerEvent) {
	s.invalidateSummaries()
	if s.publisher == nil {
		return
	}
	for _, ev := range events {
		if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
			s.events.LogError(ctx, "Failed to publish ledger event", err, log.ComponentAMQP, log.OpPublish,
				log.NewFields().WithRecord(ev.Kind, ev.RecordID, "").WithGroup(ev.GroupID, 0))
		}
	}
	s.logger.DebugContext(ctx, "Ledger change published", log.FieldOperation, op, "events", len(events))
}
