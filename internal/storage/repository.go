package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the ledger record store.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

// dsn enables WAL, a busy timeout for concurrent writers and foreign keys.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateReceivable stores r and returns it with its assigned id.
func (r *SQLiteRepository) CreateReceivable(ctx context.Context, rec core.Receivable) (core.Receivable, error) {
	if err := rec.Validate(); err != nil {
		return core.Receivable{}, err
	}
	row, err := r.queries.CreateReceivable(ctx, CreateReceivableParams{
		Name:        rec.Name,
		AmountCents: rec.Amount.Cents,
		Status:      string(rec.Status),
		RecordDate:  rec.Date.String(),
	})
	if err != nil {
		return core.Receivable{}, &core.StorageError{Op: "create receivable", Err: err}
	}

	slog.InfoContext(ctx, "Receivable saved to SQLite",
		"id", row.ID,
		"name", row.Name,
		"amount_cents", row.AmountCents,
		"date", row.RecordDate)

	return toReceivable(row)
}

func (r *SQLiteRepository) GetReceivable(ctx context.Context, id int64) (core.Receivable, error) {
	row, err := r.queries.GetReceivable(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receivable{}, &core.NotFoundError{Kind: core.KindReceivable, ID: id}
	}
	if err != nil {
		return core.Receivable{}, &core.StorageError{Op: "get receivable", Err: err}
	}
	return toReceivable(row)
}

// UpdateReceivable overwrites every field of the receivable with rec.ID.
func (r *SQLiteRepository) UpdateReceivable(ctx context.Context, rec core.Receivable) (core.Receivable, error) {
	if err := rec.Validate(); err != nil {
		return core.Receivable{}, err
	}
	n, err := r.queries.UpdateReceivable(ctx, UpdateReceivableParams{
		Name:        rec.Name,
		AmountCents: rec.Amount.Cents,
		Status:      string(rec.Status),
		RecordDate:  rec.Date.String(),
		ID:          rec.ID,
	})
	if err != nil {
		return core.Receivable{}, &core.StorageError{Op: "update receivable", Err: err}
	}
	if n == 0 {
		return core.Receivable{}, &core.NotFoundError{Kind: core.KindReceivable, ID: rec.ID}
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteReceivable(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteReceivable(ctx, id)
	if err != nil {
		return &core.StorageError{Op: "delete receivable", Err: err}
	}
	if n == 0 {
		return &core.NotFoundError{Kind: core.KindReceivable, ID: id}
	}
	slog.InfoContext(ctx, "Receivable deleted", "id", id)
	return nil
}

// ListReceivables returns every receivable, newest first.
func (r *SQLiteRepository) ListReceivables(ctx context.Context) ([]core.Receivable, error) {
	rows, err := r.queries.ListReceivables(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "list receivables", Err: err}
	}
	return toReceivables(rows)
}

// ListReceivablesBetween returns receivables dated from..to, both inclusive.
func (r *SQLiteRepository) ListReceivablesBetween(ctx context.Context, from, to core.Date) ([]core.Receivable, error) {
	rows, err := r.queries.ListReceivablesBetween(ctx, ListReceivablesBetweenParams{
		FromDate: from.String(),
		ToDate:   to.String(),
	})
	if err != nil {
		return nil, &core.StorageError{Op: "list receivables", Err: err}
	}
	return toReceivables(rows)
}

// CreatePayables writes payables in a single transaction. When they form an
// installment split, a fresh group id is allocated in the same transaction and
// assigned to every member, so readers see the whole group or nothing.
func (r *SQLiteRepository) CreatePayables(ctx context.Context, payables []core.Payable) ([]core.Payable, error) {
	if len(payables) == 0 {
		return nil, nil
	}
	for _, p := range payables {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	grouped := payables[0].IsInstallment()
	if grouped && len(payables) != payables[0].InstallmentCount {
		return nil, &core.ValidationError{
			Field:  "installments",
			Reason: fmt.Sprintf("got %d payables for a split into %d", len(payables), payables[0].InstallmentCount),
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &core.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	var groupID sql.NullInt64
	if grouped {
		var total int64
		for _, p := range payables {
			total += p.Amount.Cents
		}
		id, err := q.CreateInstallmentGroup(ctx, CreateInstallmentGroupParams{
			TotalCents:       total,
			InstallmentCount: int64(len(payables)),
		})
		if err != nil {
			return nil, &core.StorageError{Op: "allocate installment group", Err: err}
		}
		groupID = sql.NullInt64{Int64: id, Valid: true}
	}

	out := make([]core.Payable, 0, len(payables))
	for _, p := range payables {
		row, err := q.CreatePayable(ctx, CreatePayableParams{
			Name:             p.Name,
			AmountCents:      p.Amount.Cents,
			Tags:             p.Tags.String(),
			CreatedDate:      p.CreatedAt.String(),
			InstallmentIndex: int64(p.InstallmentIndex),
			InstallmentCount: int64(p.InstallmentCount),
			GroupID:          groupID,
			DueDate:          p.DueDate.String(),
		})
		if err != nil {
			return nil, &core.StorageError{Op: "create payable", Err: err}
		}
		created, err := toPayable(row)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}

	if err := tx.Commit(); err != nil {
		return nil, &core.StorageError{Op: "commit payables", Err: err}
	}

	slog.InfoContext(ctx, "Payables saved to SQLite",
		"count", len(out),
		"group_id", groupID.Int64,
		"first_due", out[0].DueDate.String())

	return out, nil
}

func (r *SQLiteRepository) GetPayable(ctx context.Context, id int64) (core.Payable, error) {
	row, err := r.queries.GetPayable(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payable{}, &core.NotFoundError{Kind: core.KindPayable, ID: id}
	}
	if err != nil {
		return core.Payable{}, &core.StorageError{Op: "get payable", Err: err}
	}
	return toPayable(row)
}

// UpdatePayable overwrites name, amount, tags and due date. The installment
// position and group are fixed at creation.
func (r *SQLiteRepository) UpdatePayable(ctx context.Context, p core.Payable) (core.Payable, error) {
	if err := p.Validate(); err != nil {
		return core.Payable{}, err
	}
	n, err := r.queries.UpdatePayable(ctx, UpdatePayableParams{
		Name:        p.Name,
		AmountCents: p.Amount.Cents,
		Tags:        p.Tags.String(),
		DueDate:     p.DueDate.String(),
		ID:          p.ID,
	})
	if err != nil {
		return core.Payable{}, &core.StorageError{Op: "update payable", Err: err}
	}
	if n == 0 {
		return core.Payable{}, &core.NotFoundError{Kind: core.KindPayable, ID: p.ID}
	}
	return r.GetPayable(ctx, p.ID)
}

func (r *SQLiteRepository) DeletePayable(ctx context.Context, id int64) error {
	n, err := r.queries.DeletePayable(ctx, id)
	if err != nil {
		return &core.StorageError{Op: "delete payable", Err: err}
	}
	if n == 0 {
		return &core.NotFoundError{Kind: core.KindPayable, ID: id}
	}
	slog.InfoContext(ctx, "Payable deleted", "id", id)
	return nil
}

// DeletePayableGroup removes every installment of a group and returns how many
// rows went away. The group id itself stays allocated.
func (r *SQLiteRepository) DeletePayableGroup(ctx context.Context, groupID int64) (int64, error) {
	n, err := r.queries.DeletePayablesByGroup(ctx, sql.NullInt64{Int64: groupID, Valid: true})
	if err != nil {
		return 0, &core.StorageError{Op: "delete installment group", Err: err}
	}
	if n == 0 {
		return 0, &core.NotFoundError{Kind: core.KindInstallmentGroup, ID: groupID}
	}
	slog.InfoContext(ctx, "Installment group deleted", "group_id", groupID, "deleted", n)
	return n, nil
}

// ListPayables returns every payable ordered by due date.
func (r *SQLiteRepository) ListPayables(ctx context.Context) ([]core.Payable, error) {
	rows, err := r.queries.ListPayables(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "list payables", Err: err}
	}
	return toPayables(rows)
}

// ListPayablesDueBetween returns payables due from..to, both inclusive.
func (r *SQLiteRepository) ListPayablesDueBetween(ctx context.Context, from, to core.Date) ([]core.Payable, error) {
	rows, err := r.queries.ListPayablesDueBetween(ctx, ListPayablesDueBetweenParams{
		FromDate: from.String(),
		ToDate:   to.String(),
	})
	if err != nil {
		return nil, &core.StorageError{Op: "list payables", Err: err}
	}
	return toPayables(rows)
}

// ListPayableGroup returns the installments of a group in index order.
func (r *SQLiteRepository) ListPayableGroup(ctx context.Context, groupID int64) ([]core.Payable, error) {
	rows, err := r.queries.ListPayablesByGroup(ctx, sql.NullInt64{Int64: groupID, Valid: true})
	if err != nil {
		return nil, &core.StorageError{Op: "list installment group", Err: err}
	}
	return toPayables(rows)
}

// AvailableMonths returns every month holding a receivable or a payable due
// date, most recent first.
func (r *SQLiteRepository) AvailableMonths(ctx context.Context) ([]core.Period, error) {
	rows, err := r.queries.ListAvailableMonths(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "list available months", Err: err}
	}
	months := make([]core.Period, 0, len(rows))
	for _, m := range rows {
		months = append(months, core.Period{Year: int(m.Year), Month: int(m.Month)})
	}
	return months, nil
}

func toReceivable(row ReceivableRow) (core.Receivable, error) {
	date, err := core.ParseDate(row.RecordDate)
	if err != nil {
		return core.Receivable{}, &core.StorageError{
			Op:  "decode receivable",
			Err: fmt.Errorf("receivable %d has malformed date %q", row.ID, row.RecordDate),
		}
	}
	return core.Receivable{
		ID:     row.ID,
		Name:   row.Name,
		Amount: core.Money{Cents: row.AmountCents},
		Status: core.NormalizeStatus(row.Status),
		Date:   date,
	}, nil
}

func toReceivables(rows []ReceivableRow) ([]core.Receivable, error) {
	out := make([]core.Receivable, 0, len(rows))
	for _, row := range rows {
		rec, err := toReceivable(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toPayable(row PayableRow) (core.Payable, error) {
	due, err := core.ParseDate(row.DueDate)
	if err != nil {
		return core.Payable{}, &core.StorageError{
			Op:  "decode payable",
			Err: fmt.Errorf("payable %d has malformed due date %q", row.ID, row.DueDate),
		}
	}
	created, err := core.ParseDate(row.CreatedDate)
	if err != nil {
		return core.Payable{}, &core.StorageError{
			Op:  "decode payable",
			Err: fmt.Errorf("payable %d has malformed creation date %q", row.ID, row.CreatedDate),
		}
	}
	p := core.Payable{
		ID:               row.ID,
		Name:             row.Name,
		Amount:           core.Money{Cents: row.AmountCents},
		Tags:             core.ParseTags(row.Tags),
		CreatedAt:        created,
		InstallmentIndex: int(row.InstallmentIndex),
		InstallmentCount: int(row.InstallmentCount),
		DueDate:          due,
	}
	if row.GroupID.Valid {
		id := row.GroupID.Int64
		p.GroupID = &id
	}
	return p, nil
}

func toPayables(rows []PayableRow) ([]core.Payable, error) {
	out := make([]core.Payable, 0, len(rows))
	for _, row := range rows {
		p, err := toPayable(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
