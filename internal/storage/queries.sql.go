package storage

import (
	"context"
	"database/sql"
)

const createReceivable = `-- name: CreateReceivable :one
INSERT INTO receivables (name, amount_cents, status, record_date)
VALUES (?, ?, ?, ?)
RETURNING id, name, amount_cents, status, record_date
`

type CreateReceivableParams struct {
	Name        string
	AmountCents int64
	Status      string
	RecordDate  string
}

func (q *Queries) CreateReceivable(ctx context.Context, arg CreateReceivableParams) (ReceivableRow, error) {
	row := q.db.QueryRowContext(ctx, createReceivable,
		arg.Name,
		arg.AmountCents,
		arg.Status,
		arg.RecordDate,
	)
	var i ReceivableRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AmountCents,
		&i.Status,
		&i.RecordDate,
	)
	return i, err
}

const getReceivable = `-- name: GetReceivable :one
SELECT id, name, amount_cents, status, record_date FROM receivables
WHERE id = ?
`

func (q *Queries) GetReceivable(ctx context.Context, id int64) (ReceivableRow, error) {
	row := q.db.QueryRowContext(ctx, getReceivable, id)
	var i ReceivableRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AmountCents,
		&i.Status,
		&i.RecordDate,
	)
	return i, err
}

const updateReceivable = `-- name: UpdateReceivable :execrows
UPDATE receivables
SET name = ?, amount_cents = ?, status = ?, record_date = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateReceivableParams struct {
	Name        string
	AmountCents int64
	Status      string
	RecordDate  string
	ID          int64
}

func (q *Queries) UpdateReceivable(ctx context.Context, arg UpdateReceivableParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateReceivable,
		arg.Name,
		arg.AmountCents,
		arg.Status,
		arg.RecordDate,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteReceivable = `-- name: DeleteReceivable :execrows
DELETE FROM receivables WHERE id = ?
`

func (q *Queries) DeleteReceivable(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteReceivable, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listReceivables = `-- name: ListReceivables :many
SELECT id, name, amount_cents, status, record_date FROM receivables
ORDER BY record_date DESC, id DESC
`

func (q *Queries) ListReceivables(ctx context.Context) ([]ReceivableRow, error) {
	rows, err := q.db.QueryContext(ctx, listReceivables)
	if err != nil {
		return nil, err
	}
	return scanReceivables(rows)
}

const listReceivablesBetween = `-- name: ListReceivablesBetween :many
SELECT id, name, amount_cents, status, record_date FROM receivables
WHERE record_date >= ? AND record_date <= ?
ORDER BY record_date DESC, id DESC
`

type ListReceivablesBetweenParams struct {
	FromDate string
	ToDate   string
}

func (q *Queries) ListReceivablesBetween(ctx context.Context, arg ListReceivablesBetweenParams) ([]ReceivableRow, error) {
	rows, err := q.db.QueryContext(ctx, listReceivablesBetween, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	return scanReceivables(rows)
}

func scanReceivables(rows *sql.Rows) ([]ReceivableRow, error) {
	defer rows.Close()
	var items []ReceivableRow
	for rows.Next() {
		var i ReceivableRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.AmountCents,
			&i.Status,
			&i.RecordDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createInstallmentGroup = `-- name: CreateInstallmentGroup :one
INSERT INTO installment_groups (total_cents, installment_count)
VALUES (?, ?)
RETURNING id
`

type CreateInstallmentGroupParams struct {
	TotalCents       int64
	InstallmentCount int64
}

func (q *Queries) CreateInstallmentGroup(ctx context.Context, arg CreateInstallmentGroupParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createInstallmentGroup, arg.TotalCents, arg.InstallmentCount)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createPayable = `-- name: CreatePayable :one
INSERT INTO payables (name, amount_cents, tags, created_date, installment_index, installment_count, group_id, due_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, name, amount_cents, tags, created_date, installment_index, installment_count, group_id, due_date
`

type CreatePayableParams struct {
	Name             string
	AmountCents      int64
	Tags             string
	CreatedDate      string
	InstallmentIndex int64
	InstallmentCount int64
	GroupID          sql.NullInt64
	DueDate          string
}

func (q *Queries) CreatePayable(ctx context.Context, arg CreatePayableParams) (PayableRow, error) {
	row := q.db.QueryRowContext(ctx, createPayable,
		arg.Name,
		arg.AmountCents,
		arg.Tags,
		arg.CreatedDate,
		arg.InstallmentIndex,
		arg.InstallmentCount,
		arg.GroupID,
		arg.DueDate,
	)
	return scanPayable(row)
}

const getPayable = `-- name: GetPayable :one
SELECT id, name, amount_cents, tags, created_date, installment_index, installment_count, group_id, due_date FROM payables
WHERE id = ?
`

func (q *Queries) GetPayable(ctx context.Context, id int64) (PayableRow, error) {
	return scanPayable(q.db.QueryRowContext(ctx, getPayable, id))
}

const updatePayable = `-- name: UpdatePayable :execrows
UPDATE payables
SET name = ?, amount_cents = ?, tags = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdatePayableParams struct {
	Name        string
	AmountCents int64
	Tags        string
	DueDate     string
	ID          int64
}

func (q *Queries) UpdatePayable(ctx context.Context, arg UpdatePayableParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePayable,
		arg.Name,
		arg.AmountCents,
		arg.Tags,
		arg.DueDate,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePayable = `-- name: DeletePayable :execrows
DELETE FROM payables WHERE id = ?
`

func (q *Queries) DeletePayable(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePayable, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePayablesByGroup = `-- name: DeletePayablesByGroup :execrows
DELETE FROM payables WHERE group_id = ?
`

func (q *Queries) DeletePayablesByGroup(ctx context.Context, groupID sql.NullInt64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePayablesByGroup, groupID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPayables = `-- name: ListPayables :many
SELECT id, name, amount_cents, tags, created_date, installment_index, installment_count, group_id, due_date FROM payables
ORDER BY due_date ASC, id ASC
`

func (q *Queries) ListPayables(ctx context.Context) ([]PayableRow, error) {
	rows, err := q.db.QueryContext(ctx, listPayables)
	if err != nil {
		return nil, err
	}
	return scanPayables(rows)
}

const listPayablesDueBetween = `-- name: ListPayablesDueBetween :many
SELECT id, name, amount_cents, tags, created_date, installment_index, installment_count, group_id, due_date FROM payables
WHERE due_date >= ? AND due_date <= ?
ORDER BY due_date ASC, id ASC
`

type ListPayablesDueBetweenParams struct {
	FromDate string
	ToDate   string
}

func (q *Queries) ListPayablesDueBetween(ctx context.Context, arg ListPayablesDueBetweenParams) ([]PayableRow, error) {
	rows, err := q.db.QueryContext(ctx, listPayablesDueBetween, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	return scanPayables(rows)
}

const listPayablesByGroup = `-- name: ListPayablesByGroup :many
SELECT id, name, amount_cents, tags, created_date, installment_index, installment_count, group_id, due_date FROM payables
WHERE group_id = ?
ORDER BY installment_index ASC
`

func (q *Queries) ListPayablesByGroup(ctx context.Context, groupID sql.NullInt64) ([]PayableRow, error) {
	rows, err := q.db.QueryContext(ctx, listPayablesByGroup, groupID)
	if err != nil {
		return nil, err
	}
	return scanPayables(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayable(row rowScanner) (PayableRow, error) {
	var i PayableRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AmountCents,
		&i.Tags,
		&i.CreatedDate,
		&i.InstallmentIndex,
		&i.InstallmentCount,
		&i.GroupID,
		&i.DueDate,
	)
	return i, err
}

func scanPayables(rows *sql.Rows) ([]PayableRow, error) {
	defer rows.Close()
	var items []PayableRow
	for rows.Next() {
		i, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAvailableMonths = `-- name: ListAvailableMonths :many
SELECT DISTINCT
    CAST(substr(d, 1, 4) AS INTEGER) AS year,
    CAST(substr(d, 6, 2) AS INTEGER) AS month
FROM (
    SELECT record_date AS d FROM receivables
    UNION
    SELECT due_date AS d FROM payables
)
ORDER BY year DESC, month DESC
`

func (q *Queries) ListAvailableMonths(ctx context.Context) ([]MonthRow, error) {
	rows, err := q.db.QueryContext(ctx, listAvailableMonths)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthRow
	for rows.Next() {
		var i MonthRow
		if err := rows.Scan(&i.Year, &i.Month); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
