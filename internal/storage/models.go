package storage

import (
	"database/sql"
)

type InstallmentGroup struct {
	ID               int64
	TotalCents       int64
	InstallmentCount int64
}

type PayableRow struct {
	ID               int64
	Name             string
	AmountCents      int64
	Tags             string
	CreatedDate      string
	InstallmentIndex int64
	InstallmentCount int64
	GroupID          sql.NullInt64
	DueDate          string
}

type ReceivableRow struct {
	ID          int64
	Name        string
	AmountCents int64
	Status      string
	RecordDate  string
}

type MonthRow struct {
	Year  int64
	Month int64
}
