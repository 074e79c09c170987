package core

import (
	"strings"
	"time"
)

const (
	StatusPending  ReceivableStatus = "pending"
	StatusReceived ReceivableStatus = "received"
)

const dateLayout = "2006-01-02"

const maxNameLength = 200

type (
	ReceivableStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Receivable is an expected or received incoming payment ("entrada").
	Receivable struct {
		ID     int64
		Name   string
		Amount Money // signed
		Status ReceivableStatus
		Date   Date
	}

	// Payable is an expense obligation ("saida"). Installments of the same
	// original request share GroupID; standalone payables have a nil GroupID
	// and an installment position of 1/1.
	Payable struct {
		ID               int64
		Name             string
		Amount           Money
		Tags             Tags
		CreatedAt        Date
		InstallmentIndex int
		InstallmentCount int
		GroupID          *int64
		DueDate          Date
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	return nil
}

// Between reports whether from <= d <= to, compared by calendar day.
func (d Date) Between(from, to Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}

// NormalizeStatus trims the status and maps the legacy Portuguese values.
// Unknown values are kept verbatim; an empty status means pending.
func NormalizeStatus(s string) ReceivableStatus {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "pendente", string(StatusPending):
		return StatusPending
	case "recebido", string(StatusReceived):
		return StatusReceived
	}
	return ReceivableStatus(s)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func (r Receivable) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if err := r.Amount.validateBound(); err != nil {
		return err
	}
	return r.Date.Validate()
}

// IsReceived reports whether the money has arrived.
func (r Receivable) IsReceived() bool {
	return r.Status == StatusReceived
}

func (p Payable) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if err := p.Amount.validateBound(); err != nil {
		return err
	}
	if p.InstallmentCount < 1 {
		return ErrInvalidCount
	}
	if p.InstallmentCount > MaxInstallments {
		return ErrTooManyInstallments
	}
	if p.InstallmentIndex < 1 || p.InstallmentIndex > p.InstallmentCount {
		return ErrInstallmentIndex
	}
	return p.DueDate.Validate()
}

// IsSettled reports whether the payable carries the settled tag.
func (p Payable) IsSettled() bool {
	return p.Tags.Has(TagSettled)
}

// IsInstallment reports whether the payable belongs to a split of two or more.
func (p Payable) IsInstallment() bool {
	return p.InstallmentCount > 1
}
