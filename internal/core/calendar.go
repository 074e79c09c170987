package core

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// AddMonths advances d by n calendar months. The month wraps into the next
// (or previous) year, and the day of month is kept unless the target month is
// shorter, in which case it is clamped to that month's last day.
func AddMonths(d Date, n int) Date {
	year, month := d.Year(), d.Month()+n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	day := d.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Period is a calendar month.
type Period struct {
	Year  int
	Month int // 1-12
}

// PeriodOf returns the month containing d.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// ResolvePeriod picks the requested month when both year and month are given,
// otherwise the month containing now.
func ResolvePeriod(year, month *int, now time.Time) (Period, error) {
	if year == nil || month == nil {
		return PeriodOf(DateOf(now)), nil
	}
	p := Period{Year: *year, Month: *month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1 || p.Year > 9999 {
		return &ValidationError{Field: "year", Reason: "out of range"}
	}
	return nil
}

// Start is the first day of the month.
func (p Period) Start() Date {
	return NewDate(p.Year, p.Month, 1)
}

// End is the last day of the month.
func (p Period) End() Date {
	return NewDate(p.Year, p.Month, daysIn(p.Year, p.Month))
}

// Contains reports whether d falls inside the month, bounds included.
func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// Label is a display string such as "Janeiro 2025".
func (p Period) Label() string {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Sprintf("%02d/%d", p.Month, p.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
