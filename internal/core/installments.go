package core

import (
	"fmt"
	"time"
)

// MaxInstallments caps the number of installments in one group.
const MaxInstallments = 360

// InstallmentRequest describes one payable as entered by the user. Count is
// the number of monthly installments; callers map an absent count to 1.
// A zero StartDate means today.
type InstallmentRequest struct {
	Name      string
	Total     Money
	Tags      Tags
	Count     int
	StartDate Date
}

// GenerateInstallments expands req into the payables to persist, in
// ascending installment order.
//
// A count of 1 yields a single standalone payable. A count of two or more
// yields count linked payables named "name (i/count)", due one calendar month
// apart from the start date, tagged with the "parcN" marker and carrying an
// even split of the total where the last installment absorbs the rounding
// drift. Group ids are not set here: the store allocates one per group when
// the payables are written together.
func GenerateInstallments(req InstallmentRequest, today time.Time) ([]Payable, error) {
	if req.Count < 1 {
		return nil, ErrInvalidCount
	}
	if req.Count > MaxInstallments {
		return nil, ErrTooManyInstallments
	}
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.Total.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if err := req.Total.validateBound(); err != nil {
		return nil, err
	}

	created := DateOf(today)
	start := req.StartDate
	if start.IsZero() {
		start = created
	}

	if req.Count == 1 {
		return []Payable{{
			Name:             req.Name,
			Amount:           req.Total,
			Tags:             req.Tags,
			CreatedAt:        created,
			InstallmentIndex: 1,
			InstallmentCount: 1,
			DueDate:          start,
		}}, nil
	}

	tags := req.Tags
	if n, found := tags.InstallmentMarker(); !found {
		tags = tags.Add(InstallmentTag(req.Count))
	} else if n != 0 && n != req.Count {
		return nil, &ValidationError{
			Field:  "tags",
			Reason: fmt.Sprintf("installment marker parc%d does not match %d installments", n, req.Count),
		}
	}

	amounts := req.Total.Split(req.Count)
	out := make([]Payable, req.Count)
	for i := range out {
		out[i] = Payable{
			Name:             fmt.Sprintf("%s (%d/%d)", req.Name, i+1, req.Count),
			Amount:           amounts[i],
			Tags:             tags,
			CreatedAt:        created,
			InstallmentIndex: i + 1,
			InstallmentCount: req.Count,
			DueDate:          AddMonths(start, i),
		}
	}
	return out, nil
}
