package core

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)

func TestGenerateInstallments_Rent(t *testing.T) {
	got, err := GenerateInstallments(InstallmentRequest{
		Name:      "rent",
		Total:     Money{Cents: 120000},
		Count:     3,
		StartDate: NewDate(2025, 1, 15),
	}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(got))
	}

	wantNames := []string{"rent (1/3)", "rent (2/3)", "rent (3/3)"}
	wantDue := []Date{NewDate(2025, 1, 15), NewDate(2025, 2, 15), NewDate(2025, 3, 15)}
	for i, p := range got {
		if p.Name != wantNames[i] {
			t.Errorf("installment %d name = %q, want %q", i+1, p.Name, wantNames[i])
		}
		if p.Amount.Cents != 40000 {
			t.Errorf("installment %d amount = %s, want 400.00", i+1, p.Amount)
		}
		if !p.DueDate.Equal(wantDue[i].Time) {
			t.Errorf("installment %d due = %s, want %s", i+1, p.DueDate, wantDue[i])
		}
		if p.InstallmentIndex != i+1 || p.InstallmentCount != 3 {
			t.Errorf("installment %d position = %d/%d", i+1, p.InstallmentIndex, p.InstallmentCount)
		}
		if !p.Tags.Has("parc3") {
			t.Errorf("installment %d missing parc3 tag: %q", i+1, p.Tags)
		}
		if p.GroupID != nil {
			t.Errorf("installment %d has group id before persistence", i+1)
		}
	}
}

func TestGenerateInstallments_LastInstallmentReconciles(t *testing.T) {
	got, err := GenerateInstallments(InstallmentRequest{Name: "tv", Total: Money{Cents: 10000}, Count: 3}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{3333, 3333, 3334}
	var sum int64
	for i, p := range got {
		if p.Amount.Cents != want[i] {
			t.Errorf("installment %d = %s, want %d cents", i+1, p.Amount, want[i])
		}
		sum += p.Amount.Cents
	}
	if sum != 10000 {
		t.Fatalf("installments sum to %d cents, want 10000", sum)
	}
}

func TestGenerateInstallments_SumsExactly(t *testing.T) {
	totals := []int64{1, 5, 7, 11, 99, 150, 1050, 10000, 12345, 99999, 100001}
	for _, total := range totals {
		for count := 2; count <= 120; count++ {
			got, err := GenerateInstallments(InstallmentRequest{Name: "x", Total: Money{Cents: total}, Count: count}, testNow)
			if err != nil {
				t.Fatalf("total=%d count=%d: %v", total, count, err)
			}
			var sum int64
			for _, p := range got {
				if err := p.Validate(); err != nil {
					t.Fatalf("total=%d count=%d: %s invalid: %v", total, count, p.Name, err)
				}
				sum += p.Amount.Cents
			}
			if sum != total {
				t.Fatalf("total=%d count=%d: sum=%d", total, count, sum)
			}
		}
	}
}

func TestGenerateInstallments_DatesOneMonthApart(t *testing.T) {
	got, err := GenerateInstallments(InstallmentRequest{
		Name:      "course",
		Total:     Money{Cents: 120000},
		Count:     12,
		StartDate: NewDate(2024, 10, 5),
	}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1].DueDate, got[i].DueDate
		if !cur.After(prev.Time) {
			t.Fatalf("due dates not increasing at %d: %s -> %s", i, prev, cur)
		}
		if AddMonths(prev, 1) != cur {
			t.Fatalf("installment %d is not one month after the previous one: %s -> %s", i+1, prev, cur)
		}
	}
	last := got[11].DueDate
	if last.Year() != 2025 || last.Month() != 9 {
		t.Fatalf("12th installment from October 2024 should land in September 2025, got %s", last)
	}
}

func TestGenerateInstallments_ClampsEndOfMonth(t *testing.T) {
	got, err := GenerateInstallments(InstallmentRequest{
		Name:      "gym",
		Total:     Money{Cents: 4000},
		Count:     4,
		StartDate: NewDate(2024, 1, 31),
	}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Date{NewDate(2024, 1, 31), NewDate(2024, 2, 29), NewDate(2024, 3, 31), NewDate(2024, 4, 30)}
	for i, p := range got {
		if p.DueDate != want[i] {
			t.Errorf("installment %d due = %s, want %s", i+1, p.DueDate, want[i])
		}
	}
}

func TestGenerateInstallments_Standalone(t *testing.T) {
	got, err := GenerateInstallments(InstallmentRequest{
		Name:  "luz",
		Total: Money{Cents: 80000},
		Tags:  ParseTags("urg"),
		Count: 1,
	}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single payable, got %d", len(got))
	}
	p := got[0]
	if p.Name != "luz" || p.GroupID != nil || p.InstallmentIndex != 1 || p.InstallmentCount != 1 {
		t.Fatalf("unexpected standalone payable: %+v", p)
	}
	if p.DueDate != NewDate(2025, 1, 10) {
		t.Fatalf("due date should default to today, got %s", p.DueDate)
	}
	if p.Tags.String() != "urg" {
		t.Fatalf("standalone tags must be left untouched, got %q", p.Tags)
	}
}

func TestGenerateInstallments_TagMarker(t *testing.T) {
	tests := []struct {
		name    string
		tags    string
		want    string
		wantErr bool
	}{
		{name: "adds marker", tags: "urg", want: "urg,parc3"},
		{name: "keeps matching marker", tags: "parc3,urg", want: "parc3,urg"},
		{name: "keeps bare marker", tags: "parc", want: "parc"},
		{name: "rejects mismatched marker", tags: "parc5", wantErr: true},
		{name: "word starting with parc is not a marker", tags: "parcelado", want: "parcelado,parc3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateInstallments(InstallmentRequest{
				Name: "x", Total: Money{Cents: 300}, Tags: ParseTags(tt.tags), Count: 3,
			}, testNow)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, p := range got {
				if p.Tags.String() != tt.want {
					t.Fatalf("tags = %q, want %q", p.Tags, tt.want)
				}
			}
		})
	}
}

func TestGenerateInstallments_MaxCount(t *testing.T) {
	got, err := GenerateInstallments(InstallmentRequest{Name: "x", Total: Money{Cents: 36000}, Count: MaxInstallments}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxInstallments {
		t.Fatalf("got %d installments, want %d", len(got), MaxInstallments)
	}
	last := got[len(got)-1]
	if _, err := ParseDate(last.DueDate.String()); err != nil {
		t.Fatalf("last due date %s does not round-trip: %v", last.DueDate, err)
	}
}

func TestGenerateInstallments_Invalid(t *testing.T) {
	cases := []InstallmentRequest{
		{Name: "x", Total: Money{Cents: 100}, Count: 0},
		{Name: "x", Total: Money{Cents: 100}, Count: -2},
		{Name: " ", Total: Money{Cents: 100}, Count: 2},
		{Name: "x", Total: Money{Cents: -100}, Count: 2},
		{Name: "x", Total: Money{Cents: 100}, Count: MaxInstallments + 1},
		{Name: "x", Total: Money{Cents: 100}, Count: 1_000_000_000},
		{Name: "x", Total: Money{Cents: MaxAmountCents + 1}, Count: 1},
	}
	for i, req := range cases {
		if _, err := GenerateInstallments(req, testNow); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}
