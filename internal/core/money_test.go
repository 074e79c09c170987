package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "12.34", want: 1234},
		{input: "12,34", want: 1234},
		{input: " 100 ", want: 10000},
		{input: "0.005", want: 1},
		{input: "12,345", want: 1235},
		{input: "-5", want: -500},
		{input: "-0.005", want: -1},
		{input: "0", want: 0},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1.2.3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseAmount(%q) expected validation error, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.want {
				t.Fatalf("ParseAmount(%q) = %d cents, want %d", tt.input, got.Cents, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		3334:   "33.34",
		-1250:  "-12.50",
		120000: "1200.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneySplit(t *testing.T) {
	tests := []struct {
		total int64
		n     int
		want  []int64
	}{
		{total: 10000, n: 3, want: []int64{3333, 3333, 3334}},
		{total: 20000, n: 3, want: []int64{6667, 6667, 6666}},
		{total: 120000, n: 3, want: []int64{40000, 40000, 40000}},
		{total: 1, n: 2, want: []int64{1, 0}},
		{total: 0, n: 4, want: []int64{0, 0, 0, 0}},
		{total: 999, n: 1, want: []int64{999}},
		{total: 11, n: 7, want: []int64{1, 1, 1, 1, 1, 1, 5}},
		{total: 150, n: 100, want: append(repeatCents(1, 99), 51)},
		{total: 1050, n: 60, want: append(repeatCents(17, 59), 47)},
		{total: -11, n: 7, want: []int64{-1, -1, -1, -1, -1, -1, -5}},
	}
	for _, tt := range tests {
		parts := Money{Cents: tt.total}.Split(tt.n)
		if len(parts) != len(tt.want) {
			t.Fatalf("Split(%d, %d) returned %d parts", tt.total, tt.n, len(parts))
		}
		for i := range parts {
			if parts[i].Cents != tt.want[i] {
				t.Errorf("Split(%d, %d)[%d] = %d, want %d", tt.total, tt.n, i, parts[i].Cents, tt.want[i])
			}
		}
	}

	for _, total := range []int64{11, 150, 1050, 9999} {
		for n := 2; n <= 120; n++ {
			var sum int64
			for i, p := range (Money{Cents: total}).Split(n) {
				if p.IsNegative() {
					t.Fatalf("Split(%d, %d)[%d] = %d, want non-negative", total, n, i, p.Cents)
				}
				sum += p.Cents
			}
			if sum != total {
				t.Fatalf("Split(%d, %d) sums to %d", total, n, sum)
			}
		}
	}

	if parts := (Money{Cents: 100}).Split(0); parts != nil {
		t.Fatalf("Split(0) should return nil, got %v", parts)
	}
}

func repeatCents(cents int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = cents
	}
	return out
}

func TestMoneyFromDecimal_Bounds(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "1000000000000", want: MaxAmountCents},
		{input: "-1000000000000", want: -MaxAmountCents},
		{input: "1000000000000.01", wantErr: true},
		{input: "-1000000000000.01", wantErr: true},
		{input: "1e17", wantErr: true},
		{input: "99999999999999999999999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MoneyFromDecimal(decimal.RequireFromString(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("MoneyFromDecimal(%s) expected validation error, got %v (%d cents)", tt.input, err, got.Cents)
				}
				return
			}
			if err != nil || got.Cents != tt.want {
				t.Fatalf("MoneyFromDecimal(%s) = %d, %v; want %d", tt.input, got.Cents, err, tt.want)
			}
		})
	}

	if _, err := ParseAmount("100000000000000000"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseAmount of an oversized value should fail, got %v", err)
	}
}
