package core

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func payable(name string, cents int64, due Date, tags string, idx, count int) Payable {
	return Payable{
		Name:             name,
		Amount:           Money{Cents: cents},
		Tags:             ParseTags(tags),
		InstallmentIndex: idx,
		InstallmentCount: count,
		DueDate:          due,
	}
}

func TestAggregate_Empty(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	s := Aggregate(nil, nil, Period{Year: 2025, Month: 1}, now)

	var zero Money
	for name, v := range map[string]Money{
		"receivables total":    s.ReceivablesTotal,
		"receivables received": s.ReceivablesReceived,
		"payables total":       s.PayablesTotal,
		"payables paid":        s.PayablesPaid,
		"balance":              s.Balance,
		"pending":              s.Pending,
		"upcoming":             s.Upcoming,
	} {
		if v != zero {
			t.Errorf("%s = %s, want 0.00", name, v)
		}
	}
	if s.InstallmentItems != 0 {
		t.Errorf("installment items = %d, want 0", s.InstallmentItems)
	}
	if s.Label != "Janeiro 2025" {
		t.Errorf("label = %q", s.Label)
	}
}

func TestAggregate_Month(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	period := Period{Year: 2025, Month: 1}

	receivables := []Receivable{
		{Name: "salario", Amount: Money{Cents: 500000}, Status: StatusReceived, Date: NewDate(2025, 1, 5)},
		{Name: "freela", Amount: Money{Cents: 120000}, Status: StatusPending, Date: NewDate(2025, 1, 20)},
		{Name: "estorno", Amount: Money{Cents: -2000}, Status: StatusReceived, Date: NewDate(2025, 1, 7)},
		{Name: "fevereiro", Amount: Money{Cents: 999900}, Status: StatusReceived, Date: NewDate(2025, 2, 1)},
	}
	payables := []Payable{
		payable("aluguel (1/3)", 40000, NewDate(2025, 1, 15), "parc3,feito", 1, 3),
		payable("aluguel (2/3)", 40000, NewDate(2025, 2, 15), "parc3", 2, 3),
		payable("aluguel (3/3)", 40000, NewDate(2025, 3, 15), "parc3", 3, 3),
		payable("luz", 80000, NewDate(2025, 1, 25), "urg", 1, 1),
		payable("agua", 5000, NewDate(2024, 12, 30), "", 1, 1),
	}

	s := Aggregate(receivables, payables, period, now)

	check := func(name string, got Money, want int64) {
		t.Helper()
		if got.Cents != want {
			t.Errorf("%s = %s, want %d cents", name, got, want)
		}
	}
	check("receivables total", s.ReceivablesTotal, 618000)
	check("receivables received", s.ReceivablesReceived, 498000)
	check("payables total", s.PayablesTotal, 120000)
	check("payables paid", s.PayablesPaid, 40000)
	check("balance", s.Balance, 458000)
	check("pending", s.Pending, 80000)
	// Only luz is due by Feb 9; aluguel 2/3 falls just outside the window.
	check("upcoming", s.Upcoming, 80000)

	if s.InstallmentItems != 1 {
		t.Errorf("installment items = %d, want 1", s.InstallmentItems)
	}
	if s.Pending != s.PayablesTotal.Sub(s.PayablesPaid) {
		t.Errorf("pending must equal total minus paid")
	}

	again := Aggregate(receivables, payables, period, now)
	if again != s {
		t.Errorf("aggregation is not deterministic: %+v vs %+v", again, s)
	}
}

func TestAggregate_UpcomingWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	payables := []Payable{
		payable("yesterday", 100, NewDate(2025, 2, 28), "", 1, 1),
		payable("today", 200, NewDate(2025, 3, 1), "", 1, 1),
		payable("edge", 400, NewDate(2025, 3, 31), "", 1, 1),
		payable("beyond", 800, NewDate(2025, 4, 1), "", 1, 1),
		payable("settled", 1600, NewDate(2025, 3, 10), "feito", 1, 1),
	}

	s := Aggregate(nil, payables, Period{Year: 2024, Month: 1}, now)
	if s.Upcoming.Cents != 600 {
		t.Fatalf("upcoming = %s, want 6.00", s.Upcoming)
	}
	if s.PayablesTotal.Cents != 0 {
		t.Fatalf("payables outside the period leaked into the total: %s", s.PayablesTotal)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	period := Period{Year: 2025, Month: 1}
	receivables := []Receivable{
		{Name: "salario", Amount: Money{Cents: 500000}, Status: StatusReceived, Date: NewDate(2025, 1, 5)},
		{Name: "freela", Amount: Money{Cents: 120000}, Status: StatusPending, Date: NewDate(2025, 1, 20)},
	}
	payables := []Payable{
		payable("tv (1/3)", 3333, NewDate(2025, 1, 20), "parc3", 1, 3),
		payable("tv (2/3)", 3333, NewDate(2025, 2, 20), "parc3", 2, 3),
		payable("luz", 80000, NewDate(2025, 1, 25), "feito", 1, 1),
	}

	first := Aggregate(receivables, payables, period, now)
	second := Aggregate(receivables, payables, period, now)
	if first != second {
		t.Fatalf("Aggregate differs between calls: %+v vs %+v", first, second)
	}
	if receivables[0].Amount.Cents != 500000 || payables[2].Tags.String() != "feito" {
		t.Fatalf("Aggregate modified its inputs")
	}
}

func TestAggregate_UpcomingHorizonAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// Clocks spring forward on 2025-03-09, so 30*24h after this instant is
	// already 2025-03-23 on the wall clock.
	now := time.Date(2025, 2, 20, 23, 30, 0, 0, ny)
	if got := UpcomingHorizon(DateOf(now)).String(); got != "2025-03-22" {
		t.Fatalf("horizon = %s, want 2025-03-22", got)
	}

	payables := []Payable{
		payable("edge", 100, NewDate(2025, 3, 22), "", 1, 1),
		payable("after", 200, NewDate(2025, 3, 23), "", 1, 1),
	}
	s := Aggregate(nil, payables, Period{Year: 2025, Month: 2}, now)
	if s.Upcoming.Cents != 100 {
		t.Fatalf("upcoming = %s, want 1.00", s.Upcoming)
	}
}
