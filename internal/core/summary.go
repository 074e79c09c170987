package core

import "time"

// UpcomingDays is how many calendar days ahead of today unpaid payables count
// as upcoming.
const UpcomingDays = 30

// UpcomingHorizon returns the last day of the upcoming window starting at
// today. It counts calendar days, so DST changes do not shift it.
func UpcomingHorizon(today Date) Date {
	return Date{Time: today.AddDate(0, 0, UpcomingDays)}
}

// DashboardSummary holds the month-scoped totals shown on the dashboard.
type DashboardSummary struct {
	Period Period
	Label  string

	ReceivablesTotal    Money // entradas_totais
	ReceivablesReceived Money // entradas_recebidas
	PayablesTotal       Money // saidas_totais
	PayablesPaid        Money // saidas_pagas
	Balance             Money // saldo
	Pending             Money // pendentes

	InstallmentItems int   // total_itens_parcelados
	Upcoming         Money // proximas_parcelas
}

// Aggregate computes the dashboard for period from the given records. Inputs
// may contain records outside the period; they are filtered here.
//
// The upcoming figure ignores period: it sums unpaid payables due between
// today and today+30 days, both inclusive.
func Aggregate(receivables []Receivable, payables []Payable, period Period, now time.Time) DashboardSummary {
	s := DashboardSummary{Period: period, Label: period.Label()}

	for _, r := range receivables {
		if !period.Contains(r.Date) {
			continue
		}
		s.ReceivablesTotal = s.ReceivablesTotal.Add(r.Amount)
		if r.IsReceived() {
			s.ReceivablesReceived = s.ReceivablesReceived.Add(r.Amount)
		}
	}

	today := DateOf(now)
	horizon := UpcomingHorizon(today)
	for _, p := range payables {
		if period.Contains(p.DueDate) {
			s.PayablesTotal = s.PayablesTotal.Add(p.Amount)
			if p.IsSettled() {
				s.PayablesPaid = s.PayablesPaid.Add(p.Amount)
			}
			if p.IsInstallment() {
				s.InstallmentItems++
			}
		}
		if !p.IsSettled() && p.DueDate.Between(today, horizon) {
			s.Upcoming = s.Upcoming.Add(p.Amount)
		}
	}

	s.Balance = s.ReceivablesReceived.Sub(s.PayablesPaid)
	s.Pending = s.PayablesTotal.Sub(s.PayablesPaid)
	return s
}
