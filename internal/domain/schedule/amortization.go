package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/shared"
)

const (
	// FirstDueAfterDays is the gap between disbursement and the first instalment.
	FirstDueAfterDays = 30
	// OverdueAfterDays is how long past due an unpaid instalment may go before it is OVERDUE.
	OverdueAfterDays = 5
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
)

type Terms struct {
	Principal   decimal.Decimal
	MonthlyRate decimal.Decimal // percent
	Months      int
	Start       time.Time // due date of the first instalment
}

// StartDate is the first due date: 30 days after disbursement, else approval, else now.
func StartDate(disbursed, approved *time.Time, now time.Time) time.Time {
	base := now
	switch {
	case disbursed != nil:
		base = *disbursed
	case approved != nil:
		base = *approved
	}
	return base.UTC().AddDate(0, 0, FirstDueAfterDays)
}

// MonthlyPayment is the unrounded level payment that amortizes principal over n months.
func MonthlyPayment(principal, ratePct decimal.Decimal, n int) decimal.Decimal {
	months := decimal.NewFromInt(int64(n))
	r := ratePct.Div(hundred)
	if r.IsZero() {
		return principal.Div(months)
	}
	f := decimal.NewFromInt(1).Add(r).Pow(months)
	return principal.Mul(r).Mul(f).Div(f.Sub(decimal.NewFromInt(1)))
}

// Build computes the reducing-balance table for t. The returned payment is
// rounded to cents; rows carry no loan id.
func Build(t Terms) (decimal.Decimal, []Installment, error) {
	if t.Months <= 0 {
		return decimal.Zero, nil, shared.Invalid("loan term must be positive")
	}
	if !t.Principal.IsPositive() {
		return decimal.Zero, nil, shared.Invalid("loan principal must be positive")
	}
	if t.MonthlyRate.IsNegative() {
		return decimal.Zero, nil, shared.Invalid("interest rate must not be negative")
	}

	r := t.MonthlyRate.Div(hundred)
	payment := MonthlyPayment(t.Principal, t.MonthlyRate, t.Months)
	remaining := t.Principal.Round(2)
	start := t.Start.UTC()

	rows := make([]Installment, 0, t.Months)
	for i := 1; i <= t.Months; i++ {
		interest := remaining.Mul(r).Round(2)
		principal := remaining
		if i < t.Months {
			principal = decimal.Min(payment.Sub(interest).Round(2), remaining)
		}
		remaining = remaining.Sub(principal)
		if remaining.LessThan(cent) {
			remaining = decimal.Zero
		}
		rows = append(rows, Installment{
			InstallmentNo: i,
			DueDate:       start.AddDate(0, i-1, 0),
			PrincipalDue:  principal,
			InterestDue:   interest,
			PenaltyDue:    decimal.Zero,
			PrincipalPaid: decimal.Zero,
			InterestPaid:  decimal.Zero,
			PenaltyPaid:   decimal.Zero,
			TotalDue:      principal.Add(interest),
			TotalPaid:     decimal.Zero,
			BalanceAfter:  remaining,
			Status:        StatusPending,
		})
	}
	return payment.Round(2), rows, nil
}

// AdvancedStatus is the status an unpaid instalment should carry at now.
// The second result is false when nothing changes.
func AdvancedStatus(st Status, due, now time.Time) (Status, bool) {
	switch st {
	case StatusPending, StatusDue, StatusPartial:
	default:
		return st, false
	}
	if !due.After(now.AddDate(0, 0, -OverdueAfterDays)) {
		return StatusOverdue, true
	}
	if st == StatusPending && due.Before(now) {
		return StatusDue, true
	}
	return st, false
}

// Advanceable lists the statuses AdvancedStatus may move.
var Advanceable = []Status{StatusPending, StatusDue, StatusPartial}
