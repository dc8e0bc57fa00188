package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/shared"
)

const (
	// MinSavingsMonths is how long the oldest savings account must have been open.
	MinSavingsMonths = 6

	FirstLoanMultiplier  = 2
	RepeatLoanMultiplier = 3
)

var insuranceRate = decimal.NewFromFloat(0.01)

func InsuranceFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(insuranceRate).Round(2)
}

// SavingsMultiplier is how many times total savings a member may borrow.
func SavingsMultiplier(priorLoans int64) int64 {
	if priorLoans == 0 {
		return FirstLoanMultiplier
	}
	return RepeatLoanMultiplier
}

// CheckEligibility applies the savings tenure and borrowing cap rules.
func CheckEligibility(amount decimal.Decimal, accounts []member.SavingsAccount, priorLoans int64, now time.Time) error {
	if len(accounts) == 0 {
		return shared.Invalid("member has no savings account")
	}
	oldest := accounts[0].StartDate
	total := decimal.Zero
	for _, a := range accounts {
		if a.StartDate.Before(oldest) {
			oldest = a.StartDate
		}
		total = total.Add(a.Balance)
	}
	if oldest.After(now.AddDate(0, -MinSavingsMonths, 0)) {
		return shared.Invalid("savings account must be at least %d months old", MinSavingsMonths)
	}
	limit := total.Mul(decimal.NewFromInt(SavingsMultiplier(priorLoans)))
	if amount.GreaterThan(limit) {
		return shared.Invalid("amount %s exceeds %dx total savings (limit %s)",
			amount.StringFixed(2), SavingsMultiplier(priorLoans), limit.StringFixed(2))
	}
	return nil
}
