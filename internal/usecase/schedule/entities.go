package schedule

import (
	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/schedule"
)

type Details struct {
	Loan         *loan.Loan             `json:"loan"`
	Installments []schedule.Installment `json:"installments"`
	Summary      schedule.Summary       `json:"summary"`
}

// GenerateResult reports whether the rows were created by this call.
type GenerateResult struct {
	Details
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Created        bool            `json:"created"`
}

type SummaryResult struct {
	LoanID     string      `json:"loan_id"`
	LoanNumber string      `json:"loan_number"`
	LoanStatus loan.Status `json:"loan_status"`
	schedule.Summary
}

type AdvanceResult struct {
	Scanned   int   `json:"scanned"`
	ToDue     int64 `json:"to_due"`
	ToOverdue int64 `json:"to_overdue"`
	Batches   int   `json:"batches"`
}

func (r AdvanceResult) Changed() int64 { return r.ToDue + r.ToOverdue }
