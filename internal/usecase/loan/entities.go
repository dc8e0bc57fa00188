package loan

import (
	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/loan"
)

type CreateLoanInput struct {
	MemberID         string          `json:"member_id"`
	Amount           decimal.Decimal `json:"amount"`
	Purpose          string          `json:"purpose"`
	TermMonths       int             `json:"term_months"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	IncomeSource     string          `json:"income_source"`
	DisbursementMode string          `json:"disbursement_mode"`
	BranchID         *string         `json:"branch_id,omitempty"`
}

type ApproveInput struct {
	LoanID     string `json:"-"`
	ApproverID string `json:"-"`
	Comment    string `json:"comment"`
}

type DisburseInput struct {
	LoanID          string          `json:"-"`
	DisburserID     string          `json:"-"`
	ArrearsDeducted decimal.Decimal `json:"arrears_deducted"`
	SavingsDeducted decimal.Decimal `json:"savings_deducted"`
	SharesDeducted  decimal.Decimal `json:"shares_deducted"`
	Comment         string          `json:"comment"`
}

type UpdateStatusInput struct {
	LoanID  string `json:"-"`
	ActorID string `json:"-"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// TransitionResult is returned by every status change; Disbursement is set
// only when the loan moved to DISBURSED.
type TransitionResult struct {
	Loan         *loan.Loan         `json:"loan"`
	Disbursement *loan.Disbursement `json:"disbursement,omitempty"`
	LedgerTxID   string             `json:"ledger_transaction_id,omitempty"`
}

// Options are the product rules applied to new loans.
type Options struct {
	ProcessingFee      decimal.Decimal
	DefaultMonthlyRate decimal.Decimal
}
