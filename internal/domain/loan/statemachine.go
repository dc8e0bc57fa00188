package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/shared"
)

// MinApprovedGuarantors is the guarantor quorum for approval.
const MinApprovedGuarantors = 2

var transitions = map[Status][]Status{
	StatusDraft:       {StatusSubmitted, StatusRejected},
	StatusSubmitted:   {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusDisbursed, StatusRejected},
	StatusDisbursed:   {StatusClosed, StatusDefaulted},
	StatusClosed:      nil,
	StatusDefaulted:   nil,
	StatusRejected:    nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// AcceptsGuarantors reports whether guarantees may still be added to a loan in s.
func (s Status) AcceptsGuarantors() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved:
		return true
	}
	return false
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from from; empty for terminal states.
func NextStatuses(from Status) []Status {
	return append([]Status{}, transitions[from]...)
}

// Consensus is the guarantor picture the approval guard needs.
type Consensus struct {
	Pending       int
	Approved      int
	Declined      int
	ApprovedTotal decimal.Decimal
}

// Deductions are the optional amounts withheld at disbursement on top of fees.
type Deductions struct {
	Arrears decimal.Decimal
	Savings decimal.Decimal
	Shares  decimal.Decimal
}

type Disbursement struct {
	Mode            DisbursementMode `json:"disbursement_mode"`
	Principal       decimal.Decimal  `json:"principal"`
	ProcessingFee   decimal.Decimal  `json:"processing_fee"`
	InsuranceFee    decimal.Decimal  `json:"insurance_fee"`
	ArrearsDeducted decimal.Decimal  `json:"arrears_deducted"`
	SavingsDeducted decimal.Decimal  `json:"savings_deducted"`
	SharesDeducted  decimal.Decimal  `json:"shares_deducted"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	NetAmount       decimal.Decimal  `json:"net_disbursed_amount"`
}

// ComputeDisbursement works out what leaves the cooperative for l.
func ComputeDisbursement(l *Loan, d Deductions) (Disbursement, error) {
	for name, v := range map[string]decimal.Decimal{"arrears": d.Arrears, "savings": d.Savings, "shares": d.Shares} {
		if v.IsNegative() {
			return Disbursement{}, shared.Invalid("%s deduction must not be negative", name)
		}
	}
	out := Disbursement{
		Mode:            l.DisbursementMode,
		Principal:       l.Amount,
		ProcessingFee:   l.ProcessingFee,
		InsuranceFee:    l.InsuranceFee,
		ArrearsDeducted: d.Arrears.Round(2),
		SavingsDeducted: d.Savings.Round(2),
		SharesDeducted:  d.Shares.Round(2),
	}
	out.TotalDeductions = out.ProcessingFee.Add(out.InsuranceFee).
		Add(out.ArrearsDeducted).Add(out.SavingsDeducted).Add(out.SharesDeducted)

	out.NetAmount = l.Amount
	if l.DisbursementMode != ModeGross {
		out.NetAmount = l.Amount.Sub(out.TotalDeductions)
	}
	if !out.NetAmount.IsPositive() {
		return Disbursement{}, shared.Invalid("net disbursement amount must be positive, got %s", out.NetAmount.StringFixed(2))
	}
	return out, nil
}

// TransitionInput carries everything a guard or side effect may need.
// Consensus is read for APPROVED; Deductions and Receipt for DISBURSED.
type TransitionInput struct {
	To         Status
	Actor      string
	Comment    string
	At         time.Time
	Consensus  Consensus
	Deductions Deductions
	Receipt    string
}

// Transition is the single entry point for every status change. It validates
// the edge and its guard, then applies the side effects to l. On error l is untouched.
func (l *Loan) Transition(in TransitionInput) (*Disbursement, error) {
	if !in.To.Valid() {
		return nil, shared.Invalid("unknown loan status %q", in.To)
	}
	if !CanTransition(l.Status, in.To) {
		return nil, shared.Invalid("cannot move loan from %s to %s", l.Status, in.To)
	}
	at := in.At.UTC()

	var disb *Disbursement
	switch in.To {
	case StatusApproved:
		if err := checkConsensus(l, in.Consensus); err != nil {
			return nil, err
		}
		l.ApprovalDate = &at
		l.ApprovedBy = in.Actor
		l.ApprovalComment = in.Comment

	case StatusDisbursed:
		d, err := ComputeDisbursement(l, in.Deductions)
		if err != nil {
			return nil, err
		}
		if in.Receipt == "" {
			return nil, shared.Invalid("disbursement receipt is required")
		}
		receipt := in.Receipt
		l.DisbursementDate = &at
		l.DisbursedBy = in.Actor
		l.DisbursementReceipt = &receipt
		l.DisbursementComment = in.Comment
		l.NetDisbursedAmount = d.NetAmount
		l.ArrearsDeducted = d.ArrearsDeducted
		l.SavingsDeducted = d.SavingsDeducted
		l.SharesDeducted = d.SharesDeducted
		l.Balance = l.Amount
		disb = &d
	}

	l.Status = in.To
	l.StatusUpdatedAt = at
	if in.Comment != "" {
		l.StatusComment = in.Comment
	}
	return disb, nil
}

func checkConsensus(l *Loan, c Consensus) error {
	if c.Pending > 0 {
		return shared.Invalid("%d guarantor(s) have not responded yet", c.Pending)
	}
	if c.Approved < MinApprovedGuarantors {
		return shared.Invalid("at least %d approved guarantors required, got %d", MinApprovedGuarantors, c.Approved)
	}
	if c.ApprovedTotal.LessThan(l.Amount) {
		return shared.Invalid("approved guarantees %s are less than loan amount %s",
			c.ApprovedTotal.StringFixed(2), l.Amount.StringFixed(2))
	}
	return nil
}
