package guarantor

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/shared"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDeclined Status = "DECLINED"
)

type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionDecline Action = "DECLINE"
)

const (
	DefaultDeclineReason = "Declined by guarantor"
	// MinMembershipMonths is how long a member must have belonged before guaranteeing.
	MinMembershipMonths = 12
)

type Guarantor struct {
	ID                uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	GuarantorID       string          `gorm:"column:guarantor_id;size:32;not null;uniqueIndex" json:"guarantor_id"`
	LoanID            uint64          `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_guarantors_loan_member" json:"-"`
	GuarantorMemberID string          `gorm:"column:guarantor_member_id;size:32;not null;uniqueIndex:ux_loan_guarantors_loan_member;index:idx_loan_guarantors_member" json:"guarantor_member_id"`
	AmountGuaranteed  decimal.Decimal `gorm:"column:amount_guaranteed;type:decimal(18,2);not null" json:"amount_guaranteed"`
	Status            Status          `gorm:"column:status;size:16;not null" json:"status"`
	SignatureRef      string          `gorm:"column:signature_ref;size:255" json:"signature_ref,omitempty"`
	DeclineReason     string          `gorm:"column:decline_reason;type:text" json:"decline_reason,omitempty"`
	ApprovedAt        *time.Time      `gorm:"column:approved_at" json:"approved_at,omitempty"`
	DeclinedAt        *time.Time      `gorm:"column:declined_at" json:"declined_at,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Guarantor) TableName() string { return "loan_guarantors" }

// Decide applies a guarantor's answer. Only PENDING rows can be decided.
func (g *Guarantor) Decide(action Action, signatureRef, reason string, at time.Time) error {
	if g.Status != StatusPending {
		return shared.Invalid("guarantee has already been %s", g.Status)
	}
	at = at.UTC()
	switch action {
	case ActionApprove:
		if strings.TrimSpace(signatureRef) == "" {
			return shared.Invalid("signature is required to approve a guarantee")
		}
		g.Status = StatusApproved
		g.SignatureRef = signatureRef
		g.ApprovedAt = &at
	case ActionDecline:
		if strings.TrimSpace(reason) == "" {
			reason = DefaultDeclineReason
		}
		g.Status = StatusDeclined
		g.DeclineReason = reason
		g.DeclinedAt = &at
	default:
		return shared.Invalid("unknown action %q, expected APPROVE or DECLINE", action)
	}
	return nil
}

// Summarize tallies the rows of a single loan.
func Summarize(rows []Guarantor) loan.Consensus {
	c := loan.Consensus{ApprovedTotal: decimal.Zero}
	for _, g := range rows {
		switch g.Status {
		case StatusPending:
			c.Pending++
		case StatusApproved:
			c.Approved++
			c.ApprovedTotal = c.ApprovedTotal.Add(g.AmountGuaranteed)
		case StatusDeclined:
			c.Declined++
		}
	}
	return c
}

// Committed is the sum of every non-declined guarantee in rows.
func Committed(rows []Guarantor) decimal.Decimal {
	total := decimal.Zero
	for _, g := range rows {
		if g.Status != StatusDeclined {
			total = total.Add(g.AmountGuaranteed)
		}
	}
	return total
}

// ExposureRow is one active guarantee joined with the loan it backs.
type ExposureRow struct {
	GuarantorID       string          `json:"guarantor_id"`
	GuarantorMemberID string          `json:"-"`
	AmountGuaranteed  decimal.Decimal `json:"amount_guaranteed"`
	Status            Status          `json:"guarantee_status"`
	LoanID            string          `json:"loan_id"`
	LoanNumber        string          `json:"loan_number"`
	BorrowerMemberID  string          `json:"borrower_member_id"`
	LoanAmount        decimal.Decimal `json:"loan_amount"`
	LoanStatus        loan.Status     `json:"loan_status"`
}

// ExposureExcludedLoanStatuses are loan statuses whose guarantees no longer count.
var ExposureExcludedLoanStatuses = []loan.Status{loan.StatusClosed, loan.StatusRejected}

// ExposureByMember sums rows per guarantor member.
func ExposureByMember(rows []ExposureRow) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range rows {
		out[r.GuarantorMemberID] = out[r.GuarantorMemberID].Add(r.AmountGuaranteed)
	}
	return out
}
