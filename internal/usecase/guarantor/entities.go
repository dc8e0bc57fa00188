package guarantor

import (
	"time"

	"github.com/shopspring/decimal"

	"coop-lending/internal/domain/guarantor"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
)

type AddInput struct {
	LoanID            string          `json:"-"`
	GuarantorMemberID string          `json:"guarantor_member_id"`
	AmountGuaranteed  decimal.Decimal `json:"amount_guaranteed"`
}

type DecisionInput struct {
	LoanID         string `json:"-"`
	GuarantorID    string `json:"-"`
	Action         string `json:"action"`
	SignatureRef   string `json:"signature_ref"`
	DeclineReason  string `json:"decline_reason"`
	ActingMemberID string `json:"-"`
}

type GuarantorDTO struct {
	GuarantorID       string           `json:"guarantor_id"`
	LoanID            string           `json:"loan_id"`
	GuarantorMemberID string           `json:"guarantor_member_id"`
	MemberNumber      string           `json:"member_number,omitempty"`
	MemberName        string           `json:"member_name,omitempty"`
	AmountGuaranteed  decimal.Decimal  `json:"amount_guaranteed"`
	Status            guarantor.Status `json:"status"`
	SignatureRef      string           `json:"signature_ref,omitempty"`
	DeclineReason     string           `json:"decline_reason,omitempty"`
	ApprovedAt        *time.Time       `json:"approved_at,omitempty"`
	DeclinedAt        *time.Time       `json:"declined_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

func toDTO(g *guarantor.Guarantor, loanID string, m *member.Member) GuarantorDTO {
	out := GuarantorDTO{
		GuarantorID:       g.GuarantorID,
		LoanID:            loanID,
		GuarantorMemberID: g.GuarantorMemberID,
		AmountGuaranteed:  g.AmountGuaranteed,
		Status:            g.Status,
		SignatureRef:      g.SignatureRef,
		DeclineReason:     g.DeclineReason,
		ApprovedAt:        g.ApprovedAt,
		DeclinedAt:        g.DeclinedAt,
		CreatedAt:         g.CreatedAt,
	}
	if m != nil {
		out.MemberNumber = m.MemberNumber
		out.MemberName = m.FullName()
	}
	return out
}

// ConsensusSummary tells a loan officer how far the guarantors are from approval.
type ConsensusSummary struct {
	LoanAmount        decimal.Decimal `json:"loan_amount"`
	Pending           int             `json:"pending"`
	Approved          int             `json:"approved"`
	Declined          int             `json:"declined"`
	ApprovedTotal     decimal.Decimal `json:"approved_total"`
	Committed         decimal.Decimal `json:"committed_total"`
	CoverageRemaining decimal.Decimal `json:"coverage_remaining"`
	ReadyForApproval  bool            `json:"ready_for_approval"`
}

type ListResult struct {
	LoanID     string           `json:"loan_id"`
	LoanStatus loan.Status      `json:"loan_status"`
	Guarantors []GuarantorDTO   `json:"guarantors"`
	Summary    ConsensusSummary `json:"summary"`
}

type EligibleGuarantor struct {
	MemberID          string          `json:"member_id"`
	MemberNumber      string          `json:"member_number"`
	Name              string          `json:"name"`
	JoinedAt          time.Time       `json:"joined_at"`
	TotalShareValue   decimal.Decimal `json:"total_share_value"`
	ExistingExposure  decimal.Decimal `json:"existing_exposure"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
}

type ExposureReport struct {
	MemberID          string                  `json:"member_id"`
	TotalShareValue   decimal.Decimal         `json:"total_share_value"`
	TotalExposure     decimal.Decimal         `json:"total_exposure"`
	AvailableCapacity decimal.Decimal         `json:"available_capacity"`
	Guarantees        []guarantor.ExposureRow `json:"guarantees"`
}
