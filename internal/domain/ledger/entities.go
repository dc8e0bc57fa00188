package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const TypeLoanDisbursement Type = "LOAN_DISBURSEMENT"

const (
	ChannelInternal = "INTERNAL"
	StatusCompleted = "COMPLETED"
)

// DisbursementMetadata is the deduction breakdown carried on a LOAN_DISBURSEMENT entry.
type DisbursementMetadata struct {
	LoanID           string          `json:"loan_id"`
	LoanNumber       string          `json:"loan_number"`
	Principal        decimal.Decimal `json:"principal"`
	DisbursementMode string          `json:"disbursement_mode"`
	ProcessingFee    decimal.Decimal `json:"processing_fee"`
	InsuranceFee     decimal.Decimal `json:"insurance_fee"`
	ArrearsDeducted  decimal.Decimal `json:"arrears_deducted"`
	SavingsDeducted  decimal.Decimal `json:"savings_deducted"`
	SharesDeducted   decimal.Decimal `json:"shares_deducted"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetAmount        decimal.Decimal `json:"net_amount"`
}

// Transaction is append-only; nothing in this service updates a row once written.
type Transaction struct {
	ID            uint64               `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TransactionID string               `gorm:"column:transaction_id;size:32;not null;uniqueIndex" json:"transaction_id"`
	MemberID      string               `gorm:"column:member_id;size:32;not null;index" json:"member_id"`
	Amount        decimal.Decimal      `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Type          Type                 `gorm:"column:type;size:32;not null" json:"type"`
	Channel       string               `gorm:"column:channel;size:16;not null" json:"channel"`
	Status        string               `gorm:"column:status;size:16;not null" json:"status"`
	Narration     string               `gorm:"column:narration;size:255" json:"narration"`
	Reference     string               `gorm:"column:reference;size:32;index" json:"reference"`
	BranchID      *string              `gorm:"column:branch_id;size:32" json:"branch_id,omitempty"`
	Metadata      DisbursementMetadata `gorm:"column:metadata;type:text;serializer:json" json:"metadata"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "ledger_transactions" }
