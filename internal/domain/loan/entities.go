package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusSubmitted   Status = "SUBMITTED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusDisbursed   Status = "DISBURSED"
	StatusClosed      Status = "CLOSED"
	StatusDefaulted   Status = "DEFAULTED"
	StatusRejected    Status = "REJECTED"
)

type DisbursementMode string

const (
	ModeNet   DisbursementMode = "NET"
	ModeGross DisbursementMode = "GROSS"
)

func (m DisbursementMode) Valid() bool { return m == ModeNet || m == ModeGross }

type Loan struct {
	ID               uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID           string           `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	LoanNumber       string           `gorm:"column:loan_number;size:32;not null;uniqueIndex:ux_loans_loan_number" json:"loan_number"`
	MemberID         string           `gorm:"column:member_id;size:32;not null;index:idx_loans_member" json:"member_id"`
	Amount           decimal.Decimal  `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	InterestRate     decimal.Decimal  `gorm:"column:interest_rate;type:decimal(6,4);not null" json:"interest_rate"`
	DurationMonths   int              `gorm:"column:duration_months;not null" json:"duration_months"`
	Status           Status           `gorm:"column:status;size:16;not null;index:idx_loans_status" json:"status"`
	Purpose          string           `gorm:"column:purpose;type:text" json:"purpose"`
	MonthlyIncome    decimal.Decimal  `gorm:"column:monthly_income;type:decimal(18,2);not null;default:0" json:"monthly_income"`
	IncomeSource     string           `gorm:"column:income_source;size:64" json:"income_source"`
	ProcessingFee    decimal.Decimal  `gorm:"column:processing_fee;type:decimal(18,2);not null;default:0" json:"processing_fee"`
	InsuranceFee     decimal.Decimal  `gorm:"column:insurance_fee;type:decimal(18,2);not null;default:0" json:"insurance_fee"`
	DisbursementMode DisbursementMode `gorm:"column:disbursement_mode;size:8;not null" json:"disbursement_mode"`
	MonthlyPayment   decimal.Decimal  `gorm:"column:monthly_payment;type:decimal(18,2);not null;default:0" json:"monthly_payment"`
	Balance          decimal.Decimal  `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`

	ApprovalDate    *time.Time `gorm:"column:approval_date" json:"approval_date,omitempty"`
	ApprovedBy      string     `gorm:"column:approved_by;size:32" json:"approved_by,omitempty"`
	ApprovalComment string     `gorm:"column:approval_comment;type:text" json:"approval_comment,omitempty"`

	DisbursementDate    *time.Time      `gorm:"column:disbursement_date" json:"disbursement_date,omitempty"`
	DisbursedBy         string          `gorm:"column:disbursed_by;size:32" json:"disbursed_by,omitempty"`
	DisbursementReceipt *string         `gorm:"column:disbursement_receipt;size:32;uniqueIndex:ux_loans_receipt" json:"disbursement_receipt,omitempty"`
	NetDisbursedAmount  decimal.Decimal `gorm:"column:net_disbursed_amount;type:decimal(18,2);not null;default:0" json:"net_disbursed_amount"`
	ArrearsDeducted     decimal.Decimal `gorm:"column:arrears_deducted;type:decimal(18,2);not null;default:0" json:"arrears_deducted"`
	SavingsDeducted     decimal.Decimal `gorm:"column:savings_deducted;type:decimal(18,2);not null;default:0" json:"savings_deducted"`
	SharesDeducted      decimal.Decimal `gorm:"column:shares_deducted;type:decimal(18,2);not null;default:0" json:"shares_deducted"`
	DisbursementComment string          `gorm:"column:disbursement_comment;type:text" json:"disbursement_comment,omitempty"`

	BranchID        *string        `gorm:"column:branch_id;size:32" json:"branch_id,omitempty"`
	StatusComment   string         `gorm:"column:status_comment;type:text" json:"status_comment,omitempty"`
	StatusUpdatedAt time.Time      `gorm:"column:status_updated_at" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Filter narrows List; an empty Status lists every loan.
type Filter struct {
	Status Status
	Limit  int
}
