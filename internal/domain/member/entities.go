package member

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusExited    Status = "EXITED"
)

// Member is the read-only snapshot owned by the membership service.
type Member struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MemberID     string          `gorm:"column:member_id;size:32;not null;uniqueIndex:ux_members_member_id" json:"member_id"`
	MemberNumber string          `gorm:"column:member_number;size:32;not null;uniqueIndex:ux_members_member_number" json:"member_number"`
	FirstName    string          `gorm:"column:first_name;size:100" json:"first_name"`
	LastName     string          `gorm:"column:last_name;size:100" json:"last_name"`
	JoinedAt     time.Time       `gorm:"column:joined_at;not null" json:"joined_at"`
	Status       Status          `gorm:"column:status;size:16;not null;index" json:"status"`
	ShareValue   decimal.Decimal `gorm:"column:share_value;type:decimal(18,2);not null;default:0" json:"share_value"`
	BranchID     *string         `gorm:"column:branch_id;size:32" json:"branch_id,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// MemberFor reports whether the member has been in the cooperative for at least months as of now.
func (m Member) MemberFor(months int, now time.Time) bool {
	return !m.JoinedAt.After(now.AddDate(0, -months, 0))
}

type SavingsAccount struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MemberID      string          `gorm:"column:member_id;size:32;not null;index" json:"member_id"`
	AccountNumber string          `gorm:"column:account_number;size:32;not null;uniqueIndex" json:"account_number"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	StartDate     time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SavingsAccount) TableName() string { return "savings_accounts" }

// EligibleFilter selects guarantor candidates; Limit 0 means unbounded.
type EligibleFilter struct {
	ExcludeMemberID  string
	JoinedOnOrBefore time.Time
	Search           string
	Limit            int
	Offset           int
}
