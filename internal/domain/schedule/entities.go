package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusDue     Status = "DUE"
	StatusPartial Status = "PARTIAL"
	StatusOverdue Status = "OVERDUE"
	StatusPaid    Status = "PAID"
)

type Installment struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID        uint64          `gorm:"column:loan_id;not null;uniqueIndex:ux_schedule_loan_installment" json:"-"`
	InstallmentNo int             `gorm:"column:installment_no;not null;uniqueIndex:ux_schedule_loan_installment" json:"installment_no"`
	DueDate       time.Time       `gorm:"column:due_date;not null;index:idx_schedule_status_due,priority:2" json:"due_date"`
	PrincipalDue  decimal.Decimal `gorm:"column:principal_due;type:decimal(18,2);not null" json:"principal_due"`
	InterestDue   decimal.Decimal `gorm:"column:interest_due;type:decimal(18,2);not null" json:"interest_due"`
	PenaltyDue    decimal.Decimal `gorm:"column:penalty_due;type:decimal(18,2);not null;default:0" json:"penalty_due"`
	PrincipalPaid decimal.Decimal `gorm:"column:principal_paid;type:decimal(18,2);not null;default:0" json:"principal_paid"`
	InterestPaid  decimal.Decimal `gorm:"column:interest_paid;type:decimal(18,2);not null;default:0" json:"interest_paid"`
	PenaltyPaid   decimal.Decimal `gorm:"column:penalty_paid;type:decimal(18,2);not null;default:0" json:"penalty_paid"`
	TotalDue      decimal.Decimal `gorm:"column:total_due;type:decimal(18,2);not null" json:"total_due"`
	TotalPaid     decimal.Decimal `gorm:"column:total_paid;type:decimal(18,2);not null;default:0" json:"total_paid"`
	BalanceAfter  decimal.Decimal `gorm:"column:balance_after;type:decimal(18,2);not null" json:"balance_after"`
	Status        Status          `gorm:"column:status;size:16;not null;index:idx_schedule_status_due,priority:1" json:"status"`
	PaidAt        *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "loan_schedule_installments" }

type Summary struct {
	Installments      int             `json:"installments"`
	TotalPrincipalDue decimal.Decimal `json:"total_principal_due"`
	TotalInterestDue  decimal.Decimal `json:"total_interest_due"`
	TotalPenaltyDue   decimal.Decimal `json:"total_penalty_due"`
	TotalDue          decimal.Decimal `json:"total_due"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	PaidCount         int             `json:"paid_count"`
	OverdueCount      int             `json:"overdue_count"`
	RemainingCount    int             `json:"remaining_count"`
	NextUnpaid        *Installment    `json:"next_unpaid,omitempty"`
}

// Summarize expects rows ordered by installment number.
func Summarize(rows []Installment) Summary {
	s := Summary{
		Installments:      len(rows),
		TotalPrincipalDue: decimal.Zero,
		TotalInterestDue:  decimal.Zero,
		TotalPenaltyDue:   decimal.Zero,
		TotalDue:          decimal.Zero,
		TotalPaid:         decimal.Zero,
	}
	for i := range rows {
		r := rows[i]
		s.TotalPrincipalDue = s.TotalPrincipalDue.Add(r.PrincipalDue)
		s.TotalInterestDue = s.TotalInterestDue.Add(r.InterestDue)
		s.TotalPenaltyDue = s.TotalPenaltyDue.Add(r.PenaltyDue)
		s.TotalDue = s.TotalDue.Add(r.TotalDue)
		s.TotalPaid = s.TotalPaid.Add(r.TotalPaid)
		switch r.Status {
		case StatusPaid:
			s.PaidCount++
			continue
		case StatusOverdue:
			s.OverdueCount++
		}
		s.RemainingCount++
		if s.NextUnpaid == nil {
			s.NextUnpaid = &rows[i]
		}
	}
	s.Outstanding = s.TotalDue.Sub(s.TotalPaid)
	return s
}
