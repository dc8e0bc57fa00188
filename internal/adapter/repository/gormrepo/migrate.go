package gormrepo

import (
	"gorm.io/gorm"

	"coop-lending/internal/domain/guarantor"
	"coop-lending/internal/domain/ledger"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/schedule"
	"coop-lending/internal/domain/sequence"
)

// Models lists every table this service migrates. members and savings_accounts
// belong to the membership service; they are included so a fresh database works standalone.
func Models() []any {
	return []any{
		&member.Member{},
		&member.SavingsAccount{},
		&loan.Loan{},
		&guarantor.Guarantor{},
		&schedule.Installment{},
		&ledger.Transaction{},
		&sequence.Sequence{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
