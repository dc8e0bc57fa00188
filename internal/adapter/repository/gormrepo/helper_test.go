package gormrepo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/pkg/id"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1) // one conn == one in-memory database
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeLoan(memberID string, status loan.Status) *loan.Loan {
	return &loan.Loan{
		LoanID:           id.NewID32(),
		LoanNumber:       "LN-20261017-" + id.NewID32()[:5],
		MemberID:         memberID,
		Amount:           dec("50000"),
		InterestRate:     dec("1"),
		DurationMonths:   12,
		Status:           status,
		ProcessingFee:    dec("300"),
		InsuranceFee:     dec("500"),
		DisbursementMode: loan.ModeNet,
		StatusUpdatedAt:  time.Now().UTC(),
	}
}

func makeMember(number string, joined time.Time) *member.Member {
	return &member.Member{
		MemberID:     id.NewID32(),
		MemberNumber: number,
		FirstName:    "First" + number,
		LastName:     "Last" + number,
		JoinedAt:     joined.UTC(),
		Status:       member.StatusActive,
		ShareValue:   dec("10000"),
	}
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}
