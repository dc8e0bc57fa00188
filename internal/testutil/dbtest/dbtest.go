// Package dbtest opens migrated in-memory sqlite databases and seeds collaborator rows.
package dbtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coop-lending/internal/adapter/repository/gormrepo"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/pkg/id"
)

// Open returns a fresh migrated database. One connection keeps the in-memory
// database alive and serialises transactions the way row locks would.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gormrepo.AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

type MemberOpt func(m *member.Member)

func JoinedAt(at time.Time) MemberOpt { return func(m *member.Member) { m.JoinedAt = at.UTC() } }

func WithStatus(s member.Status) MemberOpt { return func(m *member.Member) { m.Status = s } }

func Named(first, last string) MemberOpt {
	return func(m *member.Member) { m.FirstName, m.LastName = first, last }
}

func Shares(v string) MemberOpt {
	return func(m *member.Member) { m.ShareValue = decimal.RequireFromString(v) }
}

// SeedMember inserts an ACTIVE member who joined two years ago with no shares.
func SeedMember(t *testing.T, db *gorm.DB, number string, opts ...MemberOpt) *member.Member {
	t.Helper()
	m := &member.Member{
		MemberID:     id.NewID32(),
		MemberNumber: number,
		FirstName:    "Member",
		LastName:     number,
		JoinedAt:     time.Now().UTC().AddDate(-2, 0, 0),
		Status:       member.StatusActive,
		ShareValue:   decimal.Zero,
	}
	for _, o := range opts {
		o(m)
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed member %s: %v", number, err)
	}
	return m
}

func SeedSavings(t *testing.T, db *gorm.DB, memberID, balance string, start time.Time) *member.SavingsAccount {
	t.Helper()
	a := &member.SavingsAccount{
		MemberID:      memberID,
		AccountNumber: "SA-" + id.NewID32()[:12],
		Balance:       decimal.RequireFromString(balance),
		StartDate:     start.UTC(),
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed savings: %v", err)
	}
	return a
}

// SeedLoan inserts a NET loan for memberID with 300 processing fee and 1% insurance.
func SeedLoan(t *testing.T, db *gorm.DB, memberID, amount string, status loan.Status) *loan.Loan {
	t.Helper()
	amt := decimal.RequireFromString(amount)
	l := &loan.Loan{
		LoanID:           id.NewID32(),
		LoanNumber:       "LN-TEST-" + id.NewID32()[:8],
		MemberID:         memberID,
		Amount:           amt,
		InterestRate:     decimal.NewFromInt(1),
		DurationMonths:   12,
		Status:           status,
		ProcessingFee:    decimal.NewFromInt(300),
		InsuranceFee:     loan.InsuranceFee(amt),
		DisbursementMode: loan.ModeNet,
		StatusUpdatedAt:  time.Now().UTC(),
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
