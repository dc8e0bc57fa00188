package uow

import (
	"context"

	"coop-lending/internal/domain/guarantor"
	"coop-lending/internal/domain/ledger"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/schedule"
	"coop-lending/internal/domain/sequence"
)

// Repos are bound to one transaction; never keep them past fn.
type Repos struct {
	Loans        loan.Repository
	Guarantors   guarantor.Repository
	Installments schedule.Repository
	Members      member.Repository
	Ledger       ledger.Repository
	Sequences    sequence.Allocator
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
