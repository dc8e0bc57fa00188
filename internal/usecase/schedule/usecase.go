package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/schedule"
	"coop-lending/internal/domain/shared"
	"coop-lending/internal/domain/uow"
)

const DefaultBatchSize = 500

type Usecase struct {
	uow       uow.UnitOfWork
	batchSize int
	log       *zap.Logger
	now       func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, batchSize int, log *zap.Logger) *Usecase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Usecase{
		uow:       tx,
		batchSize: batchSize,
		log:       log.Named("schedule"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate builds the repayment table once. A second call returns the stored rows.
func (u *Usecase) Generate(ctx context.Context, loanID string) (*GenerateResult, error) {
	now := u.now()
	var out GenerateResult
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusApproved && l.Status != loan.StatusDisbursed {
			return shared.Invalid("schedule can only be generated for APPROVED or DISBURSED loans, loan is %s", l.Status)
		}
		existing, err := r.Installments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			out = GenerateResult{
				Details:        Details{Loan: l, Installments: existing, Summary: schedule.Summarize(existing)},
				MonthlyPayment: l.MonthlyPayment,
			}
			return nil
		}

		payment, rows, err := schedule.Build(schedule.Terms{
			Principal:   l.Amount,
			MonthlyRate: l.InterestRate,
			Months:      l.DurationMonths,
			Start:       schedule.StartDate(l.DisbursementDate, l.ApprovalDate, now),
		})
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].LoanID = l.ID
		}
		if err := r.Installments.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		l.MonthlyPayment = payment
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		out = GenerateResult{
			Details:        Details{Loan: l, Installments: rows, Summary: schedule.Summarize(rows)},
			MonthlyPayment: payment,
			Created:        true,
		}
		return nil
	})
	if err != nil {
		return nil, shared.OrNotFound(err, "loan %s not found", loanID)
	}
	if out.Created {
		u.log.Info("schedule generated",
			zap.String("loan_id", loanID),
			zap.Int("installments", len(out.Installments)),
			zap.String("monthly_payment", out.MonthlyPayment.StringFixed(2)))
	}
	return &out, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*Details, error) {
	var out Details
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, rows, err := loadSchedule(ctx, r, loanID)
		if err != nil {
			return err
		}
		out = Details{Loan: l, Installments: rows, Summary: schedule.Summarize(rows)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) Summary(ctx context.Context, loanID string) (*SummaryResult, error) {
	var out SummaryResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, rows, err := loadSchedule(ctx, r, loanID)
		if err != nil {
			return err
		}
		out = SummaryResult{LoanID: l.LoanID, LoanNumber: l.LoanNumber, LoanStatus: l.Status, Summary: schedule.Summarize(rows)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func loadSchedule(ctx context.Context, r uow.Repos, loanID string) (*loan.Loan, []schedule.Installment, error) {
	l, err := r.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, shared.OrNotFound(err, "loan %s not found", loanID)
	}
	rows, err := r.Installments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}
	if rows == nil {
		rows = []schedule.Installment{}
	}
	return l, rows, nil
}

// Advance moves late instalments forward: PENDING past due becomes DUE and
// anything unpaid OverdueAfterDays past due becomes OVERDUE. Rows are walked
// by id in batches, each in its own short transaction.
func (u *Usecase) Advance(ctx context.Context) (AdvanceResult, error) {
	now := u.now()
	var res AdvanceResult
	var after uint64
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var n int
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			rows, err := r.Installments.ListAdvanceCandidates(ctx, now, after, u.batchSize)
			if err != nil {
				return err
			}
			n = len(rows)
			if n == 0 {
				return nil
			}
			after = rows[n-1].ID

			var due, overdue []uint64
			for _, row := range rows {
				st, changed := schedule.AdvancedStatus(row.Status, row.DueDate, now)
				if !changed {
					continue
				}
				if st == schedule.StatusOverdue {
					overdue = append(overdue, row.ID)
				} else {
					due = append(due, row.ID)
				}
			}
			if len(overdue) > 0 {
				c, err := r.Installments.SetStatus(ctx, overdue, schedule.Advanceable, schedule.StatusOverdue)
				if err != nil {
					return fmt.Errorf("mark overdue: %w", err)
				}
				res.ToOverdue += c
			}
			if len(due) > 0 {
				c, err := r.Installments.SetStatus(ctx, due, []schedule.Status{schedule.StatusPending}, schedule.StatusDue)
				if err != nil {
					return fmt.Errorf("mark due: %w", err)
				}
				res.ToDue += c
			}
			return nil
		})
		if err != nil {
			return res, err
		}
		res.Scanned += n
		if n > 0 {
			res.Batches++
		}
		if n < u.batchSize {
			break
		}
	}
	u.log.Info("schedule statuses advanced",
		zap.Int("scanned", res.Scanned),
		zap.Int64("to_due", res.ToDue),
		zap.Int64("to_overdue", res.ToOverdue),
		zap.Int("batches", res.Batches))
	return res, nil
}
