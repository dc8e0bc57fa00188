package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coop-lending/internal/domain/guarantor"
	"coop-lending/internal/domain/ledger"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/sequence"
	"coop-lending/internal/domain/shared"
	"coop-lending/internal/domain/uow"
	"coop-lending/pkg/id"
)

type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, opts Options, log *zap.Logger) *Usecase {
	return &Usecase{
		repo: r,
		uow:  tx,
		opts: opts,
		log:  log.Named("loan"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*loan.Loan, error) {
	mode := loan.DisbursementMode(strings.ToUpper(strings.TrimSpace(in.DisbursementMode)))
	if mode == "" {
		mode = loan.ModeNet
	}
	amount := in.Amount.Round(2)
	switch {
	case in.MemberID == "":
		return nil, shared.Invalid("member_id is required")
	case !amount.IsPositive():
		return nil, shared.Invalid("amount must be positive")
	case in.TermMonths <= 0:
		return nil, shared.Invalid("term_months must be positive")
	case in.MonthlyIncome.IsNegative():
		return nil, shared.Invalid("monthly_income must not be negative")
	case !mode.Valid():
		return nil, shared.Invalid("disbursement_mode must be NET or GROSS")
	}

	now := u.now()
	var out *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Members.GetByMemberID(ctx, in.MemberID)
		if err != nil {
			return shared.OrNotFound(err, "member %s not found", in.MemberID)
		}
		accounts, err := r.Members.ListSavingsAccounts(ctx, m.MemberID)
		if err != nil {
			return err
		}
		prior, err := r.Loans.CountByMember(ctx, m.MemberID)
		if err != nil {
			return err
		}
		if err := loan.CheckEligibility(amount, accounts, prior, now); err != nil {
			return err
		}

		number, err := sequence.NextNumber(ctx, r.Sequences, sequence.PrefixLoan, now)
		if err != nil {
			return err
		}
		branch := in.BranchID
		if branch == nil {
			branch = m.BranchID
		}
		l := &loan.Loan{
			LoanID:           id.NewID32(),
			LoanNumber:       number,
			MemberID:         m.MemberID,
			Amount:           amount,
			InterestRate:     u.opts.DefaultMonthlyRate,
			DurationMonths:   in.TermMonths,
			Status:           loan.StatusSubmitted,
			Purpose:          in.Purpose,
			MonthlyIncome:    in.MonthlyIncome.Round(2),
			IncomeSource:     in.IncomeSource,
			ProcessingFee:    u.opts.ProcessingFee,
			InsuranceFee:     loan.InsuranceFee(amount),
			DisbursementMode: mode,
			MonthlyPayment:   decimal.Zero,
			Balance:          decimal.Zero,
			BranchID:         branch,
			StatusUpdatedAt:  now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan submitted",
		zap.String("loan_id", out.LoanID),
		zap.String("loan_number", out.LoanNumber),
		zap.String("member_id", out.MemberID),
		zap.String("amount", out.Amount.StringFixed(2)))
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, shared.OrNotFound(err, "loan %s not found", loanID)
	}
	return l, nil
}

// List returns loans newest first; an empty status lists all.
func (u *Usecase) List(ctx context.Context, status string) ([]loan.Loan, error) {
	st := loan.Status(strings.ToUpper(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, shared.Invalid("unknown loan status %q", status)
	}
	return u.repo.List(ctx, loan.Filter{Status: st})
}

func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*loan.Loan, error) {
	res, err := u.transition(ctx, in.LoanID, loan.TransitionInput{
		To:      loan.StatusApproved,
		Actor:   in.ApproverID,
		Comment: in.Comment,
	})
	if err != nil {
		return nil, err
	}
	return res.Loan, nil
}

func (u *Usecase) Disburse(ctx context.Context, in DisburseInput) (*TransitionResult, error) {
	return u.transition(ctx, in.LoanID, loan.TransitionInput{
		To:      loan.StatusDisbursed,
		Actor:   in.DisburserID,
		Comment: in.Comment,
		Deductions: loan.Deductions{
			Arrears: in.ArrearsDeducted,
			Savings: in.SavingsDeducted,
			Shares:  in.SharesDeducted,
		},
	})
}

// UpdateStatus is the generic path; APPROVED and DISBURSED go through the same
// guards and side effects as Approve and Disburse (no extra deductions).
func (u *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*TransitionResult, error) {
	st := loan.Status(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !st.Valid() {
		return nil, shared.Invalid("unknown loan status %q", in.Status)
	}
	return u.transition(ctx, in.LoanID, loan.TransitionInput{
		To:      st,
		Actor:   in.ActorID,
		Comment: in.Comment,
	})
}

func (u *Usecase) transition(ctx context.Context, loanID string, in loan.TransitionInput) (*TransitionResult, error) {
	var (
		res  TransitionResult
		from loan.Status
	)
	in.At = u.now()
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		from = l.Status
		if !loan.CanTransition(l.Status, in.To) {
			return shared.Invalid("cannot move loan from %s to %s", l.Status, in.To)
		}

		switch in.To {
		case loan.StatusApproved:
			rows, err := r.Guarantors.ListByLoan(ctx, l.ID)
			if err != nil {
				return err
			}
			in.Consensus = guarantor.Summarize(rows)
		case loan.StatusDisbursed:
			receipt, err := sequence.NextNumber(ctx, r.Sequences, sequence.PrefixReceipt, in.At)
			if err != nil {
				return err
			}
			in.Receipt = receipt
		}

		disb, err := l.Transition(in)
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if disb != nil {
			tx := disbursementEntry(l, disb)
			if err := r.Ledger.Create(ctx, tx); err != nil {
				return fmt.Errorf("post disbursement: %w", err)
			}
			res.LedgerTxID = tx.TransactionID
		}
		res.Loan, res.Disbursement = l, disb
		return nil
	})
	if err != nil {
		return nil, shared.OrNotFound(err, "loan %s not found", loanID)
	}

	fields := []zap.Field{
		zap.String("loan_id", res.Loan.LoanID),
		zap.String("from", string(from)),
		zap.String("to", string(in.To)),
		zap.String("actor", in.Actor),
	}
	if res.Disbursement != nil {
		fields = append(fields,
			zap.String("net_amount", res.Disbursement.NetAmount.StringFixed(2)),
			zap.String("receipt", in.Receipt))
	}
	u.log.Info("loan status changed", fields...)
	return &res, nil
}

func disbursementEntry(l *loan.Loan, d *loan.Disbursement) *ledger.Transaction {
	return &ledger.Transaction{
		TransactionID: id.NewID32(),
		MemberID:      l.MemberID,
		Amount:        d.NetAmount,
		Type:          ledger.TypeLoanDisbursement,
		Channel:       ledger.ChannelInternal,
		Status:        ledger.StatusCompleted,
		Narration:     fmt.Sprintf("Loan disbursement for %s", l.LoanNumber),
		Reference:     *l.DisbursementReceipt,
		BranchID:      l.BranchID,
		Metadata: ledger.DisbursementMetadata{
			LoanID:           l.LoanID,
			LoanNumber:       l.LoanNumber,
			Principal:        d.Principal,
			DisbursementMode: string(d.Mode),
			ProcessingFee:    d.ProcessingFee,
			InsuranceFee:     d.InsuranceFee,
			ArrearsDeducted:  d.ArrearsDeducted,
			SavingsDeducted:  d.SavingsDeducted,
			SharesDeducted:   d.SharesDeducted,
			TotalDeductions:  d.TotalDeductions,
			NetAmount:        d.NetAmount,
		},
	}
}
