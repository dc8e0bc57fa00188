package guarantor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coop-lending/internal/domain/guarantor"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/shared"
	"coop-lending/internal/domain/uow"
	"coop-lending/pkg/id"
)

const (
	// MaxEligibleResults caps listEligible.
	MaxEligibleResults = 50
	eligiblePageSize   = 200
)

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{
		uow: tx,
		log: log.Named("guarantor"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Add records a PENDING guarantee. The loan row and then the guarantor's member
// row are locked, so exposure and coverage are checked and written atomically.
func (u *Usecase) Add(ctx context.Context, in AddInput) (*GuarantorDTO, error) {
	if in.GuarantorMemberID == "" {
		return nil, shared.Invalid("guarantor_member_id is required")
	}
	if !in.AmountGuaranteed.IsPositive() {
		return nil, shared.Invalid("amount_guaranteed must be positive")
	}
	amount := in.AmountGuaranteed.Round(2)
	now := u.now()

	var out GuarantorDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		gm, err := r.Members.GetByMemberIDForUpdate(ctx, in.GuarantorMemberID)
		if err != nil {
			return shared.OrNotFound(err, "guarantor member %s not found", in.GuarantorMemberID)
		}
		if !l.Status.AcceptsGuarantors() {
			return shared.Invalid("cannot add guarantors to a %s loan", l.Status)
		}
		if gm.MemberID == l.MemberID {
			return shared.Invalid("a member cannot guarantee their own loan")
		}
		rows, err := r.Guarantors.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		for _, g := range rows {
			if g.GuarantorMemberID == gm.MemberID {
				return shared.Invalid("member %s already guarantees this loan", gm.MemberNumber)
			}
		}
		if !gm.MemberFor(guarantor.MinMembershipMonths, now) {
			return shared.Invalid("guarantor must have been a member for at least %d months", guarantor.MinMembershipMonths)
		}

		exposure, err := r.Guarantors.ListExposure(ctx, gm.MemberID)
		if err != nil {
			return err
		}
		capacity := gm.ShareValue.Sub(guarantor.ExposureByMember(exposure)[gm.MemberID])
		if amount.GreaterThan(capacity) {
			return shared.Invalid("insufficient guarantor share balance: available %s, requested %s",
				decimal.Max(capacity, decimal.Zero).StringFixed(2), amount.StringFixed(2))
		}

		committed := guarantor.Committed(rows)
		if committed.Add(amount).GreaterThan(l.Amount) {
			return shared.Invalid("total guarantees %s would exceed loan amount %s",
				committed.Add(amount).StringFixed(2), l.Amount.StringFixed(2))
		}

		g := &guarantor.Guarantor{
			GuarantorID:       id.NewID32(),
			LoanID:            l.ID,
			GuarantorMemberID: gm.MemberID,
			AmountGuaranteed:  amount,
			Status:            guarantor.StatusPending,
		}
		if err := r.Guarantors.Create(ctx, g); err != nil {
			return fmt.Errorf("create guarantee: %w", err)
		}
		out = toDTO(g, l.LoanID, gm)
		return nil
	})
	if err != nil {
		return nil, shared.OrNotFound(err, "loan %s not found", in.LoanID)
	}
	u.log.Info("guarantee added",
		zap.String("loan_id", in.LoanID),
		zap.String("guarantor_id", out.GuarantorID),
		zap.String("member_id", out.GuarantorMemberID),
		zap.String("amount", out.AmountGuaranteed.StringFixed(2)))
	return &out, nil
}

// Decide applies a guarantor's APPROVE or DECLINE. When ActingMemberID is set
// it must be the guarantor's own member id.
func (u *Usecase) Decide(ctx context.Context, in DecisionInput) (*GuarantorDTO, error) {
	action := guarantor.Action(strings.ToUpper(strings.TrimSpace(in.Action)))
	now := u.now()

	var out GuarantorDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		g, err := findOnLoan(ctx, r, l, in.GuarantorID)
		if err != nil {
			return err
		}
		if g.Status != guarantor.StatusPending {
			return shared.Invalid("guarantee has already been %s", g.Status)
		}
		if in.ActingMemberID != "" && in.ActingMemberID != g.GuarantorMemberID {
			return shared.Forbidden("only the guarantor can decide on this guarantee")
		}
		if err := g.Decide(action, in.SignatureRef, in.DeclineReason, now); err != nil {
			return err
		}
		if err := r.Guarantors.Save(ctx, g); err != nil {
			return fmt.Errorf("save guarantee: %w", err)
		}
		out = toDTO(g, l.LoanID, nil)
		return nil
	})
	if err != nil {
		return nil, shared.OrNotFound(err, "loan %s not found", in.LoanID)
	}
	u.log.Info("guarantee decided",
		zap.String("loan_id", in.LoanID),
		zap.String("guarantor_id", out.GuarantorID),
		zap.String("status", string(out.Status)))
	return &out, nil
}

// Remove deletes a guarantee that is still PENDING.
func (u *Usecase) Remove(ctx context.Context, loanID, guarantorID string) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		g, err := findOnLoan(ctx, r, l, guarantorID)
		if err != nil {
			return err
		}
		if g.Status != guarantor.StatusPending {
			return shared.Invalid("only pending guarantees can be removed, this one is %s", g.Status)
		}
		return r.Guarantors.Delete(ctx, g)
	})
	if err != nil {
		return shared.OrNotFound(err, "loan %s not found", loanID)
	}
	u.log.Info("guarantee removed", zap.String("loan_id", loanID), zap.String("guarantor_id", guarantorID))
	return nil
}

func findOnLoan(ctx context.Context, r uow.Repos, l *loan.Loan, guarantorID string) (*guarantor.Guarantor, error) {
	g, err := r.Guarantors.GetByGuarantorID(ctx, guarantorID)
	if err != nil {
		return nil, shared.OrNotFound(err, "guarantor %s not found", guarantorID)
	}
	if g.LoanID != l.ID {
		return nil, shared.NotFound("guarantor %s not found on loan %s", guarantorID, l.LoanID)
	}
	return g, nil
}

func (u *Usecase) List(ctx context.Context, loanID string) (*ListResult, error) {
	var out *ListResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return shared.OrNotFound(err, "loan %s not found", loanID)
		}
		rows, err := r.Guarantors.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(rows))
		for _, g := range rows {
			ids = append(ids, g.GuarantorMemberID)
		}
		members, err := r.Members.ListByMemberIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*member.Member, len(members))
		for i := range members {
			byID[members[i].MemberID] = &members[i]
		}

		out = &ListResult{LoanID: l.LoanID, LoanStatus: l.Status, Guarantors: make([]GuarantorDTO, 0, len(rows))}
		for i := range rows {
			out.Guarantors = append(out.Guarantors, toDTO(&rows[i], l.LoanID, byID[rows[i].GuarantorMemberID]))
		}
		out.Summary = summarize(l, rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func summarize(l *loan.Loan, rows []guarantor.Guarantor) ConsensusSummary {
	c := guarantor.Summarize(rows)
	return ConsensusSummary{
		LoanAmount:        l.Amount,
		Pending:           c.Pending,
		Approved:          c.Approved,
		Declined:          c.Declined,
		ApprovedTotal:     c.ApprovedTotal,
		Committed:         guarantor.Committed(rows),
		CoverageRemaining: decimal.Max(l.Amount.Sub(c.ApprovedTotal), decimal.Zero),
		ReadyForApproval: c.Pending == 0 && c.Approved >= loan.MinApprovedGuarantors &&
			!c.ApprovedTotal.LessThan(l.Amount),
	}
}

// Eligible lists members who could still guarantee the loan, best match first
// by member number, capped at MaxEligibleResults.
func (u *Usecase) Eligible(ctx context.Context, loanID, search string) ([]EligibleGuarantor, error) {
	cutoff := u.now().AddDate(0, -guarantor.MinMembershipMonths, 0)
	out := make([]EligibleGuarantor, 0)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return shared.OrNotFound(err, "loan %s not found", loanID)
		}
		f := member.EligibleFilter{
			ExcludeMemberID:  l.MemberID,
			JoinedOnOrBefore: cutoff,
			Search:           search,
			Limit:            eligiblePageSize,
		}
		for len(out) < MaxEligibleResults {
			page, err := r.Members.SearchEligible(ctx, f)
			if err != nil {
				return err
			}
			if len(page) == 0 {
				return nil
			}
			ids := make([]string, len(page))
			for i, m := range page {
				ids[i] = m.MemberID
			}
			rows, err := r.Guarantors.ListExposure(ctx, ids...)
			if err != nil {
				return err
			}
			exposure := guarantor.ExposureByMember(rows)
			for _, m := range page {
				capacity := m.ShareValue.Sub(exposure[m.MemberID])
				if !capacity.IsPositive() {
					continue
				}
				out = append(out, EligibleGuarantor{
					MemberID:          m.MemberID,
					MemberNumber:      m.MemberNumber,
					Name:              m.FullName(),
					JoinedAt:          m.JoinedAt,
					TotalShareValue:   m.ShareValue,
					ExistingExposure:  exposure[m.MemberID],
					AvailableCapacity: capacity,
				})
				if len(out) == MaxEligibleResults {
					return nil
				}
			}
			if len(page) < f.Limit {
				return nil
			}
			f.Offset += f.Limit
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Exposure reports what a member has committed as guarantor on live loans.
func (u *Usecase) Exposure(ctx context.Context, memberID string) (*ExposureReport, error) {
	var out *ExposureReport
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Members.GetByMemberID(ctx, memberID)
		if err != nil {
			return shared.OrNotFound(err, "member %s not found", memberID)
		}
		rows, err := r.Guarantors.ListExposure(ctx, m.MemberID)
		if err != nil {
			return err
		}
		total := guarantor.ExposureByMember(rows)[m.MemberID]
		if rows == nil {
			rows = []guarantor.ExposureRow{}
		}
		out = &ExposureReport{
			MemberID:          m.MemberID,
			TotalShareValue:   m.ShareValue,
			TotalExposure:     total,
			AvailableCapacity: m.ShareValue.Sub(total),
			Guarantees:        rows,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
