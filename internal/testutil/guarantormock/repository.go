package guarantormock

import (
	"context"

	domain "coop-lending/internal/domain/guarantor"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset finders return context.Canceled; unset writers succeed.
type Repo struct {
	CreateFn           func(ctx context.Context, g *domain.Guarantor) error
	SaveFn             func(ctx context.Context, g *domain.Guarantor) error
	DeleteFn           func(ctx context.Context, g *domain.Guarantor) error
	GetByGuarantorIDFn func(ctx context.Context, guarantorID string) (*domain.Guarantor, error)
	ListByLoanFn       func(ctx context.Context, loanID uint64) ([]domain.Guarantor, error)
	ListExposureFn     func(ctx context.Context, memberIDs ...string) ([]domain.ExposureRow, error)
}

func (m *Repo) Create(ctx context.Context, g *domain.Guarantor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, g *domain.Guarantor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, g)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, g *domain.Guarantor) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, g)
	}
	return nil
}

func (m *Repo) GetByGuarantorID(ctx context.Context, guarantorID string) (*domain.Guarantor, error) {
	if m.GetByGuarantorIDFn != nil {
		return m.GetByGuarantorIDFn(ctx, guarantorID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Guarantor, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListExposure(ctx context.Context, memberIDs ...string) ([]domain.ExposureRow, error) {
	if m.ListExposureFn != nil {
		return m.ListExposureFn(ctx, memberIDs...)
	}
	return nil, context.Canceled
}
