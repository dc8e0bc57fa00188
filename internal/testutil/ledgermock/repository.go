package ledgermock

import (
	"context"

	domain "coop-lending/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, t *domain.Transaction) error
	ListByReferenceFn func(ctx context.Context, reference string) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	if m.ListByReferenceFn != nil {
		return m.ListByReferenceFn(ctx, reference)
	}
	return nil, context.Canceled
}
