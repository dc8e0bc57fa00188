package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	ListByReference(ctx context.Context, reference string) ([]Transaction, error)
}
