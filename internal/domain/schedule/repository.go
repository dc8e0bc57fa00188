package schedule

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, rows []Installment) error
	// ListByLoan returns rows ordered by installment number.
	ListByLoan(ctx context.Context, loanID uint64) ([]Installment, error)
	// ListAdvanceCandidates pages Advanceable rows due before now by id, starting after afterID.
	ListAdvanceCandidates(ctx context.Context, now time.Time, afterID uint64, limit int) ([]Installment, error)
	// SetStatus moves ids to status, skipping rows that left the from statuses meanwhile.
	SetStatus(ctx context.Context, ids []uint64, from []Status, to Status) (int64, error)
}
