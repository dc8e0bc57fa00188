package guarantor

import "context"

type Repository interface {
	Create(ctx context.Context, g *Guarantor) error
	Save(ctx context.Context, g *Guarantor) error
	Delete(ctx context.Context, g *Guarantor) error
	GetByGuarantorID(ctx context.Context, guarantorID string) (*Guarantor, error)
	// ListByLoan takes the numeric loan id.
	ListByLoan(ctx context.Context, loanID uint64) ([]Guarantor, error)
	// ListExposure returns PENDING/APPROVED guarantees of the given members on loans
	// not in ExposureExcludedLoanStatuses.
	ListExposure(ctx context.Context, memberIDs ...string) ([]ExposureRow, error)
}
