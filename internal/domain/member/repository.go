package member

import "context"

type Repository interface {
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
	// GetByMemberIDForUpdate locks the member row until the surrounding tx ends.
	GetByMemberIDForUpdate(ctx context.Context, memberID string) (*Member, error)
	ListByMemberIDs(ctx context.Context, memberIDs []string) ([]Member, error)
	ListSavingsAccounts(ctx context.Context, memberID string) ([]SavingsAccount, error)
	// SearchEligible returns ACTIVE members ordered by member number.
	SearchEligible(ctx context.Context, f EligibleFilter) ([]Member, error)
}
