package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"coop-lending/internal/domain/ledger"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, t *ledger.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *LedgerRepository) ListByReference(ctx context.Context, reference string) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	err := r.db.WithContext(ctx).Where("reference = ?", reference).Order("id").Find(&out).Error
	return out, err
}
