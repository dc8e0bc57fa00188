package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"coop-lending/internal/domain/schedule"
)

const installmentInsertBatch = 100

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, rows []schedule.Installment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, installmentInsertBatch).Error
}

func (r *InstallmentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]schedule.Installment, error) {
	var out []schedule.Installment
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("installment_no").Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) ListAdvanceCandidates(ctx context.Context, now time.Time, afterID uint64, limit int) ([]schedule.Installment, error) {
	var out []schedule.Installment
	err := r.db.WithContext(ctx).
		Where("status IN ?", schedule.Advanceable).
		Where("due_date < ?", now.UTC()).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) SetStatus(ctx context.Context, ids []uint64, from []schedule.Status, to schedule.Status) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&schedule.Installment{}).
		Where("id IN ? AND status IN ?", ids, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
