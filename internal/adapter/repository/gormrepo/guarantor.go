package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"coop-lending/internal/domain/guarantor"
)

type GuarantorRepository struct{ db *gorm.DB }

func NewGuarantorRepository(db *gorm.DB) *GuarantorRepository {
	return &GuarantorRepository{db: db}
}

func (r *GuarantorRepository) Create(ctx context.Context, g *guarantor.Guarantor) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GuarantorRepository) Save(ctx context.Context, g *guarantor.Guarantor) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GuarantorRepository) Delete(ctx context.Context, g *guarantor.Guarantor) error {
	return r.db.WithContext(ctx).Delete(g).Error
}

func (r *GuarantorRepository) GetByGuarantorID(ctx context.Context, guarantorID string) (*guarantor.Guarantor, error) {
	var out guarantor.Guarantor
	res := r.db.WithContext(ctx).Where("guarantor_id = ?", guarantorID).First(&out)
	return &out, res.Error
}

func (r *GuarantorRepository) ListByLoan(ctx context.Context, loanID uint64) ([]guarantor.Guarantor, error) {
	var out []guarantor.Guarantor
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id").Find(&out).Error
	return out, err
}

func (r *GuarantorRepository) ListExposure(ctx context.Context, memberIDs ...string) ([]guarantor.ExposureRow, error) {
	var out []guarantor.ExposureRow
	if len(memberIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Table("loan_guarantors AS g").
		Select(`g.guarantor_id, g.guarantor_member_id, g.amount_guaranteed, g.status,
			l.loan_id, l.loan_number, l.member_id AS borrower_member_id,
			l.amount AS loan_amount, l.status AS loan_status`).
		Joins("JOIN loans l ON l.id = g.loan_id AND l.deleted_at IS NULL").
		Where("g.guarantor_member_id IN ?", memberIDs).
		Where("g.status IN ?", []guarantor.Status{guarantor.StatusPending, guarantor.StatusApproved}).
		Where("l.status NOT IN ?", guarantor.ExposureExcludedLoanStatuses).
		Order("g.id").
		Scan(&out).Error
	return out, err
}
