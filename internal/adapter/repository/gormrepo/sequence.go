package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coop-lending/internal/domain/sequence"
)

// SequenceRepository allocates numbers from number_sequences. The UPDATE takes
// the row lock, so concurrent callers on the same name queue behind each other
// until the owning transaction ends.
type SequenceRepository struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) *SequenceRepository { return &SequenceRepository{db: db} }

func (r *SequenceRepository) Next(ctx context.Context, name string) (uint64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sequence.Sequence{Name: name}).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&sequence.Sequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + ?", 1)).Error; err != nil {
		return 0, err
	}
	var s sequence.Sequence
	if err := db.Where("name = ?", name).First(&s).Error; err != nil {
		return 0, err
	}
	return s.Value, nil
}
