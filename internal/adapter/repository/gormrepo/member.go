package gormrepo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coop-lending/internal/domain/member"
)

// likeEscaper makes search text match literally; '!' is the ESCAPE character
// because a backslash literal is itself an escape in MySQL strings.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// MemberRepository reads the membership tables; this service never writes them.
type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) GetByMemberID(ctx context.Context, memberID string) (*member.Member, error) {
	var out member.Member
	res := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*member.Member, error) {
	var out member.Member
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("member_id = ?", memberID).
		First(&out)
	return &out, res.Error
}

func (r *MemberRepository) ListByMemberIDs(ctx context.Context, memberIDs []string) ([]member.Member, error) {
	var out []member.Member
	if len(memberIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("member_id IN ?", memberIDs).Find(&out).Error
	return out, err
}

func (r *MemberRepository) ListSavingsAccounts(ctx context.Context, memberID string) ([]member.SavingsAccount, error) {
	var out []member.SavingsAccount
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Order("start_date").Find(&out).Error
	return out, err
}

func (r *MemberRepository) SearchEligible(ctx context.Context, f member.EligibleFilter) ([]member.Member, error) {
	var out []member.Member
	q := r.db.WithContext(ctx).Where("status = ?", member.StatusActive)
	if f.ExcludeMemberID != "" {
		q = q.Where("member_id <> ?", f.ExcludeMemberID)
	}
	if !f.JoinedOnOrBefore.IsZero() {
		q = q.Where("joined_at <= ?", f.JoinedOnOrBefore.UTC())
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + likeEscaper.Replace(s) + "%"
		q = q.Where("(LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!' OR LOWER(member_number) LIKE ? ESCAPE '!')",
			like, like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	return out, q.Order("member_number, id").Find(&out).Error
}
