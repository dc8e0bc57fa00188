package gormrepo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestSequence_Next(t *testing.T) {
	db := openTestDB(t)
	repo := NewSequenceRepository(db)
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, "LN-20261017")
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Fatalf("Next = %d, want %d", got, want)
		}
	}
	if got, _ := repo.Next(ctx, "RC-20261017"); got != 1 {
		t.Fatalf("independent counter = %d, want 1", got)
	}
}

func TestSequence_RollbackReleasesValue(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sentinel := errors.New("abort")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := NewSequenceRepository(tx).Next(ctx, "LN-20261017"); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if got, _ := NewSequenceRepository(db).Next(ctx, "LN-20261017"); got != 1 {
		t.Fatalf("after rollback Next = %d, want 1", got)
	}
}
