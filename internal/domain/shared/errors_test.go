package shared

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIs_MatchesByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"not found", NotFound("loan %s not found", "x"), ErrNotFound, true},
		{"invalid", Invalid("amount must be positive"), ErrInvalid, true},
		{"forbidden", Forbidden("nope"), ErrForbidden, true},
		{"kind mismatch", Invalid("x"), ErrNotFound, false},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("member")), ErrNotFound, true},
		{"plain error", errors.New("boom"), ErrInvalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Fatalf("errors.Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("wrap: %w", Forbidden("x"))); got != KindForbidden {
		t.Fatalf("KindOf = %q", got)
	}
	if got := KindOf(errors.New("boom")); got != "" {
		t.Fatalf("KindOf plain = %q", got)
	}
}

func TestMessageIsPreserved(t *testing.T) {
	err := Invalid("guarantee has already been %s", "APPROVED")
	if err.Error() != "guarantee has already been APPROVED" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestOrNotFound(t *testing.T) {
	err := OrNotFound(fmt.Errorf("query: %w", gorm.ErrRecordNotFound), "loan %s not found", "abc")
	if !errors.Is(err, ErrNotFound) || err.Error() != "loan abc not found" {
		t.Fatalf("got %v", err)
	}

	boom := errors.New("connection reset")
	if got := OrNotFound(boom, "loan"); got != boom {
		t.Fatalf("non-not-found error must pass through, got %v", got)
	}
}
