package sequence

import (
	"context"
	"errors"
	"testing"
	"time"
)

type counter map[string]uint64

func (c counter) Next(_ context.Context, name string) (uint64, error) {
	c[name]++
	return c[name], nil
}

type failing struct{}

func (failing) Next(context.Context, string) (uint64, error) { return 0, errors.New("db down") }

func TestFormat(t *testing.T) {
	day := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)
	if got := Format(PrefixLoan, day, 7); got != "LN-20261017-00007" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(PrefixReceipt, day, 123456); got != "RC-20261017-123456" {
		t.Fatalf("Format wide = %q", got)
	}
}

func TestKey_UsesUTCDay(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	local := time.Date(2026, 10, 18, 1, 0, 0, 0, nairobi) // still the 17th in UTC
	if got := Key(PrefixLoan, local); got != "LN-20261017" {
		t.Fatalf("Key = %q", got)
	}
}

func TestNextNumber(t *testing.T) {
	c := counter{}
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, _ := NextNumber(ctx, c, PrefixLoan, day)
	second, _ := NextNumber(ctx, c, PrefixLoan, day)
	receipt, _ := NextNumber(ctx, c, PrefixReceipt, day)

	if first != "LN-20261017-00001" || second != "LN-20261017-00002" {
		t.Fatalf("got %q, %q", first, second)
	}
	if receipt != "RC-20261017-00001" {
		t.Fatalf("receipt counter must be independent, got %q", receipt)
	}

	if _, err := NextNumber(ctx, failing{}, PrefixLoan, day); err == nil {
		t.Fatal("expected allocator error")
	}
}
