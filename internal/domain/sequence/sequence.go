package sequence

import (
	"context"
	"fmt"
	"time"
)

const (
	PrefixLoan    = "LN"
	PrefixReceipt = "RC"
)

// Sequence is one named counter, e.g. LN-20261017.
type Sequence struct {
	Name      string    `gorm:"column:name;primaryKey;size:32"`
	Value     uint64    `gorm:"column:value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sequence) TableName() string { return "number_sequences" }

// Allocator hands out strictly increasing values per name. Implementations must
// run inside the caller's transaction so a rolled back caller releases the value.
type Allocator interface {
	Next(ctx context.Context, name string) (uint64, error)
}

// Key is the counter name for prefix on the given UTC day.
func Key(prefix string, day time.Time) string {
	return prefix + "-" + day.UTC().Format("20060102")
}

func Format(prefix string, day time.Time, n uint64) string {
	return fmt.Sprintf("%s-%05d", Key(prefix, day), n)
}

// NextNumber allocates and formats the next number for prefix on day.
func NextNumber(ctx context.Context, a Allocator, prefix string, day time.Time) (string, error) {
	n, err := a.Next(ctx, Key(prefix, day))
	if err != nil {
		return "", fmt.Errorf("allocate %s number: %w", prefix, err)
	}
	return Format(prefix, day, n), nil
}
