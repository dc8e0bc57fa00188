package shared

import (
	"errors"

	"gorm.io/gorm"
)

// OrNotFound turns gorm.ErrRecordNotFound into a NotFound error with the given
// message and passes every other error through untouched.
func OrNotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(format, args...)
	}
	return err
}
