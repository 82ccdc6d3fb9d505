package discount

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCart is returned when a sum is requested before any cart was loaded.
	ErrNoCart = errors.New("discount: no cart loaded")
	// ErrUnsetField indicates the active mode needs a field that was never configured.
	ErrUnsetField = errors.New("discount: required field not set")
	// ErrUnmappedCategory indicates a cart item category has no on-top category discount.
	ErrUnmappedCategory = errors.New("discount: category has no on-top discount")
	// ErrInvalidMode is returned for a coupon or on-top mode outside the supported set.
	ErrInvalidMode = errors.New("discount: invalid mode")
	// ErrInvalidSeasonalInterval is returned when seasonal.every is not positive.
	ErrInvalidSeasonalInterval = errors.New("discount: seasonal interval must be positive")
	// ErrSeasonalOverflow is returned when total/every or the seasonal discount is not a finite, representable number.
	ErrSeasonalOverflow = errors.New("discount: seasonal discount out of range")
)

// FieldError names the unset field that a computation tried to read.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("discount: required field %q not set", e.Field)
}

// Unwrap allows errors.Is(err, ErrUnsetField).
func (e *FieldError) Unwrap() error { return ErrUnsetField }

// CategoryError reports the category lookup that failed in category mode.
type CategoryError struct {
	Category string
	ItemID   string
}

func (e *CategoryError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("discount: category %q has no on-top discount", e.Category)
	}
	return fmt.Sprintf("discount: category %q of item %s has no on-top discount", e.Category, e.ItemID)
}

// Unwrap allows errors.Is(err, ErrUnmappedCategory).
func (e *CategoryError) Unwrap() error { return ErrUnmappedCategory }

func unset(field string) error {
	return &FieldError{Field: field}
}
