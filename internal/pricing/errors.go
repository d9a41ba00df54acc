package pricing

import "errors"

var (
	// ErrInvalidMargin means margin plus fees reach or exceed 100%,
	// which makes the markup divisor non-positive.
	ErrInvalidMargin = errors.New("margin plus fees must be below 100%")

	// ErrInvalidMaterial means a recipe material has a package
	// quantity of zero or less.
	ErrInvalidMaterial = errors.New("material package quantity must be greater than 0")

	// ErrInvalidPricing means the sale price does not exceed the unit
	// variable cost, so no break-even volume exists.
	ErrInvalidPricing = errors.New("sale price must be greater than the variable cost")

	// ErrEmptyInput means a required non-empty collection was empty.
	ErrEmptyInput = errors.New("required input collection is empty")

	// ErrMonthNotFound means the requested month has no record in the
	// supplied sales history.
	ErrMonthNotFound = errors.New("month not found in sales history")
)
