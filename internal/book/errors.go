package book

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetMismatch is returned when an order's asset type does not
	// match the book's own asset type.
	ErrAssetMismatch = errors.New("book: order asset type does not match book asset type")
	// ErrUnsupportedSide is returned for a side outside {Buy, Sell}.
	ErrUnsupportedSide = errors.New("book: unsupported order side")
)

// InvariantViolationError signals that the order-id index pointed at an
// order whose price level could not be found in its ladder. This is a
// programming-error condition, not a recoverable business outcome, so it
// is surfaced by panicking with this type rather than through an
// ordinary error return.
type InvariantViolationError struct {
	OrderID string
	Detail  string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("book: invariant violation for order %s: %s", e.OrderID, e.Detail)
}
