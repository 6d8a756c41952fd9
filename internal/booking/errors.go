package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity  = errors.New("ticket quantity must be at least 1")
	ErrQuantityLimit    = errors.New("ticket quantity exceeds the per-booking limit")
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotBookable = errors.New("event is not open for booking")
	// ErrSessionExpired means the staged checkout context was missing or
	// unreadable at payment confirmation. The caller must restart checkout;
	// nothing is ever charged from a stale quote.
	ErrSessionExpired = errors.New("checkout session expired")

	ErrBookingNotFound    = errors.New("booking not found")
	ErrNotBookingOwner    = errors.New("booking belongs to another customer")
	ErrCancelWindowClosed = errors.New("cancellation window has closed")
)

// InsufficientInventoryError carries the actual remaining count so the
// caller can surface it.
type InsufficientInventoryError struct {
	Remaining int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("only %d tickets are available", e.Remaining)
}

// PaymentFailedError wraps any storage failure during the durable write.
// The transaction has been rolled back and the quote re-staged, so the
// request is safe to retry.
type PaymentFailedError struct {
	Err error
}

func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("payment failed: %v", e.Err)
}

func (e *PaymentFailedError) Unwrap() error { return e.Err }
