// Package apperr defines the error kinds callers branch on. Repositories and
// services wrap these with fmt.Errorf("...: %w", ...) so the HTTP layer can
// map them to status codes with errors.Is.
package apperr

import "errors"

var (
	// Validation errors: recovered locally with a corrective re-prompt.
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrBelowMinimumQuantity = errors.New("quantity is below the minimum for this product")
	ErrInsufficientStock    = errors.New("not enough stock available")
	ErrInvalidPayment       = errors.New("unknown payment method")
	ErrAwaitingNothing      = errors.New("no pending input for this user")

	// Not-found errors: surfaced as-is, no retry.
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrOrderNotFound   = errors.New("order not found")

	// ErrEmptyCart blocks checkout entirely; no order record may exist for it.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrTerminalStatus rejects transitions out of completed or cancelled.
	ErrTerminalStatus = errors.New("order is in a terminal status")

	ErrInvalidTransition = errors.New("transition not permitted from current status")
)

// IsValidation reports whether err is a user-correctable input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrBelowMinimumQuantity) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrAwaitingNothing)
}

// IsNotFound reports whether err refers to a missing product, variant or order.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsConflict reports whether err is a state-machine rejection.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrTerminalStatus) ||
		errors.Is(err, ErrInvalidTransition)
}
