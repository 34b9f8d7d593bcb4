package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrAlreadyExists   = errors.New("order already exists")
	ErrPaymentRequired = errors.New("payment required")
	ErrAlreadyPaid     = errors.New("order already paid")
)

// ValidationError is returned when an order cannot be created from the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IgnoreReason explains why a payment confirmation changed nothing.
type IgnoreReason string

const (
	ReasonUnknownOrder    IgnoreReason = "unknown_order"
	ReasonAlreadyPaid     IgnoreReason = "already_paid"
	ReasonSessionMismatch IgnoreReason = "session_mismatch"
)

// ConfirmationIgnored is not a failure: the webhook caller should still get a 2xx.
type ConfirmationIgnored struct {
	OrderID string
	Reason  IgnoreReason
}

func (e *ConfirmationIgnored) Error() string {
	return fmt.Sprintf("confirmation for order %q ignored: %s", e.OrderID, e.Reason)
}

// IsIgnored reports whether err is (or wraps) a ConfirmationIgnored.
func IsIgnored(err error) bool {
	var ig *ConfirmationIgnored
	return errors.As(err, &ig)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
