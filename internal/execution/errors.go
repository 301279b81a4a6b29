package execution

import (
	"errors"
	"fmt"
)

// ValidationCode identifies why an intent was rejected before reaching
// the network.
type ValidationCode string

const (
	CodeInvalidSymbol    ValidationCode = "INVALID_SYMBOL"
	CodeInvalidSide      ValidationCode = "INVALID_SIDE"
	CodeInvalidOrderType ValidationCode = "INVALID_ORDER_TYPE"
	CodeInvalidQuantity  ValidationCode = "INVALID_QUANTITY"
	CodeInvalidPrice     ValidationCode = "INVALID_PRICE"
	CodeInvalidStopPrice ValidationCode = "INVALID_STOP_PRICE"
	CodePrecision        ValidationCode = "PRECISION_ERROR"
)

// ValidationError reports malformed operator input. It is always resolved
// locally; a validation failure never produces a gateway call.
type ValidationError struct {
	Code   ValidationCode
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Reason)
}

func invalid(code ValidationCode, field, reason string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Reason: reason}
}

var (
	// ErrInvalidCancelState is returned when cancel is requested for an
	// order that is not in a cancelable status.
	ErrInvalidCancelState = errors.New("order is not in a cancelable state")

	// ErrInvalidStateTransition is returned when a refresh would move an
	// order out of a terminal status. The registry entry is left unchanged.
	ErrInvalidStateTransition = errors.New("invalid order state transition")
)
