package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ExecCode classifies a gateway failure.
type ExecCode string

const (
	ExecInsufficientBalance ExecCode = "INSUFFICIENT_BALANCE"
	ExecInvalidSymbol       ExecCode = "INVALID_SYMBOL_ON_EXCHANGE"
	ExecRateLimited         ExecCode = "RATE_LIMITED"
	ExecNetworkError        ExecCode = "NETWORK_ERROR"
	ExecUnknown             ExecCode = "UNKNOWN"
)

// ErrOrderNotFound is returned when the exchange itself reports an order id
// as unrecognized.
var ErrOrderNotFound = errors.New("order not found on exchange")

// ExecutionError wraps a gateway or network failure with its classification.
// Exchange-specific error codes are mapped by the gateway implementation;
// unrecognized codes map to ExecUnknown rather than raising a fault.
type ExecutionError struct {
	Code ExecCode
	Op   string // gateway method, e.g. "createOrder"
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// NewExecutionError builds a classified execution error.
func NewExecutionError(code ExecCode, op string, err error) *ExecutionError {
	return &ExecutionError{Code: code, Op: op, Err: err}
}

// Classify turns an arbitrary gateway error into an ExecutionError.
// Errors already classified by the gateway implementation pass through
// unchanged. Timeouts and transport faults become ExecNetworkError;
// everything else becomes ExecUnknown.
func Classify(op string, err error) *ExecutionError {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewExecutionError(ExecNetworkError, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewExecutionError(ExecNetworkError, op, err)
	}

	return NewExecutionError(ExecUnknown, op, err)
}
