package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nf, ok := err.(*NotFoundError); ok {
		return nf, true
	}
	return nil, false
}

// InsufficientStockError reports a stock check or decrement that could not be
// satisfied, carrying the quantity still available.
type InsufficientStockError struct {
	ProductID   int
	ProductName string
	Size        string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for %s size %s: requested %d, available %d",
		name, e.Size, e.Requested, e.Available)
}

func NewInsufficientStockError(productID int, size string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Size:      size,
		Requested: requested,
		Available: available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	if is, ok := err.(*InsufficientStockError); ok {
		return is, true
	}
	return nil, false
}

// SizeUnavailableError reports a cart line naming a size the product does
// not carry at all, as opposed to one that is merely out of stock.
type SizeUnavailableError struct {
	ProductID   int
	ProductName string
	Size        string
	Field       string
}

func (e *SizeUnavailableError) Error() string {
	return fmt.Sprintf("size %q is not available for %q", e.Size, e.ProductName)
}

func NewSizeUnavailableError(productID int, productName, size, field string) *SizeUnavailableError {
	return &SizeUnavailableError{
		ProductID:   productID,
		ProductName: productName,
		Size:        size,
		Field:       field,
	}
}

func IsSizeUnavailableError(err error) (*SizeUnavailableError, bool) {
	if su, ok := err.(*SizeUnavailableError); ok {
		return su, true
	}
	return nil, false
}

// InvalidTransitionError reports a status change outside the allowed graph.
// The order is left untouched when this is returned.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	if it, ok := err.(*InvalidTransitionError); ok {
		return it, true
	}
	return nil, false
}

// InvalidSignatureError reports a payment payload whose signature did not
// verify against the shared secret.
type InvalidSignatureError struct {
	Gateway string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("%s: payment signature verification failed", e.Gateway)
}

func NewInvalidSignatureError(gateway string) *InvalidSignatureError {
	return &InvalidSignatureError{Gateway: gateway}
}

func IsInvalidSignatureError(err error) (*InvalidSignatureError, bool) {
	if is, ok := err.(*InvalidSignatureError); ok {
		return is, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	if fe, ok := err.(*ForbiddenError); ok {
		return fe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	if de, ok := err.(*DeadlockError); ok {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
