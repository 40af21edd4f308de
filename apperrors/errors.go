// Package apperrors defines the error kinds shared by the cart, order and
// product controllers, and their mapping onto HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoOp            = errors.New("order already has this status")
	ErrForbidden       = errors.New("forbidden")
)

// InsufficientStockError always names the offending product so clients can
// tell which line of a cart or order was rejected.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested %d, available %d)",
		e.ProductName, e.Requested, e.Available)
}

func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// Status maps an error to the HTTP status the handlers return. Anything
// outside the taxonomy is an opaque infrastructure failure.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrNoOp),
		IsInsufficientStock(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
