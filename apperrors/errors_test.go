package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	insufficient := &InsufficientStockError{ProductName: "Mouse", Requested: 3, Available: 1}

	require.Equal(t, http.StatusNotFound, Status(ErrNotFound))
	require.Equal(t, http.StatusNotFound, Status(fmt.Errorf("%w: product 7", ErrNotFound)))
	require.Equal(t, http.StatusBadRequest, Status(ErrInvalidArgument))
	require.Equal(t, http.StatusBadRequest, Status(ErrEmptyCart))
	require.Equal(t, http.StatusBadRequest, Status(ErrNoOp))
	require.Equal(t, http.StatusBadRequest, Status(insufficient))
	require.Equal(t, http.StatusForbidden, Status(ErrForbidden))
	require.Equal(t, http.StatusInternalServerError, Status(errors.New("connection refused")))
}

func TestInsufficientStockNamesProduct(t *testing.T) {
	err := &InsufficientStockError{ProductName: "Monitor", Requested: 10, Available: 5}
	require.Contains(t, err.Error(), "Monitor")
	require.True(t, IsInsufficientStock(err))
	require.True(t, IsInsufficientStock(fmt.Errorf("place order: %w", err)))
	require.False(t, IsInsufficientStock(ErrEmptyCart))
}
