package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := ErrNotFound.WithInternal(inner)

	require.ErrorIs(t, wrapped, inner)
	require.Equal(t, ErrNotFound.Code, wrapped.Code)
	require.Equal(t, http.StatusNotFound, wrapped.StatusCode)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := FromError(ErrForbidden)
	require.Equal(t, "FORBIDDEN", appErr.Code)

	generic := FromError(errors.New("database exploded"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.Equal(t, http.StatusInternalServerError, generic.StatusCode)
}

func TestNewBadRequestMessage(t *testing.T) {
	err := NewBadRequest("grantee id is required")
	require.Equal(t, "BAD_REQUEST", err.Code)
	require.Equal(t, "grantee id is required", err.Message)
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
}
