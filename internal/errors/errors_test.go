package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid period")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid period", err.Message)
	assert.Nil(t, err.Cause)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid period")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("trend key not found")

	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
	assert.Contains(t, err.Error(), "not_found")
}

func TestUnavailableError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := UnavailableError("redis unreachable", cause)

	assert.Equal(t, TypeUnavailable, err.Type)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus())
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("store write failed")
	err := InternalError("failed to record snapshot", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "internal")
	assert.Contains(t, err.Error(), "store write failed")
}

func TestExternalError(t *testing.T) {
	err := ExternalError("upstream unavailable", nil)

	assert.Equal(t, TypeExternal, err.Type)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())
}

func TestWithContext(t *testing.T) {
	err := ValidationError("bad value").WithContext("field", "period").WithContext("value", "3d")

	assert.Equal(t, "period", err.Context["field"])
	assert.Equal(t, "3d", err.Context["value"])
}

func TestToResponse(t *testing.T) {
	err := NotFoundError("no such team").WithContext("team", "tier_9")
	resp := err.ToResponse()

	assert.Equal(t, "no such team", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "tier_9", resp.Context["team"])
}

func TestAsStructuredError_PassesThrough(t *testing.T) {
	original := ValidationError("already structured")
	converted := AsStructuredError(original)
	assert.Same(t, original, converted)
}

func TestAsStructuredError_WrapsPlainError(t *testing.T) {
	plain := errors.New("boom")
	converted := AsStructuredError(plain)

	require.NotNil(t, converted)
	assert.Equal(t, TypeInternal, converted.Type)
	assert.ErrorIs(t, converted, plain)
}

func TestAsStructuredError_Nil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}

func TestAsStructuredError_WrappedDeep(t *testing.T) {
	inner := NotFoundError("gone")
	wrapped := fmt.Errorf("handler: %w", inner)

	converted := AsStructuredError(wrapped)
	assert.Same(t, inner, converted)
}
