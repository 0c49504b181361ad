// file: internal/services/errors_test.go
package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  *ServiceError
		code int
	}{
		{NewValidationError("bad input", nil), http.StatusBadRequest},
		{NewNotFoundError("gone"), http.StatusNotFound},
		{NewUnauthorizedError("who are you"), http.StatusUnauthorized},
		{NewForbiddenError("not yours"), http.StatusForbidden},
		{NewConflictError("already there", "DUP"), http.StatusConflict},
		{NewRateLimitError("slow down", nil), http.StatusTooManyRequests},
		{NewInternalError("boom"), http.StatusInternalServerError},
		{NewServiceUnavailableError("later"), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.GetStatusCode(), "type %s", tc.err.Type)
	}
}

func TestGetServiceErrorPassthrough(t *testing.T) {
	original := NewNotFoundError("user not found")
	assert.Same(t, original, GetServiceError(original))
}

func TestGetServiceErrorWrapsUnknown(t *testing.T) {
	wrapped := GetServiceError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", wrapped.Type)
	assert.Equal(t, http.StatusInternalServerError, wrapped.GetStatusCode())
}

func TestGetServiceErrorUnwrapsDetailedValidation(t *testing.T) {
	detailed := NewDetailedValidationError("bad input", []FieldError{{Field: "email"}})

	extracted := GetServiceError(detailed)
	assert.Equal(t, "VALIDATION_ERROR", extracted.Type)
	assert.Equal(t, http.StatusBadRequest, extracted.GetStatusCode())
}

func TestRequestValidationErrorCarriesFields(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}
	cause := validator.New().Struct(form{Email: "not-an-email", Password: "abc"})
	require.Error(t, cause)

	err := NewRequestValidationError("invalid registration request", cause)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Fields, 2)
	assert.Equal(t, "email", valErr.Fields[0].Field)
	assert.Equal(t, "email", valErr.Fields[0].Code)
	assert.Equal(t, "password", valErr.Fields[1].Field)
	assert.Equal(t, "min", valErr.Fields[1].Code)
	assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())
}

func TestRequestValidationErrorFallsBack(t *testing.T) {
	cause := errors.New("truncated body")
	err := NewRequestValidationError("invalid request", cause)

	var valErr *ValidationError
	assert.False(t, errors.As(err, &valErr))
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorCause(t *testing.T) {
	cause := errors.New("field too long")
	err := NewValidationError("bad input", cause)

	assert.ErrorIs(t, err, cause)
}
