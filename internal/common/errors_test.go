package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := ErrNotFound.WithDetails("Product not found.")

	assert.Equal(t, "Product not found.", detailed.Details)
	assert.Nil(t, ErrNotFound.Details)
	assert.NotSame(t, ErrNotFound, detailed)
}

func TestAPIError_IsMatchesCopies(t *testing.T) {
	wrapped := fmt.Errorf("loading product: %w", ErrNotFound.WithDetails("gone"))

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrConflict))

	apiErr, ok := IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestAPIError_AuthBodiesCarryOnlySuccessAndMessage(t *testing.T) {
	cases := map[*APIError]string{
		ErrAccessTokenRequired: `{"success":false,"message":"Access token required"}`,
		ErrInvalidToken:        `{"success":false,"message":"Invalid or expired token"}`,
		ErrOrganizationOnly:    `{"success":false,"message":"Access denied. Only organizations can perform this action."}`,
	}
	for apiErr, want := range cases {
		body, err := json.Marshal(apiErr)
		require.NoError(t, err)
		assert.JSONEq(t, want, string(body))
	}
}

func TestBindingError(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}
	err := validator.New().Struct(payload{Email: "nope"})
	require.Error(t, err)

	apiErr := BindingError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	details, ok := apiErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details["Email"], "valid email")
	assert.Contains(t, details["Name"], "required")

	plain := BindingError(errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, plain.StatusCode)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
