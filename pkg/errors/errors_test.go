package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("without cause", func(t *testing.T) {
		t.Parallel()

		err := NewNotFoundError("provider unknown not registered", nil)
		assert.Equal(t, "not_found: provider unknown not registered", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("sql: no rows in result set")
		err := NewInternalError("failed to load credential", cause)
		assert.Equal(t, "internal: failed to load credential: sql: no rows in result set", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		want      bool
	}{
		{"bad request matches", NewBadRequestError("missing state", nil), IsBadRequest, true},
		{"not found matches", NewNotFoundError("no such credential", nil), IsNotFound, true},
		{"missing credentials matches", NewMissingCredentialsError("client id is blank", nil), IsMissingCredentials, true},
		{"auth failed matches", NewAuthFailedError("consent revoked", nil), IsAuthFailed, true},
		{"internal matches", NewInternalError("store unavailable", nil), IsInternal, true},
		{"mismatched type", NewBadRequestError("missing state", nil), IsNotFound, false},
		{"plain error", errors.New("plain"), IsBadRequest, false},
		{"nil error", nil, IsInternal, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.predicate(tt.err))
		})
	}
}

func TestPredicatesUnwrapWrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("handling callback: %w", NewNotFoundError("credential cred-1 not found", nil))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsBadRequest(wrapped))
}
