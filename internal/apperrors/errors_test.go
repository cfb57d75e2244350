package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		err          error
		expectedKind Kind
	}{
		{MissingField("m"), KindMissingField},
		{InvalidRange("m"), KindInvalidRange},
		{NotFound("m"), KindNotFound},
		{Forbidden("m"), KindForbidden},
		{Conflict("m"), KindConflict},
		{Internal(errors.New("boom"), "m"), KindInternal},
		{errors.New("plain"), KindInternal},
		{fmt.Errorf("wrapped: %w", Conflict("m")), KindConflict},
	}
	for _, tt := range testCases {
		assert.Equal(t, tt.expectedKind, KindOf(tt.err))
	}
}

func TestEnsure(t *testing.T) {
	conflict := Conflict("taken")
	assert.Equal(t, conflict, Ensure(conflict, "ignored"))

	wrapped := Ensure(errors.New("boom"), "store failed")
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.Equal(t, "store failed", wrapped.Error())
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "store unavailable")
	assert.True(t, errors.Is(err, cause))
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		kind           Kind
		expectedStatus int
	}{
		{KindMissingField, http.StatusBadRequest},
		{KindInvalidRange, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range testCases {
		assert.Equal(t, tt.expectedStatus, HTTPStatus(tt.kind))
	}
}
