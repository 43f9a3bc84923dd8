package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), CodeValidationFailed, http.StatusBadRequest},
		{NewNotFound("session", nil), CodeNotFound, http.StatusNotFound},
		{NewUnauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{NewConflict("dup", nil), CodeConflict, http.StatusConflict},
		{NewAlreadyEnrolled(nil), CodeAlreadyEnrolled, http.StatusConflict},
		{NewSessionFull(nil), CodeSessionFull, http.StatusConflict},
		{NewDuplicateReview(nil), CodeDuplicateReview, http.StatusConflict},
		{NewNotEligible("not yet", nil), CodeNotEligible, http.StatusUnprocessableEntity},
		{NewStorageUnavailable(errors.New("down")), CodeStorageUnavailable, http.StatusServiceUnavailable},
		{NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
			assert.NotEmpty(t, de.Message)
			assert.True(t, Is(tc.err, tc.code))
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFound("session", map[string]any{"session_id": "s1"})
	assert.Equal(t, "session not found", err.Error())
	assert.Equal(t, "s1", ToDomainError(err).Details["session_id"])
}

func TestWrappedErrorsKeepCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("enroll: %w", NewStorageUnavailable(cause))

	assert.True(t, Is(err, CodeStorageUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "refused")
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(errors.New("plain"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.False(t, Is(errors.New("plain"), CodeNotFound))
}
