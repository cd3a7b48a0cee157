package types

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationInvalidJSON, http.StatusBadRequest},
		{ErrCodeValidationIndicatorRange, http.StatusBadRequest},
		{ErrCodeValidationHistoryLimit, http.StatusBadRequest},
		{ErrCodeNotFoundAssessment, http.StatusNotFound},
		{ErrCodeInternalDB, http.StatusInternalServerError},
		{ErrCodeInternalScoring, http.StatusInternalServerError},
		{ErrorCode("something_else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestAppErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewAppError(ErrCodeInternalDB, "failed to save assessment", cause)

	assert.Equal(t, "internal_database_error: failed to save assessment", appErr.Error())
	assert.True(t, errors.Is(appErr, cause))

	var unwrapped *AppError
	assert.True(t, errors.As(error(appErr), &unwrapped))
	assert.Equal(t, ErrCodeInternalDB, unwrapped.Code)
}
