package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "book not found", err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("add favourite: %w", ErrAlreadyFavorited)

	assert.True(t, errors.Is(err, ErrAlreadyFavorited))
	assert.Equal(t, CodeAlreadyFavorited, CodeOf(err))
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := StorageFailure("save books", cause)

	assert.True(t, errors.Is(err, ErrStorageFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "save books: disk full", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeDuplicateEmail, http.StatusBadRequest},
		{CodeAlreadyFavorited, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeStorageFailure, http.StatusInternalServerError},
		{CodeNotInitialized, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
