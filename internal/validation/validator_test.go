package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=0,lte=5"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid struct passes", func(t *testing.T) {
		err := v.Validate(signup{Name: "Ann", Email: "ann@example.com", Age: 3})
		assert.NoError(t, err)
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := v.Validate(signup{Email: "not-an-email", Age: 9})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))

		var appErr *apperrors.Error
		require.True(t, errors.As(err, &appErr))
		details, ok := appErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "is required", details["name"])
		assert.Equal(t, "must be a valid email address", details["email"])
		assert.Equal(t, "must be less than or equal to 5", details["age"])
	})
}

func TestValidator_Var(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("rating", 5, "gte=0,lte=5"))

	err := v.Var("rating", 6, "gte=0,lte=5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "rating")
}
