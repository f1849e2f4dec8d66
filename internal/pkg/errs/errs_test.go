package errs_test

import (
	"errors"
	"testing"

	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", int64(131))

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, int64(131), err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: order 131", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("container", int64(36), cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: container, ID is: 36 (cause: record not found)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("status", errors.New("unknown value"))

		assert.Equal(t, "value is invalid: status (cause: unknown value)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("formats bounds", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 91.0, -90.0, 90.0)

		assert.Equal(t, "value is invalid: 91 is lat, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("operator_id")

	assert.Equal(t, "value is required: operator_id", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestConflictAndStateErrors(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		err := errs.NewConflictError("container", int64(36), "already assigned")

		assert.Equal(t, "conflict: container 36: already assigned", err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("version conflict", func(t *testing.T) {
		err := errs.NewVersionConflictError("orders", int64(7), 3)

		assert.Equal(t, "version conflict: orders 7, expected version 3", err.Error())
		require.ErrorIs(t, err, errs.ErrVersionConflict)
	})

	t.Run("invalid state", func(t *testing.T) {
		err := errs.NewInvalidStateError("order", int64(7), "completed is terminal")

		assert.Equal(t, "invalid state: order 7: completed is terminal", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("unavailable keeps cause in chain", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := errs.NewUnavailableError("postgres", cause)

		require.ErrorIs(t, err, errs.ErrUnavailable)
		require.ErrorIs(t, err, cause)
	})
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{"not found", errs.NewObjectNotFoundError("order", 1), errs.KindNotFound},
		{"invalid", errs.NewValueIsInvalidError("x"), errs.KindInvalidInput},
		{"out of range", errs.NewValueIsOutOfRangeError("lat", 91, -90, 90), errs.KindInvalidInput},
		{"required", errs.NewValueIsRequiredError("x"), errs.KindInvalidInput},
		{"state", errs.NewInvalidStateError("order", 1, "terminal"), errs.KindInvalidState},
		{"conflict", errs.NewConflictError("container", 1, "taken"), errs.KindConflict},
		{"version", errs.NewVersionConflictError("orders", 1, 1), errs.KindConflict},
		{"unavailable", errs.NewUnavailableError("redis", nil), errs.KindUnavailable},
		{"wrapped", errors.Join(errors.New("ctx"), errs.NewConflictError("c", 1, "r")), errs.KindConflict},
		{"unknown", errors.New("boom"), errs.KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errs.Classify(tc.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, errs.IsRetryable(errs.NewVersionConflictError("containers", 1, 2)))
	assert.False(t, errs.IsRetryable(errs.NewConflictError("container", 1, "taken")))
	assert.False(t, errs.IsRetryable(errs.NewObjectNotFoundError("order", 1)))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, errs.IsTransient(errs.NewUnavailableError("postgres", errors.New("connection reset"))))
	assert.False(t, errs.IsTransient(errs.NewVersionConflictError("orders", 1, 1)))
	assert.False(t, errs.IsTransient(errors.New("boom")))
}
