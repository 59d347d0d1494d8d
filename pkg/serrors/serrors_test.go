package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"backlinks/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrSchema,
		serrors.ErrBadRequest,
		serrors.ErrInternal,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
		serrors.ErrRateLimited,
		serrors.ErrQuotaExhausted,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("unexpected EOF")

	e1 := serrors.With(serrors.ErrSchema, "column %q missing", "url")
	require.Equal(t, `column "url" missing`, e1.Error())

	e2 := serrors.Wrap(serrors.ErrBadRequest, base, "reading csv")
	require.Equal(t, "reading csv: unexpected EOF", e2.Error())

	e3 := &serrors.Error{}
	require.Equal(t, "unknown error", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrRateLimited, base, "calling provider")

	require.ErrorIs(t, e, serrors.ErrRateLimited)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrQuotaExhausted)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrSchema, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrSchema, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", serrors.With(serrors.ErrQuotaExhausted, "insufficient_quota"))
	require.Equal(t, serrors.ErrQuotaExhausted, serrors.KindOf(err))
	require.Nil(t, serrors.KindOf(errors.New("plain")))
}

func TestRetryable(t *testing.T) {
	require.True(t, serrors.Retryable(serrors.With(serrors.ErrRateLimited, "slow down")))
	require.True(t, serrors.Retryable(serrors.With(serrors.ErrUnavailable, "502")))
	require.True(t, serrors.Retryable(serrors.With(serrors.ErrTimeout, "deadline")))
	require.False(t, serrors.Retryable(serrors.With(serrors.ErrQuotaExhausted, "quota")))
	require.False(t, serrors.Retryable(errors.New("boom")))
}
