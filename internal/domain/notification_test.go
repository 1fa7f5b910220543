package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsValidKind(t *testing.T) {
	t.Run("valid kinds", func(t *testing.T) {
		valid := []string{KindInfo, KindWarning, KindError, KindSuccess}
		for _, v := range valid {
			require.True(t, IsValidKind(v), "expected valid kind: %s", v)
		}
	})

	t.Run("invalid kinds", func(t *testing.T) {
		invalid := []string{"", "infoo", "system", "Error", " warning"}
		for _, v := range invalid {
			require.False(t, IsValidKind(v), "expected invalid kind: %s", v)
		}
	})
}

func TestNormalizeKind(t *testing.T) {
	cases := map[string]string{
		"":          KindInfo,
		"error":     KindError,
		" Warning ": KindWarning,
		"SUCCESS":   KindSuccess,
		"fatal":     KindInfo,
		"info":      KindInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeKind(in), "input %q", in)
	}
}

func TestDismissDelay(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		d, err := DismissDelay(1500)
		require.NoError(t, err)
		require.Equal(t, 1500*time.Millisecond, d)

		d, err = DismissDelay(0)
		require.NoError(t, err)
		require.Zero(t, d)

		d, err = DismissDelay(MaxDismissAfterMS)
		require.NoError(t, err)
		require.Positive(t, d)
	})

	t.Run("out of range", func(t *testing.T) {
		for _, ms := range []int64{-1, MaxDismissAfterMS + 1, 9223372036855, 18446744073710} {
			_, err := DismissDelay(ms)
			require.ErrorIs(t, err, ErrInvalidDismissDelay, "ms %d", ms)
		}
	})
}
