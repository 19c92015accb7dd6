package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompoundShareIsActiveAt(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil expiration never lapses", func(t *testing.T) {
		share := CompoundShare{}
		require.True(t, share.IsActiveAt(now))
		require.True(t, share.IsActiveAt(now.Add(100*365*24*time.Hour)))
	})

	t.Run("active up to and including expiry", func(t *testing.T) {
		expiry := now.Add(time.Hour)
		share := CompoundShare{ExpiresAt: &expiry}

		require.True(t, share.IsActiveAt(now))
		require.True(t, share.IsActiveAt(expiry))
		require.False(t, share.IsActiveAt(expiry.Add(time.Nanosecond)))
	})

	t.Run("has expired mirrors is active", func(t *testing.T) {
		expiry := now.Add(-time.Minute)
		share := CompoundShare{ExpiresAt: &expiry}

		require.True(t, share.HasExpiredAt(now))
		require.False(t, share.IsActiveAt(now))
	})
}
