package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openmol/chemvault/internal/database/testutil"
	"github.com/openmol/chemvault/internal/models"
)

func newTestSessionService(t *testing.T, clock func() time.Time) (*SessionService, *models.User) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	jwtSvc, err := NewJWTService(JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	svc, err := NewSessionService(db, jwtSvc, SessionConfig{Clock: clock})
	require.NoError(t, err)

	return svc, &user
}

func TestSessionLifecycle(t *testing.T) {
	svc, user := newTestSessionService(t, nil)

	pair, session, err := svc.CreateSession(user.ID, SessionMetadata{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	rotated, _, err := svc.RefreshSession(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The original token is gone after rotation.
	_, _, err = svc.RefreshSession(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.RevokeSession(session.ID))

	_, _, err = svc.RefreshSession(rotated.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)
}

func TestRefreshSessionExpired(t *testing.T) {
	current := time.Now()
	svc, user := newTestSessionService(t, func() time.Time { return current })

	pair, _, err := svc.CreateSession(user.ID, SessionMetadata{})
	require.NoError(t, err)

	current = current.Add(DefaultRefreshTokenTTL + time.Hour)

	_, _, err = svc.RefreshSession(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestPurgeExpired(t *testing.T) {
	current := time.Now()
	svc, user := newTestSessionService(t, func() time.Time { return current })

	_, _, err := svc.CreateSession(user.ID, SessionMetadata{})
	require.NoError(t, err)

	purged, err := svc.PurgeExpired(current.Add(DefaultRefreshTokenTTL + time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
}
