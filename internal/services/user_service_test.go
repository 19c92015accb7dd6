package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openmol/chemvault/internal/database/testutil"
	apperrors "github.com/openmol/chemvault/pkg/errors"
)

func TestUserServiceRegister(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	svc, err := NewUserService(db)
	require.NoError(t, err)

	user, err := svc.Register(context.Background(), RegisterUserInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "correct horse battery staple", user.Password)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(context.Background(), RegisterUserInput{
			Username: "alice",
			Email:    "other@example.com",
			Password: "secret",
		})
		appErr := apperrors.FromError(err)
		require.Equal(t, apperrors.ErrBadRequest.Code, appErr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(context.Background(), RegisterUserInput{Username: "bob"})
		appErr := apperrors.FromError(err)
		require.Equal(t, apperrors.ErrBadRequest.Code, appErr.Code)
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterUserInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "s3cret-passphrase",
	})
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "carol", "s3cret-passphrase")
		require.NoError(t, err)
		require.Equal(t, "carol", user.Username)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "CAROL@example.com", "s3cret-passphrase")
		require.NoError(t, err)
		require.Equal(t, "carol", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "carol", "nope")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody", "whatever")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestUserServiceSearch(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	svc, err := NewUserService(db)
	require.NoError(t, err)

	dave, err := svc.Register(context.Background(), RegisterUserInput{
		Username: "dave", Email: "dave@example.com", Password: "secret",
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterUserInput{
		Username: "davina", Email: "davina@example.com", Password: "secret",
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterUserInput{
		Username: "erin", Email: "erin@example.com", Password: "secret",
	})
	require.NoError(t, err)

	t.Run("substring match excluding self", func(t *testing.T) {
		users, err := svc.Search(context.Background(), dave.ID, "DAV")
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "davina", users[0].Username)
	})

	t.Run("empty query matches nobody", func(t *testing.T) {
		users, err := svc.Search(context.Background(), dave.ID, "   ")
		require.NoError(t, err)
		require.Empty(t, users)
	})

	t.Run("email match", func(t *testing.T) {
		users, err := svc.Search(context.Background(), dave.ID, "erin@")
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "erin", users[0].Username)
	})
}
