package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelhub/tournament-core/auth"
	"github.com/padelhub/tournament-core/models"
)

func newTestStore(t *testing.T) *auth.OperatorStore {
	t.Helper()
	store, err := auth.NewOperatorStore(
		"operator@padelhub.local", "correct-password",
		uuid.New(), uuid.New(), uuid.New(),
		models.RoleAdmin, []byte("test-secret"),
	)
	require.NoError(t, err)
	return store
}

func TestLogin_ValidCredentialsReturnsToken(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Login(context.Background(), "operator@padelhub.local", "correct-password")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Login(context.Background(), "operator@padelhub.local", "wrong-password")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Login(context.Background(), "someone-else@padelhub.local", "correct-password")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
