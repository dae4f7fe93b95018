package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage/sqldb"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqldb.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newAuthenticator(t)

	user, err := a.Register(ctx, "Alice@Example.com", "Alice Smith", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "alicesmith", user.Username)

	byEmail, err := a.Authenticate(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	byUsername, err := a.Authenticate(ctx, "AliceSmith", "correct horse")
	require.NoError(t, err)
	require.Equal(t, user.ID, byUsername.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()
	a := newAuthenticator(t)

	_, err := a.Register(ctx, "bob@example.com", "Bob", "short")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = a.Register(ctx, "", "Bob", "long enough")
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = a.Register(ctx, "bob@example.com", "Bob", "long enough")
	require.NoError(t, err)

	_, err = a.Register(ctx, "BOB@example.com", "Robert", "long enough")
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "u1", Email: "u1@example.com", DisplayName: "User One"}
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, models.Actor{ID: "u1", DisplayName: "User One"}, claims.Actor())

	_, err = NewJWTManager("other-secret", time.Hour).Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", time.Hour)
	m.now = func() time.Time { return now }

	token, err := m.Generate(&models.User{ID: "u1"})
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
