package groups

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage/sqldb"
)

var (
	creator = models.Actor{ID: "creator", DisplayName: "Creator"}
	friend  = models.Actor{ID: "friend", DisplayName: "Friend"}
)

func newTestStore(t *testing.T) *sqldb.Store {
	t.Helper()
	store, err := sqldb.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "groups.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// sequence returns the given codes in order, then repeats the last one.
func sequence(codes ...string) CodeGenerator {
	i := 0
	return CodeGeneratorFunc(func() (string, error) {
		code := codes[min(i, len(codes)-1)]
		i++
		return code, nil
	})
}

func TestRegistry_CreateAndJoin(t *testing.T) {
	r := NewRegistry(newTestStore(t), sequence("abc123"))
	ctx := context.Background()

	group, err := r.Create(ctx, creator, "  Roommates ")
	require.NoError(t, err)
	require.Equal(t, "Roommates", group.Name)
	require.Equal(t, "ABC123", group.GroupCode)
	require.Equal(t, []string{"creator"}, group.Members)

	joined, err := r.JoinByCode(ctx, friend, " abc123")
	require.NoError(t, err)
	require.Equal(t, group.ID, joined.ID)
	require.Equal(t, []string{"creator", "friend"}, joined.Members)

	again, err := r.JoinByCode(ctx, friend, "ABC123")
	require.NoError(t, err)
	require.Equal(t, []string{"creator", "friend"}, again.Members)

	groups, err := r.ListForUser(ctx, friend)
	require.NoError(t, err)
	require.Len(t, groups, 1)
}

func TestRegistry_CodeCollisionRetries(t *testing.T) {
	r := NewRegistry(newTestStore(t), sequence("AAAAAA", "AAAAAA", "BBBBBB"))
	ctx := context.Background()

	first, err := r.Create(ctx, creator, "First")
	require.NoError(t, err)
	require.Equal(t, "AAAAAA", first.GroupCode)

	second, err := r.Create(ctx, creator, "Second")
	require.NoError(t, err)
	require.Equal(t, "BBBBBB", second.GroupCode)

	// Every further attempt collides with BBBBBB.
	_, err = r.Create(ctx, creator, "Third")
	require.ErrorIs(t, err, ErrCodeExhausted)
}

func TestRegistry_GeneratorError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	r := NewRegistry(newTestStore(t), CodeGeneratorFunc(func() (string, error) { return "", boom }))

	_, err := r.Create(context.Background(), creator, "Group")
	require.ErrorIs(t, err, boom)
}

func TestRegistry_Validation(t *testing.T) {
	r := NewRegistry(newTestStore(t), nil)
	ctx := context.Background()

	_, err := r.Create(ctx, creator, "   ")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = r.JoinByCode(ctx, friend, "short")
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = r.JoinByCode(ctx, friend, "ZZZZZZ")
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = r.Get(ctx, friend, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_GetAndDelete(t *testing.T) {
	store := newTestStore(t)
	r := NewRegistry(store, nil)
	ctx := context.Background()

	group, err := r.Create(ctx, creator, "Trip")
	require.NoError(t, err)
	require.True(t, validCode(group.GroupCode))

	_, err = r.Get(ctx, friend, group.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = r.JoinByCode(ctx, friend, group.GroupCode)
	require.NoError(t, err)

	got, err := r.Get(ctx, friend, group.ID)
	require.NoError(t, err)
	require.True(t, got.IsMember("friend"))

	require.ErrorIs(t, r.Delete(ctx, friend, group.ID), ErrForbidden)
	require.NoError(t, r.Delete(ctx, creator, group.ID))
	require.ErrorIs(t, r.Delete(ctx, creator, group.ID), ErrNotFound)

	groups, err := r.ListForUser(ctx, friend)
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestRandomCodes(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		code, err := RandomCodes{}.Generate()
		require.NoError(t, err)
		require.True(t, validCode(code), "code %q", code)
		seen[code] = true
	}
	require.Greater(t, len(seen), 1)
}
