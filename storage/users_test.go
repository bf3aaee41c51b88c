package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/domain"
)

func newUserFixture(t *testing.T, content string) *UserStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewUserStore(path)
}

func TestUserCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := newUserFixture(t, "[]")

	alice, err := s.Create(ctx, domain.User{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, 1, alice.ID)

	bob, err := s.Create(ctx, domain.User{Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, 2, bob.ID)
}

func TestUserGet(t *testing.T) {
	ctx := context.Background()
	s := newUserFixture(t, `[{"id":1,"name":"Alice"}]`)

	u, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = s.Get(ctx, 7)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestUserUpdateKeepsNameWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := newUserFixture(t, `[{"id":1,"name":"Alice"}]`)

	u, err := s.Update(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	u, err = s.Update(ctx, 1, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
}

func TestUserUpdateUnknownID(t *testing.T) {
	s := newUserFixture(t, "[]")
	_, err := s.Update(context.Background(), 4, "x")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestUserDeleteIsFilterBased(t *testing.T) {
	ctx := context.Background()
	s := newUserFixture(t, `[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]`)

	require.NoError(t, s.Delete(ctx, 1))
	require.NoError(t, s.Delete(ctx, 99))

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
}
