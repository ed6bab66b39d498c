package sqlite

import (
	"context"
	"testing"

	"github.com/productrhq/productr/internal/client/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestEntriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, store.KeyAuthToken)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, store.KeyAuthToken, "tok-123"))

		got, err := s.Get(ctx, store.KeyAuthToken)
		require.NoError(t, err)
		require.Equal(t, "tok-123", got)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, store.KeyAuthToken, "tok-456"))

		got, err := s.Get(ctx, store.KeyAuthToken)
		require.NoError(t, err)
		require.Equal(t, "tok-456", got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, store.KeyAuthToken))

		_, err := s.Get(ctx, store.KeyAuthToken)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete missing key is a no-op", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "never.existed"))
	})
}

func TestMigrationsIdempotent(t *testing.T) {
	s := newTestStore(t)

	// Re-applying on an up-to-date database must be a no-op.
	require.NoError(t, s.ApplyMigrations())
}
