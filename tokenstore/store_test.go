package tokenstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/jrsteele09/go-oauth-client/tokenstore"
)

func testToken(access string) *token.Token {
	return token.FromPayload(map[string]any{
		"access_token":  access,
		"refresh_token": "refresh-" + access,
		"token_type":    "bearer",
		"scope":         "repo user",
		"created_at":    float64(1_700_000_000),
		"expires_in":    float64(3600),
	})
}

// runStoreContract exercises the behavior every Store backend must share.
func runStoreContract(t *testing.T, store tokenstore.Store) {
	ctx := context.Background()

	t.Run("missing key returns nil, nil", func(t *testing.T) {
		tok, err := store.Token(ctx, "absent")
		require.NoError(t, err)
		require.Nil(t, tok)
	})

	t.Run("set then get round trips", func(t *testing.T) {
		want := testToken("A")
		require.NoError(t, store.SetToken(ctx, "provider-a", want))

		got, err := store.Token(ctx, "provider-a")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, want.AccessToken, got.AccessToken)
		require.Equal(t, want.RefreshToken, got.RefreshToken)
		require.Equal(t, want.Scopes, got.Scopes)
		require.True(t, want.IssuedAt.Equal(got.IssuedAt))
		require.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
	})

	t.Run("distinct keys never alias", func(t *testing.T) {
		require.NoError(t, store.SetToken(ctx, "provider-a", testToken("A")))
		require.NoError(t, store.SetToken(ctx, "provider-b", testToken("B")))

		got, err := store.Token(ctx, "provider-a")
		require.NoError(t, err)
		require.Equal(t, "A", got.AccessToken)

		got, err = store.Token(ctx, "provider-b")
		require.NoError(t, err)
		require.Equal(t, "B", got.AccessToken)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.SetToken(ctx, "provider-a", testToken("old")))
		require.NoError(t, store.SetToken(ctx, "provider-a", testToken("new")))

		got, err := store.Token(ctx, "provider-a")
		require.NoError(t, err)
		require.Equal(t, "new", got.AccessToken)
	})

	t.Run("nil clears", func(t *testing.T) {
		require.NoError(t, store.SetToken(ctx, "provider-a", testToken("A")))
		require.NoError(t, store.SetToken(ctx, "provider-a", nil))

		got, err := store.Token(ctx, "provider-a")
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, tokenstore.NewMemory())
}

func TestFileStore(t *testing.T) {
	key := make([]byte, tokenstore.KeySize)
	copy(key, "0123456789abcdef0123456789abcdef")

	store, err := tokenstore.NewFile(filepath.Join(t.TempDir(), "tokens.enc"), key)
	require.NoError(t, err)
	runStoreContract(t, store)

	t.Run("rejects short keys", func(t *testing.T) {
		_, err := tokenstore.NewFile(filepath.Join(t.TempDir(), "tokens.enc"), []byte("short"))
		require.ErrorIs(t, err, tokenstore.ErrBadKeySize)
	})

	t.Run("wrong key cannot read", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "tokens.enc")

		store, err := tokenstore.NewFile(path, key)
		require.NoError(t, err)
		require.NoError(t, store.SetToken(ctx, "provider-a", testToken("A")))

		otherKey := make([]byte, tokenstore.KeySize)
		copy(otherKey, "ffffffffffffffffffffffffffffffff")
		intruder, err := tokenstore.NewFile(path, otherKey)
		require.NoError(t, err)

		_, err = intruder.Token(ctx, "provider-a")
		require.Error(t, err)
	})
}

func TestSQLiteStore(t *testing.T) {
	store, err := tokenstore.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runStoreContract(t, store)
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{srv.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	store := tokenstore.NewRedis(client)
	t.Cleanup(store.Close)

	runStoreContract(t, store)
}

// The store must not lose a token's expiry anchor across a round trip, or
// refresh decisions would be made against the wrong clock.
func TestExpiryPreservedAcrossRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()

	tok := testToken("A")
	require.NoError(t, store.SetToken(ctx, "p", tok))

	got, err := store.Token(ctx, "p")
	require.NoError(t, err)
	require.True(t, got.ExpiredAt(tok.ExpiresAt.Add(time.Second)))
	require.False(t, got.ExpiredAt(tok.ExpiresAt.Add(-time.Second)))
}
