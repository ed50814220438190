package provider_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/provider"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/jrsteele09/go-oauth-client/tokenstore"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/me", nil)
	require.NoError(t, err)
	return req
}

func TestAuthenticateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token fails without network", func(t *testing.T) {
		endpoint := newTokenEndpoint(t, map[string]any{"access_token": "T"})
		p, err := provider.NewClientCredentials("client-1", "secret-1", endpoint.URL)
		require.NoError(t, err)

		err = p.AuthenticateRequest(ctx, newRequest(t))
		require.True(t, oauth2.IsCode(err, oauth2.ErrCodeInvalidAccessToken))
		require.Equal(t, 0, endpoint.callCount())
	})

	t.Run("valid token attaches header without network", func(t *testing.T) {
		endpoint := newTokenEndpoint(t, map[string]any{"access_token": "unused"})
		store := tokenstore.NewMemory()
		p, err := provider.NewClientCredentials("client-1", "secret-1", endpoint.URL,
			provider.WithStore(store),
		)
		require.NoError(t, err)

		valid := token.FromPayload(map[string]any{"access_token": "T", "token_type": "Bearer"})
		require.NoError(t, store.SetToken(ctx, p.ClientID(), valid))

		req := newRequest(t)
		require.NoError(t, p.AuthenticateRequest(ctx, req))
		require.Equal(t, "Bearer T", req.Header.Get("Authorization"))
		require.Equal(t, 0, endpoint.callCount())
	})

	t.Run("expired token refreshes once then attaches", func(t *testing.T) {
		endpoint := newTokenEndpoint(t, map[string]any{"access_token": "fresh", "token_type": "Bearer"})
		store := tokenstore.NewMemory()
		p, err := provider.NewClientCredentials("client-1", "secret-1", endpoint.URL,
			provider.WithStore(store),
		)
		require.NoError(t, err)

		expired := token.FromPayload(map[string]any{
			"access_token":  "stale",
			"refresh_token": "refresh-1",
			"expires_in":    float64(-10),
		})
		require.NoError(t, store.SetToken(ctx, p.ClientID(), expired))

		req := newRequest(t)
		require.NoError(t, p.AuthenticateRequest(ctx, req))
		require.Equal(t, "Bearer fresh", req.Header.Get("Authorization"))
		require.Equal(t, 1, endpoint.callCount())
		require.Equal(t, "refresh_token", endpoint.lastForm(t).Get("grant_type"))
	})

	t.Run("failed refresh surfaces the error and keeps the stored token", func(t *testing.T) {
		endpoint := newTokenEndpoint(t, map[string]any{
			"error":             "invalid_grant",
			"error_description": "refresh token revoked",
		})
		store := tokenstore.NewMemory()
		p, err := provider.NewClientCredentials("client-1", "secret-1", endpoint.URL,
			provider.WithStore(store),
		)
		require.NoError(t, err)

		expired := token.FromPayload(map[string]any{
			"access_token":  "stale",
			"refresh_token": "refresh-1",
			"expires_in":    float64(-10),
		})
		require.NoError(t, store.SetToken(ctx, p.ClientID(), expired))

		err = p.AuthenticateRequest(ctx, newRequest(t))
		require.True(t, oauth2.IsCode(err, oauth2.ErrCodeInvalidGrant))

		stored, err := p.Token(ctx)
		require.NoError(t, err)
		require.Equal(t, "stale", stored.AccessToken)
		require.Equal(t, "refresh-1", stored.RefreshToken)
	})

	t.Run("expired token without refresh credential fails", func(t *testing.T) {
		endpoint := newTokenEndpoint(t, map[string]any{"access_token": "T"})
		store := tokenstore.NewMemory()
		p, err := provider.NewClientCredentials("client-1", "secret-1", endpoint.URL,
			provider.WithStore(store),
		)
		require.NoError(t, err)

		expired := token.FromPayload(map[string]any{
			"access_token": "stale",
			"expires_in":   float64(-10),
		})
		require.NoError(t, store.SetToken(ctx, p.ClientID(), expired))

		err = p.AuthenticateRequest(ctx, newRequest(t))
		require.True(t, oauth2.IsCode(err, oauth2.ErrCodeInvalidRequest))
		require.Equal(t, 0, endpoint.callCount())
	})

	t.Run("unsupported token type fails without network", func(t *testing.T) {
		endpoint := newTokenEndpoint(t, map[string]any{"access_token": "T"})
		store := tokenstore.NewMemory()
		p, err := provider.NewClientCredentials("client-1", "secret-1", endpoint.URL,
			provider.WithStore(store),
		)
		require.NoError(t, err)

		mac := &token.Token{
			AccessToken: "T",
			Type:        oauth2.TokenType("mac"),
			IssuedAt:    time.Now().UTC(),
		}
		require.NoError(t, store.SetToken(ctx, p.ClientID(), mac))

		err = p.AuthenticateRequest(ctx, newRequest(t))
		require.True(t, oauth2.IsCode(err, oauth2.ErrCodeInvalidAccessToken))
		require.Equal(t, 0, endpoint.callCount())
	})
}
