package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/stretchr/testify/require"
)

func TestFromPayload(t *testing.T) {
	t.Run("minimal token", func(t *testing.T) {
		tok := token.FromPayload(map[string]any{"access_token": "accessToken"})

		require.NotNil(t, tok)
		require.Equal(t, "accessToken", tok.AccessToken)
		require.Empty(t, tok.RefreshToken)
		require.Nil(t, tok.Scopes)
		require.True(t, tok.ExpiresAt.IsZero())
		require.False(t, tok.IssuedAt.IsZero(), "issuedAt defaults to construction time")
	})

	t.Run("full token", func(t *testing.T) {
		tok := token.FromPayload(map[string]any{
			"access_token":  "accessToken",
			"refresh_token": "refreshToken",
			"token_type":    "bearer",
			"scope":         "first second",
			"created_at":    float64(1_700_000_000),
			"expires_in":    float64(3600),
		})

		require.NotNil(t, tok)
		require.Equal(t, "refreshToken", tok.RefreshToken)
		require.Equal(t, oauth2.BearerTokenType, tok.Type)
		require.Equal(t, []string{"first", "second"}, tok.Scopes)
		require.Equal(t, time.Unix(1_700_000_000, 0).UTC(), tok.IssuedAt)
		require.Equal(t, tok.IssuedAt.Add(time.Hour), tok.ExpiresAt)
		require.True(t, tok.Refreshable())
	})

	t.Run("missing access_token yields nil", func(t *testing.T) {
		require.Nil(t, token.FromPayload(map[string]any{"token_type": "bearer"}))
		require.Nil(t, token.FromPayload(map[string]any{"access_token": 42}))
		require.Nil(t, token.FromPayload(map[string]any{"access_token": ""}))
		require.Nil(t, token.FromPayload(map[string]any{}))
	})

	t.Run("raw payload is retained", func(t *testing.T) {
		payload := map[string]any{"access_token": "T", "custom_field": "kept"}
		tok := token.FromPayload(payload)
		require.Equal(t, payload, tok.Raw)
	})

	t.Run("numeric fields sent as strings", func(t *testing.T) {
		tok := token.FromPayload(map[string]any{
			"access_token": "T",
			"created_at":   "1700000000",
			"expires_in":   "60",
		})
		require.Equal(t, time.Unix(1_700_000_000, 0).UTC(), tok.IssuedAt)
		require.Equal(t, tok.IssuedAt.Add(time.Minute), tok.ExpiresAt)
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Run("no expires_in never expires", func(t *testing.T) {
		tok := token.FromPayload(map[string]any{"access_token": "T"})

		require.False(t, tok.ExpiredAt(time.Now().Add(100*365*24*time.Hour)))
		require.True(t, tok.IsValid())
	})

	t.Run("negative expires_in is expired immediately", func(t *testing.T) {
		tok := token.FromPayload(map[string]any{
			"access_token": "T",
			"created_at":   float64(time.Now().Add(-time.Hour).Unix()),
			"expires_in":   float64(-10),
		})

		require.True(t, tok.IsExpired())
		require.False(t, tok.IsValid())
	})

	t.Run("expires after its lifetime", func(t *testing.T) {
		issued := time.Unix(1_700_000_000, 0)
		tok := token.FromPayload(map[string]any{
			"access_token": "T",
			"created_at":   float64(issued.Unix()),
			"expires_in":   float64(30),
		})

		require.False(t, tok.ExpiredAt(issued.Add(29*time.Second)))
		require.True(t, tok.ExpiredAt(issued.Add(31*time.Second)))
	})
}

func TestAuthorizationHeader(t *testing.T) {
	tok := token.FromPayload(map[string]any{"access_token": "T"})
	require.Equal(t, "Bearer T", tok.AuthorizationHeader())

	// Unknown type is rendered as Bearer, the only supported type.
	tok = token.FromPayload(map[string]any{"access_token": "T", "token_type": "BEARER"})
	require.Equal(t, oauth2.BearerTokenType, tok.Type)
	require.Equal(t, "Bearer T", tok.AuthorizationHeader())
}
