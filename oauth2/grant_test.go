package oauth2_test

import (
	"testing"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/stretchr/testify/require"
)

func TestGrantParams(t *testing.T) {
	t.Run("authorization code", func(t *testing.T) {
		params := oauth2.AuthorizationCodeGrant{Code: "abc123"}.Params()
		require.Equal(t, map[string]string{
			"grant_type": "authorization_code",
			"code":       "abc123",
		}, params)
	})

	t.Run("refresh token", func(t *testing.T) {
		params := oauth2.RefreshTokenGrant{RefreshToken: "rt-1"}.Params()
		require.Equal(t, map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": "rt-1",
		}, params)
	})

	t.Run("client credentials", func(t *testing.T) {
		params := oauth2.ClientCredentialsGrant{}.Params()
		require.Equal(t, map[string]string{
			"grant_type": "client_credentials",
		}, params)
	})

	t.Run("password", func(t *testing.T) {
		params := oauth2.PasswordGrant{Username: "user@example.com", Password: "hunter2"}.Params()
		require.Equal(t, map[string]string{
			"grant_type": "password",
			"username":   "user@example.com",
			"password":   "hunter2",
		}, params)
	})
}

func TestParseTokenType(t *testing.T) {
	require.Equal(t, oauth2.BearerTokenType, oauth2.ParseTokenType("bearer"))
	require.Equal(t, oauth2.BearerTokenType, oauth2.ParseTokenType("Bearer"))
	require.Equal(t, oauth2.UnknownTokenType, oauth2.ParseTokenType(""))
	require.Equal(t, oauth2.TokenType("mac"), oauth2.ParseTokenType("mac"))

	require.True(t, oauth2.BearerTokenType.Supported())
	require.True(t, oauth2.UnknownTokenType.Supported())
	require.False(t, oauth2.TokenType("mac").Supported())
}

func TestResponseTypeInteractive(t *testing.T) {
	require.True(t, oauth2.CodeResponseType.Interactive())
	require.True(t, oauth2.TokenResponseType.Interactive())
	require.False(t, oauth2.ClientCredentialsResponseType.Interactive())
	require.False(t, oauth2.PasswordResponseType.Interactive())
}
