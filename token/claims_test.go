package token_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/stretchr/testify/require"
)

func TestClaims(t *testing.T) {
	t.Run("JWT access token", func(t *testing.T) {
		jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": "https://issuer.example.com",
			"sub": "user-1",
		})
		signed, err := jwtToken.SignedString([]byte("test-key"))
		require.NoError(t, err)

		tok := token.FromPayload(map[string]any{"access_token": signed})
		claims, err := tok.Claims()
		require.NoError(t, err)
		require.Equal(t, "https://issuer.example.com", claims["iss"])
		require.Equal(t, "user-1", claims["sub"])
	})

	t.Run("opaque access token", func(t *testing.T) {
		tok := token.FromPayload(map[string]any{"access_token": "gho_opaque"})
		_, err := tok.Claims()
		require.ErrorIs(t, err, token.ErrNotJWT)
	})
}
