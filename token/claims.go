package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrNotJWT is returned by Claims when the access token is an opaque string
// rather than a JWT.
var ErrNotJWT = errors.New("access token is not a JWT")

// Claims decodes the claims of a JWT-shaped access token without verifying
// the signature. Providers that issue JWT access tokens embed useful
// diagnostics (issuer, subject, expiry) that callers may want to inspect;
// signature verification remains the resource server's job.
func (t *Token) Claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.AccessToken, claims); err != nil {
		return nil, errors.Wrap(ErrNotJWT, err.Error())
	}
	return claims, nil
}
