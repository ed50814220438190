package oauth2

import "strings"

// ResponseType selects which OAuth 2.0 flow a provider is configured for.
// It decides whether the authorization endpoint is involved at all, and what
// the callback URL carries back.
type ResponseType string

const (
	// CodeResponseType is the authorization code flow.
	// The callback query string carries a short-lived code that must be
	// exchanged server-to-server for a token.
	CodeResponseType ResponseType = "code"

	// TokenResponseType is the implicit flow.
	// The token is returned directly in the callback URL fragment; no
	// server-to-server exchange takes place and no client secret is used.
	TokenResponseType ResponseType = "token"

	// ClientCredentialsResponseType is machine-to-machine authentication.
	// No user interaction and no authorization endpoint; the token endpoint
	// is called directly with the client credentials.
	ClientCredentialsResponseType ResponseType = "client-credentials"

	// PasswordResponseType is the resource-owner-password flow.
	// The user's credentials are sent directly to the token endpoint.
	PasswordResponseType ResponseType = "password"
)

// Interactive reports whether the flow requires presenting an authorization
// URL to the user and waiting for a callback.
func (rt ResponseType) Interactive() bool {
	return rt == CodeResponseType || rt == TokenResponseType
}

// TokenType is the type of an issued access token. Bearer is the only
// supported type; providers that omit the field are treated as Bearer.
type TokenType string

const (
	// BearerTokenType is used in "Authorization: Bearer <token>" headers.
	BearerTokenType TokenType = "Bearer"

	// UnknownTokenType means the provider omitted token_type. Treated as
	// Bearer when attaching headers, since Bearer is the only supported type.
	UnknownTokenType TokenType = ""
)

// ParseTokenType maps a provider's token_type value. Matching is
// case-insensitive ("bearer" and "Bearer" are both common in the wild).
// Anything else is returned verbatim and reported unsupported.
func ParseTokenType(s string) TokenType {
	if s == "" {
		return UnknownTokenType
	}
	if strings.EqualFold(s, "bearer") {
		return BearerTokenType
	}
	return TokenType(s)
}

// Supported reports whether tokens of this type can be attached to requests.
func (tt TokenType) Supported() bool {
	return tt == BearerTokenType || tt == UnknownTokenType
}
