package token

import (
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-oauth-client/oauth2"
)

// Token is the access credential issued by a provider, plus the optional
// refresh credential and metadata. It is constructed once, by FromPayload,
// with every derived field fixed at construction; a refresh produces a new
// Token rather than mutating the old one.
type Token struct {
	// AccessToken is the bearer credential. Always present; construction
	// fails without it.
	AccessToken string `json:"access_token"`

	// RefreshToken obtains a replacement token when the access token
	// expires (optional).
	RefreshToken string `json:"refresh_token,omitempty"`

	// Type is the parsed token_type. Bearer is the only supported type.
	Type oauth2.TokenType `json:"token_type,omitempty"`

	// Scopes are the granted scopes, split from the space-separated wire
	// form. Nil when the provider returned none.
	Scopes []string `json:"scopes,omitempty"`

	// IssuedAt anchors expiry math. Taken from the payload's created_at
	// epoch when present, else the construction time.
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is IssuedAt plus the payload's expires_in. Zero means the
	// token never expires.
	ExpiresAt time.Time `json:"expires_at,omitempty"`

	// Raw is the payload the token was built from, kept for diagnostics and
	// for fields this type does not model.
	Raw map[string]any `json:"raw,omitempty"`
}

// FromPayload builds a Token from a provider response payload. It returns nil
// when the payload is not a token: access_token absent or not a string. Every
// other field is optional and defaults conservatively (no expires_in means the
// token never expires, no scope means unscoped, no token_type is treated as
// Bearer).
func FromPayload(payload map[string]any) *Token {
	return fromPayloadAt(payload, time.Now())
}

func fromPayloadAt(payload map[string]any, now time.Time) *Token {
	accessToken, ok := payload["access_token"].(string)
	if !ok || accessToken == "" {
		return nil
	}

	t := &Token{
		AccessToken: accessToken,
		IssuedAt:    now.UTC(),
		Raw:         payload,
	}

	if refresh, ok := payload["refresh_token"].(string); ok {
		t.RefreshToken = refresh
	}
	if typ, ok := payload["token_type"].(string); ok {
		t.Type = oauth2.ParseTokenType(typ)
	}
	if scope, ok := payload["scope"].(string); ok {
		t.Scopes = splitScopes(scope)
	}
	if createdAt, ok := numberField(payload, "created_at"); ok {
		t.IssuedAt = time.Unix(int64(createdAt), 0).UTC()
	}
	if expiresIn, ok := numberField(payload, "expires_in"); ok {
		t.ExpiresAt = t.IssuedAt.Add(time.Duration(expiresIn * float64(time.Second)))
	}

	return t
}

// ExpiredAt reports whether the token is expired at the given instant.
// A token without expires_in never expires.
func (t *Token) ExpiredAt(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return now.After(t.ExpiresAt)
}

// IsExpired reports whether the token is expired now.
func (t *Token) IsExpired() bool {
	return t.ExpiredAt(time.Now())
}

// IsValid reports whether the token can still authenticate requests.
func (t *Token) IsValid() bool {
	return !t.IsExpired()
}

// Refreshable reports whether the token carries a refresh credential.
func (t *Token) Refreshable() bool {
	return t.RefreshToken != ""
}

// AuthorizationHeader returns the value for an Authorization header.
// Unknown token types are rendered as Bearer, the only supported type.
func (t *Token) AuthorizationHeader() string {
	return "Bearer " + t.AccessToken
}

func splitScopes(scope string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// numberField reads a numeric payload field tolerantly: JSON decoding yields
// float64, but providers have been seen returning integers as strings.
func numberField(payload map[string]any, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
