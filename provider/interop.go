package provider

import (
	"context"
	"time"

	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/token"
)

// OAuth2Config converts the provider's configuration into a
// golang.org/x/oauth2 Config, for callers that want to hand the flow to that
// package instead.
func (p *Provider) OAuth2Config() *xoauth2.Config {
	return &xoauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		RedirectURL:  p.redirectURL,
		Scopes:       append([]string(nil), p.scopes...),
		Endpoint: xoauth2.Endpoint{
			AuthURL:  p.authorizeURL,
			TokenURL: p.tokenURL,
		},
	}
}

// ToOAuth2Token converts a token into its golang.org/x/oauth2 shape. Returns
// nil for a nil token.
func ToOAuth2Token(t *token.Token) *xoauth2.Token {
	if t == nil {
		return nil
	}
	return &xoauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    string(t.Type),
		Expiry:       t.ExpiresAt,
	}
}

// FromOAuth2Token converts a golang.org/x/oauth2 token into this module's
// shape. Returns nil for a nil or empty token.
func FromOAuth2Token(t *xoauth2.Token) *token.Token {
	if t == nil || t.AccessToken == "" {
		return nil
	}
	return &token.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Type:         oauth2.ParseTokenType(t.TokenType),
		IssuedAt:     time.Now().UTC(),
		ExpiresAt:    t.Expiry,
	}
}

// TokenSource adapts the provider to golang.org/x/oauth2's TokenSource
// contract: each Token call returns the stored token, refreshing it first
// when expired.
func (p *Provider) TokenSource(ctx context.Context) xoauth2.TokenSource {
	return &tokenSource{ctx: ctx, provider: p}
}

type tokenSource struct {
	ctx      context.Context
	provider *Provider
}

func (s *tokenSource) Token() (*xoauth2.Token, error) {
	stored, err := s.provider.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, oauth2.NewError(oauth2.ErrCodeInvalidAccessToken, "no token stored; call Authorize first")
	}
	if stored.IsValid() {
		return ToOAuth2Token(stored), nil
	}

	refreshed, err := s.provider.RefreshToken(s.ctx)
	if err != nil {
		return nil, err
	}
	return ToOAuth2Token(refreshed), nil
}
