package provider

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/presenter"
	"github.com/jrsteele09/go-oauth-client/token"
)

// Authorize runs the provider's flow to completion and returns the issued
// token, which is also written to the token store.
//
// Code and implicit flows hand the authorize URL to the presenter and block
// until the provider's callback arrives or the user cancels. The
// client-credentials flow exchanges immediately with no user interaction.
// Only one attempt may be in flight per Provider; overlapping calls fail
// with already_authorizing.
func (p *Provider) Authorize(ctx context.Context) (*token.Token, error) {
	release, err := p.beginAttempt()
	if err != nil {
		return nil, err
	}
	defer release()

	switch p.responseType {
	case oauth2.ClientCredentialsResponseType:
		return p.exchangeAndStore(ctx, oauth2.ClientCredentialsGrant{}, p.state)
	case oauth2.PasswordResponseType:
		return nil, oauth2.NewError(oauth2.ErrCodeInvalidRequest, "password flow requires AuthorizeWithCredentials")
	}

	return p.authorizeInteractive(ctx)
}

// AuthorizeWithCredentials performs the resource-owner-password grant with
// the user's credentials. Available on client-credentials and password
// providers, which share the token-endpoint-plus-secret shape.
func (p *Provider) AuthorizeWithCredentials(ctx context.Context, username, password string) (*token.Token, error) {
	release, err := p.beginAttempt()
	if err != nil {
		return nil, err
	}
	defer release()

	if p.responseType.Interactive() {
		return nil, oauth2.NewError(oauth2.ErrCodeInvalidRequest, "password grant requires a token endpoint provider")
	}
	return p.exchangeAndStore(ctx, oauth2.PasswordGrant{Username: username, Password: password}, p.state)
}

func (p *Provider) authorizeInteractive(ctx context.Context) (*token.Token, error) {
	state := p.state
	if state == "" {
		state = uuid.NewString()
	}

	authURL, err := p.authorizeRequestURL(state)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("client_id", p.clientID).
		Str("response_type", string(p.responseType)).
		Msg("starting authorization")

	// Callbacks whose state does not echo this attempt's state are rejected
	// and the presenter keeps waiting; a forged or stale callback must never
	// complete the attempt.
	callback, err := p.present.Visit(ctx, authURL, func(callback *url.URL) bool {
		return p.callbackValues(callback).Get("state") == state
	})
	if err != nil {
		if errors.Is(err, presenter.ErrCancelled) {
			p.logger.Debug().Str("client_id", p.clientID).Msg("authorization cancelled")
			return nil, oauth2.NewError(oauth2.ErrCodeCancel, "user cancelled authorization")
		}
		return nil, oauth2.Transport(err)
	}

	return p.handleCallback(ctx, callback, state)
}

// handleCallback turns an accepted callback URL into a token. Implicit flow
// parses the token straight out of the fragment; code flow exchanges the code
// at the token endpoint.
func (p *Provider) handleCallback(ctx context.Context, callback *url.URL, state string) (*token.Token, error) {
	values := p.callbackValues(callback)

	if p.responseType == oauth2.TokenResponseType {
		payload := valuesToPayload(values)
		tok := token.FromPayload(payload)
		if tok == nil {
			return nil, oauth2.Classify(payload)
		}
		if err := p.saveToken(ctx, tok); err != nil {
			return nil, err
		}
		return tok, nil
	}

	code := values.Get("code")
	if code == "" {
		return nil, oauth2.Classify(valuesToPayload(values))
	}
	return p.exchangeAndStore(ctx, oauth2.AuthorizationCodeGrant{Code: code}, state)
}

// RefreshToken exchanges the stored token's refresh credential for a
// replacement, which is stored verbatim: whatever refresh token the response
// supplies is what is kept. A failed refresh leaves the stored token in
// place so a later retry still has the refresh credential.
func (p *Provider) RefreshToken(ctx context.Context) (*token.Token, error) {
	if p.tokenURL == "" {
		return nil, oauth2.NewError(oauth2.ErrCodeInvalidRequest, "provider has no token endpoint")
	}

	stored, err := p.Token(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.Refreshable() {
		return nil, oauth2.NewError(oauth2.ErrCodeInvalidRequest, "no refresh token available")
	}

	tok, err := p.exchangeAndStore(ctx, oauth2.RefreshTokenGrant{RefreshToken: stored.RefreshToken}, p.state)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().Str("client_id", p.clientID).Msg("token refreshed")
	return tok, nil
}

func (p *Provider) exchangeAndStore(ctx context.Context, grant oauth2.Grant, state string) (*token.Token, error) {
	if p.tokenURL == "" {
		return nil, oauth2.NewError(oauth2.ErrCodeInvalidRequest, "provider has no token endpoint")
	}

	tok, err := p.exchanger.Exchange(ctx, p.tokenURL, grant, p.tokenRequestParams(state), p.exchangeParams)
	if err != nil {
		return nil, err
	}
	if err := p.saveToken(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// tokenRequestParams are the provider-wide parameters merged under the
// grant's own on every token request.
func (p *Provider) tokenRequestParams(state string) map[string]string {
	params := map[string]string{"client_id": p.clientID}
	if p.clientSecret != "" {
		params["client_secret"] = p.clientSecret
	}
	if p.redirectURL != "" {
		params["redirect_uri"] = p.redirectURL
	}
	if state != "" {
		params["state"] = state
	}
	return params
}

// authorizeRequestURL builds the URL the user is sent to, preserving any
// query parameters baked into the configured authorize endpoint.
func (p *Provider) authorizeRequestURL(state string) (string, error) {
	authorizeURL, err := url.Parse(p.authorizeURL)
	if err != nil {
		return "", errors.Wrap(err, "[Provider.authorizeRequestURL] parse authorize URL")
	}

	query := authorizeURL.Query()
	query.Set("client_id", p.clientID)
	query.Set("response_type", string(p.responseType))
	query.Set("state", state)
	if p.redirectURL != "" {
		query.Set("redirect_uri", p.redirectURL)
	}
	if len(p.scopes) > 0 {
		query.Set("scope", strings.Join(p.scopes, " "))
	}
	for k, v := range p.authorizeParams {
		query.Set(k, v)
	}

	authorizeURL.RawQuery = query.Encode()
	return authorizeURL.String(), nil
}

// callbackValues extracts the provider's response parameters from a callback
// URL: the query string for the code flow, the fragment for the implicit
// flow.
func (p *Provider) callbackValues(callback *url.URL) url.Values {
	if p.responseType == oauth2.TokenResponseType {
		values, err := url.ParseQuery(callback.Fragment)
		if err != nil {
			return url.Values{}
		}
		return values
	}
	return callback.Query()
}

func valuesToPayload(values url.Values) map[string]any {
	payload := make(map[string]any, len(values))
	for key := range values {
		payload[key] = values.Get(key)
	}
	return payload
}
