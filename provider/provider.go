// Package provider implements the authorization orchestrator: it drives a
// grant flow end to end, stores the resulting token, and authenticates
// outgoing requests, refreshing the token when it can.
package provider

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-oauth-client/exchange"
	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/presenter"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/jrsteele09/go-oauth-client/tokenstore"
)

var (
	ErrMissingClientID     = errors.New("client id is required")
	ErrMissingClientSecret = errors.New("client secret is required")
	ErrMissingAuthorizeURL = errors.New("authorize URL is required")
	ErrMissingTokenURL     = errors.New("token URL is required")
	ErrMissingPresenter    = errors.New("interactive flows require a URL presenter")
)

// Provider is an OAuth 2.0 authorization server as seen by this client:
// endpoints, client identity, and the flow type that decides how a token is
// obtained. Configuration is fixed at construction.
type Provider struct {
	clientID     string
	clientSecret string
	authorizeURL string
	tokenURL     string
	redirectURL  string
	responseType oauth2.ResponseType
	scopes       []string
	state        string

	authorizeParams map[string]string
	exchangeParams  map[string]string

	store     tokenstore.Store
	present   presenter.URLPresenter
	exchanger *exchange.Exchanger
	logger    zerolog.Logger

	mutex       sync.Mutex
	authorizing bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithRedirectURL sets the redirect URI registered with the provider. It is
// sent on both the authorize and token requests.
func WithRedirectURL(redirectURL string) Option {
	return func(p *Provider) {
		p.redirectURL = redirectURL
	}
}

// WithScopes sets the scopes requested during authorization.
func WithScopes(scopes ...string) Option {
	return func(p *Provider) {
		p.scopes = scopes
	}
}

// WithState pins the anti-CSRF state value. When unset, a fresh random state
// is generated for every authorization attempt.
func WithState(state string) Option {
	return func(p *Provider) {
		p.state = state
	}
}

// WithAuthorizeParams adds extra parameters to the authorize request. They
// take precedence over the provider's own on key collision.
func WithAuthorizeParams(params map[string]string) Option {
	return func(p *Provider) {
		p.authorizeParams = params
	}
}

// WithExchangeParams adds extra parameters to every token request. They take
// precedence over the provider's and the grant's own on key collision.
func WithExchangeParams(params map[string]string) Option {
	return func(p *Provider) {
		p.exchangeParams = params
	}
}

// WithStore replaces the default in-memory token store.
func WithStore(store tokenstore.Store) Option {
	return func(p *Provider) {
		p.store = store
	}
}

// WithPresenter sets how authorization URLs are put in front of the user.
// Required for the code and implicit flows.
func WithPresenter(present presenter.URLPresenter) Option {
	return func(p *Provider) {
		p.present = present
	}
}

// WithExchanger replaces the default token exchanger.
func WithExchanger(exchanger *exchange.Exchanger) Option {
	return func(p *Provider) {
		p.exchanger = exchanger
	}
}

// WithLogger enables debug logging. Token material is never logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewAuthorizationCode creates a provider for the authorization-code flow.
// The callback carries a short-lived code that is exchanged server-side for
// the token, so both endpoints and the client secret are required.
func NewAuthorizationCode(clientID, clientSecret, authorizeURL, tokenURL string, options ...Option) (*Provider, error) {
	p := newProvider(clientID, oauth2.CodeResponseType, options)
	p.clientSecret = clientSecret
	p.authorizeURL = authorizeURL
	p.tokenURL = tokenURL

	switch {
	case clientID == "":
		return nil, ErrMissingClientID
	case clientSecret == "":
		return nil, ErrMissingClientSecret
	case authorizeURL == "":
		return nil, ErrMissingAuthorizeURL
	case tokenURL == "":
		return nil, ErrMissingTokenURL
	case p.present == nil:
		return nil, ErrMissingPresenter
	}
	return p, nil
}

// NewImplicit creates a provider for the implicit flow. The token comes back
// in the callback URL fragment, with no server-side exchange, so there is no
// client secret and no token endpoint.
func NewImplicit(clientID, authorizeURL string, options ...Option) (*Provider, error) {
	p := newProvider(clientID, oauth2.TokenResponseType, options)
	p.authorizeURL = authorizeURL

	switch {
	case clientID == "":
		return nil, ErrMissingClientID
	case authorizeURL == "":
		return nil, ErrMissingAuthorizeURL
	case p.present == nil:
		return nil, ErrMissingPresenter
	}
	return p, nil
}

// NewClientCredentials creates a provider for machine-to-machine flows. No
// user interaction takes place; Authorize exchanges the client credentials
// directly. AuthorizeWithCredentials switches the same provider to the
// resource-owner-password grant.
func NewClientCredentials(clientID, clientSecret, tokenURL string, options ...Option) (*Provider, error) {
	p := newProvider(clientID, oauth2.ClientCredentialsResponseType, options)
	p.clientSecret = clientSecret
	p.tokenURL = tokenURL

	switch {
	case clientID == "":
		return nil, ErrMissingClientID
	case clientSecret == "":
		return nil, ErrMissingClientSecret
	case tokenURL == "":
		return nil, ErrMissingTokenURL
	}
	return p, nil
}

// NewPassword creates a provider for the resource-owner-password flow. Only
// AuthorizeWithCredentials can start it.
func NewPassword(clientID, clientSecret, tokenURL string, options ...Option) (*Provider, error) {
	p, err := NewClientCredentials(clientID, clientSecret, tokenURL, options...)
	if err != nil {
		return nil, err
	}
	p.responseType = oauth2.PasswordResponseType
	return p, nil
}

func newProvider(clientID string, responseType oauth2.ResponseType, options []Option) *Provider {
	p := &Provider{
		clientID:     clientID,
		responseType: responseType,
		store:        tokenstore.NewMemory(),
		exchanger:    exchange.New(),
		logger:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// ClientID returns the configured client identifier.
func (p *Provider) ClientID() string { return p.clientID }

// ResponseType returns the flow this provider is configured for.
func (p *Provider) ResponseType() oauth2.ResponseType { return p.responseType }

// Token returns the stored token for this provider, or nil when none is
// stored.
func (p *Provider) Token(ctx context.Context) (*token.Token, error) {
	tok, err := p.store.Token(ctx, p.storeKey())
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.Token] read store")
	}
	return tok, nil
}

// Logout clears the stored token.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.store.SetToken(ctx, p.storeKey(), nil); err != nil {
		return errors.Wrap(err, "[Provider.Logout] clear store")
	}
	p.logger.Debug().Str("client_id", p.clientID).Msg("stored token cleared")
	return nil
}

// storeKey is the provider's identity in the token store. Two providers with
// distinct client ids never alias.
func (p *Provider) storeKey() string {
	return p.clientID
}

func (p *Provider) saveToken(ctx context.Context, tok *token.Token) error {
	if err := p.store.SetToken(ctx, p.storeKey(), tok); err != nil {
		return errors.Wrap(err, "[Provider.saveToken] write store")
	}
	return nil
}

// beginAttempt marks an authorization attempt in progress. Exactly one may
// run at a time; a second caller gets already_authorizing instead of silently
// displacing the first.
func (p *Provider) beginAttempt() (func(), error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.authorizing {
		return nil, oauth2.NewError(oauth2.ErrCodeAlreadyAuthorizing, "an authorization attempt is already in progress")
	}
	p.authorizing = true
	return func() {
		p.mutex.Lock()
		p.authorizing = false
		p.mutex.Unlock()
	}, nil
}
