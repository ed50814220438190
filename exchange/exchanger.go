// Package exchange performs the network round-trip for a token grant: one
// POST with form-encoded parameters, a JSON body back, and a Token or a
// classified error out. Retry and backoff are caller concerns.
package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/token"
)

const defaultTimeout = 30 * time.Second

// Exchanger turns a grant into a token against a provider's token endpoint.
type Exchanger struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures an Exchanger.
type Option func(*Exchanger)

// WithHTTPClient replaces the default HTTP client. Use this for custom TLS
// settings or transports.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Exchanger) {
		e.httpClient = client
	}
}

// WithLogger enables debug logging of exchange attempts. Token material is
// never logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exchanger) {
		e.logger = logger
	}
}

// New creates an Exchanger with a 30 second request timeout unless a custom
// HTTP client is supplied.
func New(options ...Option) *Exchanger {
	e := &Exchanger{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Exchange posts the grant to tokenURL and parses the result. Parameters are
// merged in increasing precedence: providerParams, the grant's own params,
// then additionalParams, so caller-supplied values win on key collision.
//
// The HTTP status code is deliberately not consulted: some providers return
// error bodies with 200 (GitHub) and others with 4xx; the body shape decides.
func (e *Exchanger) Exchange(ctx context.Context, tokenURL string, grant oauth2.Grant, providerParams, additionalParams map[string]string) (*token.Token, error) {
	form := url.Values{}
	for k, v := range providerParams {
		form.Set(k, v)
	}
	for k, v := range grant.Params() {
		form.Set(k, v)
	}
	for k, v := range additionalParams {
		form.Set(k, v)
	}

	e.logger.Debug().
		Str("token_url", tokenURL).
		Str("grant_type", form.Get("grant_type")).
		Msg("exchanging grant for token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, oauth2.Transport(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Debug().Err(err).Str("token_url", tokenURL).Msg("token request failed")
		return nil, oauth2.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, oauth2.Transport(err)
	}
	if len(body) == 0 {
		return nil, oauth2.NewError(oauth2.ErrCodeNoData, "provider returned an empty response body")
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, oauth2.NewError(oauth2.ErrCodeDeserialization, "response body is not a JSON object")
	}

	tok := token.FromPayload(payload)
	if tok == nil {
		// Parseable but not a token: assume an error response.
		oe := oauth2.Classify(payload)
		e.logger.Debug().
			Str("code", string(oe.Code)).
			Int("status", resp.StatusCode).
			Msg("provider reported an error")
		return nil, oe
	}

	e.logger.Debug().
		Str("grant_type", form.Get("grant_type")).
		Time("expires_at", tok.ExpiresAt).
		Msg("token issued")

	return tok, nil
}
