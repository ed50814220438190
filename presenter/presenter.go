// Package presenter abstracts how an authorization URL is put in front of a
// user. The contract is deliberately small: visit a URL, then either resolve
// with the callback URL the provider redirected to, or resolve with a
// cancellation. Protocol logic stays out of the presentation layer entirely.
package presenter

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// ErrCancelled is returned when the user abandoned the authorization step
// without completing it.
var ErrCancelled = errors.New("authorization cancelled")

// URLPresenter presents an authorization URL and waits for the provider's
// redirect to come back.
//
// The accept predicate decides whether a delivered callback belongs to the
// pending authorization attempt (the orchestrator checks the anti-CSRF state
// there). A rejected callback is dropped and the presenter keeps waiting:
// unsolicited or forged callbacks must never complete an attempt.
type URLPresenter interface {
	Visit(ctx context.Context, authURL string, accept func(callback *url.URL) bool) (*url.URL, error)
}
