// Package presenterfake provides a scripted URLPresenter for tests.
package presenterfake

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-oauth-client/presenter"
)

var _ presenter.URLPresenter = (*Presenter)(nil)

// Presenter replays a scripted list of callback URLs instead of involving a
// user. Each Visit walks the script in order, handing every URL to the
// accept predicate; the first accepted URL resolves the attempt. Rejected
// URLs are recorded so tests can assert they were dropped.
type Presenter struct {
	// CallbackURLs are delivered in order on each Visit.
	CallbackURLs []string
	// Err, when set, fails Visit immediately.
	Err error
	// HangWhenExhausted blocks until ctx is done instead of cancelling once
	// the script runs out. Simulates a user who never completes the flow.
	HangWhenExhausted bool

	mutex    sync.Mutex
	visited  []string
	rejected []*url.URL
}

// Visit records authURL, then replays the script.
func (p *Presenter) Visit(ctx context.Context, authURL string, accept func(callback *url.URL) bool) (*url.URL, error) {
	p.mutex.Lock()
	p.visited = append(p.visited, authURL)
	p.mutex.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	for _, raw := range p.CallbackURLs {
		callback, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		if accept(callback) {
			return callback, nil
		}
		p.mutex.Lock()
		p.rejected = append(p.rejected, callback)
		p.mutex.Unlock()
	}

	if p.HangWhenExhausted {
		<-ctx.Done()
	}
	return nil, presenter.ErrCancelled
}

// Visited returns the authorization URLs handed to Visit, in order.
func (p *Presenter) Visited() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]string(nil), p.visited...)
}

// Rejected returns the callbacks the accept predicate dropped.
func (p *Presenter) Rejected() []*url.URL {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]*url.URL(nil), p.rejected...)
}
