package presenter

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultCallbackPath = "/oauth/callback"
	readHeaderTimeout   = 10 * time.Second
)

// fragmentForwardHTML turns an implicit-flow fragment into something the
// local server can see: fragments are never sent over the wire, so the page
// re-requests the callback path with the fragment contents appended.
const fragmentForwardHTML = `<!DOCTYPE html>
<html><body><script>
  location.replace(location.pathname + "/received?" + location.hash.substring(1));
</script></body></html>`

const callbackDoneHTML = `<!DOCTYPE html>
<html><body><p>Authorization complete. You may close this window.</p></body></html>`

var _ URLPresenter = (*Loopback)(nil)

// Loopback presents the authorization URL in the system browser and receives
// the provider's redirect on a local HTTP listener. The provider must be
// registered with a redirect URI pointing at this listener
// (e.g. http://127.0.0.1:8910/oauth/callback).
type Loopback struct {
	addr        string
	path        string
	openBrowser func(url string) error
	logger      zerolog.Logger
}

// LoopbackOption configures a Loopback presenter.
type LoopbackOption func(*Loopback)

// WithBrowserOpener replaces how the authorization URL is opened. The
// default launches the platform browser; tests inject their own.
func WithBrowserOpener(open func(url string) error) LoopbackOption {
	return func(l *Loopback) {
		l.openBrowser = open
	}
}

// WithCallbackPath sets the path the provider redirects to. Defaults to
// /oauth/callback.
func WithCallbackPath(path string) LoopbackOption {
	return func(l *Loopback) {
		l.path = path
	}
}

// WithLoopbackLogger enables debug logging.
func WithLoopbackLogger(logger zerolog.Logger) LoopbackOption {
	return func(l *Loopback) {
		l.logger = logger
	}
}

// NewLoopback creates a presenter listening on addr, which must match the
// host and port of the provider's registered redirect URI.
func NewLoopback(addr string, options ...LoopbackOption) *Loopback {
	l := &Loopback{
		addr:        addr,
		path:        defaultCallbackPath,
		openBrowser: openSystemBrowser,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Visit opens authURL in the browser and blocks until an accepted callback
// arrives or ctx is done. Rejected callbacks (accept returned false) are
// answered with 403 and the listener keeps waiting.
func (l *Loopback) Visit(ctx context.Context, authURL string, accept func(callback *url.URL) bool) (*url.URL, error) {
	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return nil, errors.Wrap(err, "[Loopback.Visit] listen")
	}

	resultCh := make(chan *url.URL, 1)

	router := chi.NewRouter()
	router.Get(l.path, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery == "" {
			// Possibly an implicit-flow redirect carrying a fragment;
			// ask the browser to resend it where we can see it.
			writeHTML(w, fragmentForwardHTML)
			return
		}
		l.deliver(w, r.URL, accept, resultCh)
	})
	router.Get(l.path+"/received", func(w http.ResponseWriter, r *http.Request) {
		// Reconstruct the fragment the forwarder page flattened into the
		// query string.
		callback := &url.URL{
			Scheme:   "http",
			Host:     r.Host,
			Path:     l.path,
			Fragment: r.URL.RawQuery,
		}
		l.deliver(w, callback, accept, resultCh)
	})

	server := &http.Server{Handler: router, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	l.logger.Debug().Str("addr", listener.Addr().String()).Msg("waiting for authorization callback")

	if err := l.openBrowser(authURL); err != nil {
		return nil, errors.Wrap(err, "[Loopback.Visit] open browser")
	}

	select {
	case callback := <-resultCh:
		return callback, nil
	case <-ctx.Done():
		return nil, ErrCancelled
	}
}

func (l *Loopback) deliver(w http.ResponseWriter, callback *url.URL, accept func(*url.URL) bool, resultCh chan *url.URL) {
	if !accept(callback) {
		// Not ours: unsolicited, forged, or stale. Keep waiting.
		l.logger.Debug().Msg("ignoring unaccepted callback")
		http.Error(w, "Unrecognized authorization response.", http.StatusForbidden)
		return
	}

	writeHTML(w, callbackDoneHTML)
	select {
	case resultCh <- callback:
	default:
	}
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = fmt.Fprint(w, body)
}

// openSystemBrowser launches the platform's default browser without waiting
// for it to exit.
func openSystemBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return errors.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
