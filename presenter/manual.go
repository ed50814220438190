package presenter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var _ URLPresenter = (*Manual)(nil)

// Manual presents the authorization URL on a writer and reads the pasted
// callback URL from a reader. Useful on headless machines where no browser
// or local listener is available.
type Manual struct {
	in  io.Reader
	out io.Writer
}

// NewManual creates a copy-and-paste presenter, typically over os.Stdin and
// os.Stderr.
func NewManual(in io.Reader, out io.Writer) *Manual {
	return &Manual{in: in, out: out}
}

// Visit prints authURL and reads lines until one parses as an accepted
// callback URL. EOF or ctx expiry resolves as cancellation.
func (m *Manual) Visit(ctx context.Context, authURL string, accept func(callback *url.URL) bool) (*url.URL, error) {
	fmt.Fprintf(m.out, "Open the following URL in a browser:\n\n  %s\n\nPaste the full redirect URL here: ", authURL)

	type lineResult struct {
		callback *url.URL
		err      error
	}
	resultCh := make(chan lineResult, 1)

	go func() {
		scanner := bufio.NewScanner(m.in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			callback, err := url.Parse(line)
			if err != nil {
				fmt.Fprint(m.out, "Not a valid URL, try again: ")
				continue
			}
			if !accept(callback) {
				fmt.Fprint(m.out, "That URL does not match the pending authorization, try again: ")
				continue
			}
			resultCh <- lineResult{callback: callback}
			return
		}
		if err := scanner.Err(); err != nil {
			resultCh <- lineResult{err: errors.Wrap(err, "[Manual.Visit] read")}
			return
		}
		resultCh <- lineResult{err: ErrCancelled}
	}()

	select {
	case result := <-resultCh:
		return result.callback, result.err
	case <-ctx.Done():
		return nil, ErrCancelled
	}
}
