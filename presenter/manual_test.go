package presenter_test

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/presenter"
)

func TestManualAcceptsPastedCallback(t *testing.T) {
	in := strings.NewReader("http://localhost/cb?code=abc&state=s1\n")
	var out bytes.Buffer

	manual := presenter.NewManual(in, &out)
	callback, err := manual.Visit(context.Background(), "https://example.com/authorize", func(u *url.URL) bool {
		return u.Query().Get("state") == "s1"
	})
	require.NoError(t, err)
	require.Equal(t, "abc", callback.Query().Get("code"))
	require.Contains(t, out.String(), "https://example.com/authorize")
}

func TestManualSkipsRejectedLines(t *testing.T) {
	input := strings.Join([]string{
		"",
		"http://localhost/cb?code=evil&state=wrong",
		"http://localhost/cb?code=abc&state=s1",
	}, "\n")
	var out bytes.Buffer

	manual := presenter.NewManual(strings.NewReader(input), &out)
	callback, err := manual.Visit(context.Background(), "https://example.com/authorize", func(u *url.URL) bool {
		return u.Query().Get("state") == "s1"
	})
	require.NoError(t, err)
	require.Equal(t, "abc", callback.Query().Get("code"))
	require.Contains(t, out.String(), "does not match")
}

func TestManualEOFCancels(t *testing.T) {
	manual := presenter.NewManual(strings.NewReader(""), &bytes.Buffer{})
	_, err := manual.Visit(context.Background(), "https://example.com/authorize", func(*url.URL) bool { return true })
	require.ErrorIs(t, err, presenter.ErrCancelled)
}
