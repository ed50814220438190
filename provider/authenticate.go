package provider

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/oauth2"
)

// AuthenticateRequest attaches an Authorization header to req from the stored
// token, refreshing first when the token has expired and carries a refresh
// credential.
//
// No stored token, or a stored token of an unsupported type, fails with
// invalid_access_token without any network traffic. A failed refresh
// surfaces the refresh error and leaves the stored token untouched.
func (p *Provider) AuthenticateRequest(ctx context.Context, req *http.Request) error {
	stored, err := p.Token(ctx)
	if err != nil {
		return err
	}
	if stored == nil {
		return oauth2.NewError(oauth2.ErrCodeInvalidAccessToken, "no token stored; call Authorize first")
	}
	if !stored.Type.Supported() {
		return oauth2.NewError(oauth2.ErrCodeInvalidAccessToken, "unsupported token type "+string(stored.Type))
	}

	if stored.IsValid() {
		req.Header.Set("Authorization", stored.AuthorizationHeader())
		return nil
	}

	refreshed, err := p.RefreshToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", refreshed.AuthorizationHeader())
	return nil
}
