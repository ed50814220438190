package oauth2

// Grant is one entitlement a client can present to the token endpoint.
// A grant exists only for the duration of a single token request; its only
// job is to contribute its grant_type and auxiliary parameters.
type Grant interface {
	// Params returns the form parameters this grant contributes to a token
	// request. Pure; never fails.
	Params() map[string]string
}

// AuthorizationCodeGrant exchanges the code carried by a callback URL.
type AuthorizationCodeGrant struct {
	Code string
}

func (g AuthorizationCodeGrant) Params() map[string]string {
	return map[string]string{
		"grant_type": "authorization_code",
		"code":       g.Code,
	}
}

// RefreshTokenGrant obtains a replacement token from a refresh token.
type RefreshTokenGrant struct {
	RefreshToken string
}

func (g RefreshTokenGrant) Params() map[string]string {
	return map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": g.RefreshToken,
	}
}

// ClientCredentialsGrant authenticates the client itself, with no user.
type ClientCredentialsGrant struct{}

func (ClientCredentialsGrant) Params() map[string]string {
	return map[string]string{
		"grant_type": "client_credentials",
	}
}

// PasswordGrant sends resource-owner credentials directly to the token
// endpoint.
type PasswordGrant struct {
	Username string
	Password string
}

func (g PasswordGrant) Params() map[string]string {
	return map[string]string{
		"grant_type": "password",
		"username":   g.Username,
		"password":   g.Password,
	}
}
