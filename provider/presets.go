package provider

// Ready-made constructors for popular providers. Each just fills in the
// provider's public endpoints; credentials, redirect URL, and collaborators
// come from the caller.

// GitHub creates an authorization-code provider for github.com.
func GitHub(clientID, clientSecret, redirectURL string, options ...Option) (*Provider, error) {
	return NewAuthorizationCode(
		clientID,
		clientSecret,
		"https://github.com/login/oauth/authorize",
		"https://github.com/login/oauth/access_token",
		append([]Option{WithRedirectURL(redirectURL)}, options...)...,
	)
}

// Dribbble creates an authorization-code provider for dribbble.com.
func Dribbble(clientID, clientSecret, redirectURL string, options ...Option) (*Provider, error) {
	return NewAuthorizationCode(
		clientID,
		clientSecret,
		"https://dribbble.com/oauth/authorize",
		"https://dribbble.com/oauth/token",
		append([]Option{WithRedirectURL(redirectURL)}, options...)...,
	)
}

// Spotify creates an authorization-code provider for accounts.spotify.com.
func Spotify(clientID, clientSecret, redirectURL string, options ...Option) (*Provider, error) {
	return NewAuthorizationCode(
		clientID,
		clientSecret,
		"https://accounts.spotify.com/authorize",
		"https://accounts.spotify.com/api/token",
		append([]Option{WithRedirectURL(redirectURL)}, options...)...,
	)
}

// SpotifyImplicit creates an implicit-flow provider for accounts.spotify.com,
// for public clients that cannot hold a secret.
func SpotifyImplicit(clientID, redirectURL string, options ...Option) (*Provider, error) {
	return NewImplicit(
		clientID,
		"https://accounts.spotify.com/authorize",
		append([]Option{WithRedirectURL(redirectURL)}, options...)...,
	)
}

// SpotifyClientCredentials creates a machine-to-machine provider for
// accounts.spotify.com.
func SpotifyClientCredentials(clientID, clientSecret string, options ...Option) (*Provider, error) {
	return NewClientCredentials(clientID, clientSecret, "https://accounts.spotify.com/api/token", options...)
}

// Meetup creates an authorization-code provider for secure.meetup.com.
func Meetup(clientID, clientSecret, redirectURL string, options ...Option) (*Provider, error) {
	return NewAuthorizationCode(
		clientID,
		clientSecret,
		"https://secure.meetup.com/oauth2/authorize",
		"https://secure.meetup.com/oauth2/access",
		append([]Option{WithRedirectURL(redirectURL)}, options...)...,
	)
}

// MeetupImplicit creates an implicit-flow provider for secure.meetup.com.
func MeetupImplicit(clientID, redirectURL string, options ...Option) (*Provider, error) {
	return NewImplicit(
		clientID,
		"https://secure.meetup.com/oauth2/authorize",
		append([]Option{WithRedirectURL(redirectURL)}, options...)...,
	)
}
