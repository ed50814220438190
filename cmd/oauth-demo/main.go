// Command oauth-demo runs an OAuth flow end to end from the terminal: it
// opens the provider's authorization page in the browser, receives the
// callback on a loopback listener, stores the token in the configured
// backend, and authenticates a sample request with it.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/presenter"
	"github.com/jrsteele09/go-oauth-client/provider"
	"github.com/jrsteele09/go-oauth-client/tokenstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			debug.PrintStack()
			returnError = errors.Errorf("panic recovered: %v", r)
		}
	}()

	configPath := flag.String("config", config.GetEnv("CONFIG", ""), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	displayAppName(cfg.AppName)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	store, closeStore, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := buildProvider(cfg.Provider, store, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tok, err := p.Authorize(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Bool("refreshable", tok.Refreshable()).
		Time("expires_at", tok.ExpiresAt).
		Msg("token issued and stored")

	// Show the token doing its job on an outgoing request.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.github.com/user", nil)
	if err != nil {
		return errors.Wrap(err, "[run] build sample request")
	}
	if err := p.AuthenticateRequest(ctx, req); err != nil {
		return err
	}
	logger.Info().Str("url", req.URL.String()).Msg("request authenticated")

	return nil
}

func buildStore(cfg config.StoreConfig) (tokenstore.Store, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "", "memory":
		return tokenstore.NewMemory(), noop, nil
	case "file":
		key, err := cfg.FileKeyBytes()
		if err != nil {
			return nil, nil, err
		}
		store, err := tokenstore.NewFile(cfg.FilePath, key)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case "redis":
		store, err := tokenstore.NewRedisFromOptions(tokenstore.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "sqlite":
		store, err := tokenstore.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown token store backend %q", cfg.Backend)
	}
}

func buildProvider(cfg config.ProviderConfig, store tokenstore.Store, logger zerolog.Logger) (*provider.Provider, error) {
	loopback := presenter.NewLoopback(cfg.CallbackAddr, presenter.WithLoopbackLogger(logger))
	options := []provider.Option{
		provider.WithStore(store),
		provider.WithPresenter(loopback),
		provider.WithLogger(logger),
		provider.WithRedirectURL(cfg.RedirectURL),
		provider.WithScopes(cfg.Scopes...),
	}

	switch cfg.Preset {
	case "github":
		return provider.GitHub(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, options...)
	case "dribbble":
		return provider.Dribbble(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, options...)
	case "spotify":
		return provider.Spotify(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, options...)
	case "meetup":
		return provider.Meetup(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, options...)
	case "":
		return provider.NewAuthorizationCode(cfg.ClientID, cfg.ClientSecret, cfg.AuthorizeURL, cfg.TokenURL, options...)
	default:
		return nil, errors.Errorf("unknown provider preset %q", cfg.Preset)
	}
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
