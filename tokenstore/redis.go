package tokenstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/rueidis"

	"github.com/jrsteele09/go-oauth-client/token"
)

const redisKeyPrefix = "oauth_token:"

var _ Store = (*Redis)(nil)

// Redis persists tokens in Redis via rueidis. Entries carry no TTL: an
// expired access token must survive so its refresh token can still be used.
type Redis struct {
	client rueidis.Client
}

// NewRedis wraps an existing rueidis client. The caller owns the client's
// lifecycle.
func NewRedis(client rueidis.Client) *Redis {
	return &Redis{client: client}
}

// RedisOptions is the subset of connection settings most callers need.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisFromOptions dials Redis and returns a store owning the connection.
// Close releases it.
func NewRedisFromOptions(opts RedisOptions) (*Redis, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{opts.Addr},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[NewRedisFromOptions] rueidis.NewClient")
	}
	return NewRedis(client), nil
}

// Close closes the underlying Redis connection.
func (r *Redis) Close() {
	r.client.Close()
}

func (r *Redis) Token(ctx context.Context, key string) (*token.Token, error) {
	cmd := r.client.B().Get().Key(redisKeyPrefix + key).Build()
	data, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "[Redis.Token] GET")
	}

	var tok token.Token
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		return nil, errors.Wrap(err, "[Redis.Token] unmarshal")
	}
	return &tok, nil
}

func (r *Redis) SetToken(ctx context.Context, key string, tok *token.Token) error {
	if tok == nil {
		cmd := r.client.B().Del().Key(redisKeyPrefix + key).Build()
		if err := r.client.Do(ctx, cmd).Error(); err != nil {
			return errors.Wrap(err, "[Redis.SetToken] DEL")
		}
		return nil
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "[Redis.SetToken] marshal")
	}
	cmd := r.client.B().Set().Key(redisKeyPrefix + key).Value(string(data)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return errors.Wrap(err, "[Redis.SetToken] SET")
	}
	return nil
}
