// Package tokenstore persists one token per provider identity. The provider
// orchestrator issues at most one read and one write per completed flow; any
// backend satisfying Store can be plugged in, and the orchestrator never
// branches on which one is active.
package tokenstore

import (
	"context"

	"github.com/jrsteele09/go-oauth-client/token"
)

// Store is the persistence contract consumed by a provider. The key is a
// stable, collision-resistant identity derived from the provider's
// configuration; two distinct providers must never alias to the same key.
type Store interface {
	// Token returns the stored token for key, or nil when none is stored.
	Token(ctx context.Context, key string) (*token.Token, error)

	// SetToken stores tok under key. A nil token clears the entry.
	SetToken(ctx context.Context, key string, tok *token.Token) error
}
