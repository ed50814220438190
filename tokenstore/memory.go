package tokenstore

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-oauth-client/token"
)

var _ Store = (*Memory)(nil)

// Memory is a thread-safe in-memory store. Tokens do not survive a restart;
// use the file, Redis, or SQLite store for persistence.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]*token.Token
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]*token.Token)}
}

func (m *Memory) Token(_ context.Context, key string) (*token.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[key], nil
}

func (m *Memory) SetToken(_ context.Context, key string, tok *token.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tok == nil {
		delete(m.tokens, key)
		return nil
	}
	m.tokens[key] = tok
	return nil
}

// Count returns the number of stored tokens.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}
