package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jrsteele09/go-oauth-client/token"
)

// KeySize is the secret key length required by NewFile.
const KeySize = chacha20poly1305.KeySize

// ErrBadKeySize is returned by NewFile for keys of the wrong length.
var ErrBadKeySize = errors.New("file store key must be 32 bytes")

var _ Store = (*File)(nil)

// File persists tokens in a single encrypted file, the closest analog to an
// OS keychain for headless environments. The file holds a JSON map of
// provider key to token, sealed with XChaCha20-Poly1305; the secret key is
// the caller's to manage.
type File struct {
	mu   sync.Mutex
	path string
	key  []byte
}

// NewFile creates a file store at path. The file is created on first write
// with 0600 permissions. key must be KeySize bytes.
func NewFile(path string, key []byte) (*File, error) {
	if len(key) != KeySize {
		return nil, ErrBadKeySize
	}
	return &File{path: path, key: append([]byte(nil), key...)}, nil
}

func (f *File) Token(_ context.Context, key string) (*token.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokens, err := f.load()
	if err != nil {
		return nil, err
	}
	return tokens[key], nil
}

func (f *File) SetToken(_ context.Context, key string, tok *token.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokens, err := f.load()
	if err != nil {
		return err
	}
	if tok == nil {
		delete(tokens, key)
	} else {
		tokens[key] = tok
	}
	return f.save(tokens)
}

func (f *File) load() (map[string]*token.Token, error) {
	sealed, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]*token.Token{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[File.load] read")
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return nil, errors.Wrap(err, "[File.load] cipher")
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("[File.load] store file truncated")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[File.load] decrypt")
	}

	tokens := map[string]*token.Token{}
	if err := json.Unmarshal(plaintext, &tokens); err != nil {
		return nil, errors.Wrap(err, "[File.load] unmarshal")
	}
	return tokens, nil
}

func (f *File) save(tokens map[string]*token.Token) error {
	plaintext, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "[File.save] marshal")
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return errors.Wrap(err, "[File.save] cipher")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[File.save] nonce")
	}
	sealed := append(nonce, aead.Seal(nil, nonce, plaintext, nil)...)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[File.save] mkdir")
	}
	if err := os.WriteFile(f.path, sealed, 0o600); err != nil {
		return errors.Wrap(err, "[File.save] write")
	}
	return nil
}
