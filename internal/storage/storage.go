// Package storage provides the durable client-side state store: two
// independently namespaced records (cart items and auth session) read at
// startup and rewritten on every mutation. Backends are a per-user state
// directory (the default) and Redis.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// Record keys. Each key names an independent record; writing one never
// touches the other.
const (
	KeyCart = "cart-storage"
	KeyAuth = "auth-storage"
)

// ErrNotExist is returned by Read when no record exists for the key. A
// missing record is the normal first-run state, not a failure.
var ErrNotExist = errors.New("record does not exist")

// Store reads and writes namespaced records of opaque bytes.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}
