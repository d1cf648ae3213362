// Package storage holds the key/value slots the cart snapshot is written to.
// Values are opaque bytes and always replaced wholesale.
package storage

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("storage: empty key")

type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
