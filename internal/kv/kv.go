// Package kv is the key-value persistence substrate behind the store.
// Values are UTF-8 JSON text; the substrate offers whole-value get/set
// only, with no atomic compare-and-swap.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the minimal contract the record store requires from the
// persistence substrate.
type Store interface {
	// Get returns the value for key, or ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	RemoveMany(ctx context.Context, keys []string) error
	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
