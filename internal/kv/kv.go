// Package kv provides the key-value persistence used for progress data.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// Store is a byte-valued key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// ListKeys returns keys starting with prefix in ascending order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
