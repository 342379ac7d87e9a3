package dao

import (
	"context"
)

// Service is a generic keyed store for entities of type *T mapped by a
// comparable key K. Implementations decide on durability; this core only
// requires the mapping requestId -> record.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}

// Atomic extends Service with a compare-and-swap primitive so that callers
// can linearize read-modify-write cycles per key without a store-wide lock.
// The expected value is the pointer previously returned by Load; replacement
// must be a fresh copy. Callers retry on a false return.
type Atomic[K comparable, T any] interface {
	Service[K, T]

	CompareAndSwap(ctx context.Context, id K, expected, replacement *T) (bool, error)
}
