package kvstore

import "context"

// Store is the persistence primitive: one JSON document per key, written
// whole on every Set (upsert, no partial writes, no transactions).
//
// Get returns (nil, nil) for a missing or unreadable row; callers treat nil
// as "collection not initialized yet".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
