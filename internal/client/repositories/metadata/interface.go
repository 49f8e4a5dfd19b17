// Package metadata is the local key/value cache of the client, used to
// persist the auth session between runs.
package metadata

import "context"

// Repository stores opaque byte values under string keys.
//
// Get returns (nil, nil) for a missing key so callers can tell "absent"
// from "broken" without importing database/sql.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
