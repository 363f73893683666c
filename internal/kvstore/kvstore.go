// Package kvstore declares the key-value store adapter used by the services.
// The interface covers only the primitive operations the services need
// (string get/set, hashes, sets), so an in-memory implementation can stand in
// for Redis in tests.
package kvstore

import "context"

// Store is the capability set the services are built on. Implementations must
// be safe for concurrent use. A missing key is not an error: Get reports it
// through its found flag, HGetAll and SMembers return empty results.
type Store interface {
	// Get returns the string value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a string value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Del removes the given keys. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// HGetAll returns all fields of the hash stored under key.
	// An absent key yields an empty map.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HSet writes the given fields into the hash stored under key,
	// creating the hash when absent.
	HSet(ctx context.Context, key string, fields map[string]string) error

	// SAdd adds members to the set stored under key.
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem removes members from the set stored under key.
	SRem(ctx context.Context, key string, members ...string) error

	// SMembers returns all members of the set stored under key.
	SMembers(ctx context.Context, key string) ([]string, error)

	// Ping checks the health of the underlying store.
	Ping(ctx context.Context) error

	Close() error
}
