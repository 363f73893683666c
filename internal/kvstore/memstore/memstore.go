// Package memstore implements the kvstore.Store interface with plain maps
// guarded by a mutex. It backs the service when no Redis address is
// configured and substitutes for Redis in tests.
package memstore

import (
	"context"
	"sync"
)

// MemStore is an in-memory kvstore.Store implementation.
type MemStore struct {
	mu      sync.RWMutex
	strings map[string]string
	hashes  map[string]map[string]string
	sets    map[string]map[string]struct{}
}

func New() *MemStore {
	return &MemStore{
		strings: map[string]string{},
		hashes:  map[string]map[string]string{},
		sets:    map[string]map[string]struct{}{},
	}
}

// Get returns the string value stored under key and whether it exists.
func (s *MemStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.strings[key]

	return value, found, nil
}

// Set stores a string value under key.
func (s *MemStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strings[key] = value

	return nil
}

// Del removes the given keys from all namespaces.
func (s *MemStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.strings, key)
		delete(s.hashes, key)
		delete(s.sets, key)
	}

	return nil
}

// Exists reports whether key is present in any namespace.
func (s *MemStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, found := s.strings[key]; found {
		return true, nil
	}
	if _, found := s.hashes[key]; found {
		return true, nil
	}
	_, found := s.sets[key]

	return found, nil
}

// HGetAll returns a copy of all fields of the hash stored under key.
func (s *MemStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := map[string]string{}
	for field, value := range s.hashes[key] {
		result[field] = value
	}

	return result, nil
}

// HSet writes the given fields into the hash stored under key.
func (s *MemStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, found := s.hashes[key]
	if !found {
		hash = map[string]string{}
		s.hashes[key] = hash
	}
	for field, value := range fields {
		hash[field] = value
	}

	return nil
}

// SAdd adds members to the set stored under key.
func (s *MemStore) SAdd(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, found := s.sets[key]
	if !found {
		set = map[string]struct{}{}
		s.sets[key] = set
	}
	for _, member := range members {
		set[member] = struct{}{}
	}

	return nil
}

// SRem removes members from the set stored under key.
func (s *MemStore) SRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, found := s.sets[key]
	if !found {
		return nil
	}
	for _, member := range members {
		delete(set, member)
	}
	if len(set) == 0 {
		delete(s.sets, key)
	}

	return nil
}

// SMembers returns all members of the set stored under key.
func (s *MemStore) SMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]string, 0, len(s.sets[key]))
	for member := range s.sets[key] {
		members = append(members, member)
	}

	return members, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error {
	return nil
}
