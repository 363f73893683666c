// Package mockstore provides a testify-based mock implementation of the
// kvstore.Store interface.
//
// Use it in handler and service tests to simulate store failures without a
// running Redis server.
package mockstore

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// StoreMock is a testify mock implementing kvstore.Store.
type StoreMock struct {
	mock.Mock
}

// Get mocks the string lookup operation.
func (m *StoreMock) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set mocks the string write operation.
func (m *StoreMock) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Del mocks key deletion.
func (m *StoreMock) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// Exists mocks the key-presence check.
func (m *StoreMock) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// HGetAll mocks reading all fields of a hash.
func (m *StoreMock) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	args := m.Called(ctx, key)
	fields, _ := args.Get(0).(map[string]string)
	return fields, args.Error(1)
}

// HSet mocks writing fields into a hash.
func (m *StoreMock) HSet(ctx context.Context, key string, fields map[string]string) error {
	args := m.Called(ctx, key, fields)
	return args.Error(0)
}

// SAdd mocks adding members to a set.
func (m *StoreMock) SAdd(ctx context.Context, key string, members ...string) error {
	args := m.Called(ctx, key, members)
	return args.Error(0)
}

// SRem mocks removing members from a set.
func (m *StoreMock) SRem(ctx context.Context, key string, members ...string) error {
	args := m.Called(ctx, key, members)
	return args.Error(0)
}

// SMembers mocks listing the members of a set.
func (m *StoreMock) SMembers(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	members, _ := args.Get(0).([]string)
	return members, args.Error(1)
}

// Ping mocks the health check.
func (m *StoreMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the store.
func (m *StoreMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
