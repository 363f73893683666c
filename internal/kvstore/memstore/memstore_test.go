package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringOps(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "key", "value"))

	value, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", value)

	exists, err := store.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Del(ctx, "key"))

	exists, err = store.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHashOps(t *testing.T) {
	store := New()
	ctx := context.Background()

	fields, err := store.HGetAll(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, fields)

	require.NoError(t, store.HSet(ctx, "hash", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, store.HSet(ctx, "hash", map[string]string{"b": "3"}))

	fields, err = store.HGetAll(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, fields)

	exists, err := store.Exists(ctx, "hash")
	require.NoError(t, err)
	assert.True(t, exists)

	// HGetAll hands out copies; mutating the result must not leak back.
	fields["a"] = "mutated"
	fresh, err := store.HGetAll(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, "1", fresh["a"])
}

func TestSetOps(t *testing.T) {
	store := New()
	ctx := context.Background()

	members, err := store.SMembers(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, store.SAdd(ctx, "set", "a", "b"))
	require.NoError(t, store.SAdd(ctx, "set", "b", "c"))

	members, err = store.SMembers(ctx, "set")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, members)

	require.NoError(t, store.SRem(ctx, "set", "a", "nosuch"))

	members, err = store.SMembers(ctx, "set")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, members)

	require.NoError(t, store.SRem(ctx, "set", "b", "c"))

	exists, err := store.Exists(ctx, "set")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDelSpansNamespaces(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value"))
	require.NoError(t, store.HSet(ctx, "hash", map[string]string{"a": "1"}))
	require.NoError(t, store.SAdd(ctx, "set", "a"))

	require.NoError(t, store.Del(ctx, "key", "hash", "set"))

	for _, key := range []string{"key", "hash", "set"} {
		exists, err := store.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists, "key %q should be gone", key)
	}
}

func TestPingAndClose(t *testing.T) {
	store := New()

	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
