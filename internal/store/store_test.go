package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menucart/internal/store"
)

func openTestStore(t *testing.T) (*store.KV, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	kv, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	return kv, path
}

func TestGetAbsentKey(t *testing.T) {
	kv, _ := openTestStore(t)

	value, ok, err := kv.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestPutThenGet(t *testing.T) {
	kv, _ := openTestStore(t)

	require.NoError(t, kv.Put("cart", `{"2":{"qty":2}}`))

	value, ok, err := kv.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"2":{"qty":2}}`, value)
}

func TestPutOverwrites(t *testing.T) {
	kv, _ := openTestStore(t)

	require.NoError(t, kv.Put("cart", `{}`))
	require.NoError(t, kv.Put("cart", `{"1":{"qty":1}}`))

	value, ok, err := kv.Get("cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"1":{"qty":1}}`, value)
}

func TestDelete(t *testing.T) {
	kv, _ := openTestStore(t)

	require.NoError(t, kv.Put("cart", `{}`))
	require.NoError(t, kv.Delete("cart"))

	_, ok, err := kv.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is fine.
	assert.NoError(t, kv.Delete("cart"))
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	kv, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put("users", `{"a@x.com":{"fullName":"Ann","password":"pw"}}`))
	require.NoError(t, kv.Close())

	reopened, err := store.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("users")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, value, "Ann")
}

func TestKeysAreIndependent(t *testing.T) {
	kv, _ := openTestStore(t)

	require.NoError(t, kv.Put("cart", `{"cart":true}`))
	require.NoError(t, kv.Put("users", `{"users":true}`))
	require.NoError(t, kv.Delete("cart"))

	_, ok, err := kv.Get("users")
	require.NoError(t, err)
	assert.True(t, ok)
}
