package store

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s, err := Open(filepath.Join(t.TempDir(), "store.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestStore_PutGetRoundtrip(t *testing.T) {
	s := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, s.Put("cart_dogshop", payload{Name: "croquetas", Count: 3}))

	var got payload
	found, err := s.Get("cart_dogshop", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "croquetas", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestStore_MissingKeyIsAbsent(t *testing.T) {
	s := newTestStore(t)

	var got map[string]string
	found, err := s.Get("never_written", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CorruptValueIsDiscarded(t *testing.T) {
	s := newTestStore(t)

	// Write a record that is not valid JSON for the target type
	require.NoError(t, s.db.Save(&Record{Key: "cart_catshop", Value: "{{{not json"}).Error)

	var got []string
	found, err := s.Get("cart_catshop", &got)
	require.NoError(t, err)
	assert.False(t, found, "corrupt value must read as absent")

	// The bad record must be gone so it cannot poison later reads
	var count int64
	s.db.Model(&Record{}).Where("key = ?", "cart_catshop").Count(&count)
	assert.Zero(t, count)
}

func TestStore_OverwriteReplacesValue(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("current_user", "first@x.com"))
	require.NoError(t, s.Put("current_user", "second@x.com"))

	var got string
	found, err := s.Get("current_user", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second@x.com", got)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("auth_token", "abc"))
	require.NoError(t, s.Delete("auth_token"))
	require.NoError(t, s.Delete("auth_token"), "deleting a missing key is not an error")

	var got string
	found, err := s.Get("auth_token", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_KeysByPrefix(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(OrdersKey("a@x.com"), []string{}))
	require.NoError(t, s.Put(OrdersKey("b@x.com"), []string{}))
	require.NoError(t, s.Put(CartKey("dogshop"), []string{}))

	keys, err := s.Keys("user_orders_")
	require.NoError(t, err)
	assert.Equal(t, []string{"user_orders_a@x.com", "user_orders_b@x.com"}, keys)
}

func TestKeyLayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cart_dogshop", CartKey("dogshop"))
	assert.Equal(t, "user_orders_a@x.com", OrdersKey("a@x.com"))
	assert.Equal(t, "catalog_cache_abc", CatalogCacheKey("abc"))
}
