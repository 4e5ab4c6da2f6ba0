package inmemorycache

import (
	"testing"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewV1InMemoryCacheValidatesConf(t *testing.T) {
	_, err := NewV1InMemoryCache(Conf{InMemorySizeInBytes: 1024 * 1024})
	assert.Error(t, err)

	_, err = NewV1InMemoryCache(Conf{CacheName: "prediction"})
	assert.Error(t, err)
}

func TestV1GetSetDelete(t *testing.T) {
	cache, err := NewV1InMemoryCache(Conf{CacheName: "prediction", InMemorySizeInBytes: 1024 * 1024})
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Get([]byte("k"))
	assert.ErrorIs(t, err, freecache.ErrNotFound)

	require.NoError(t, cache.Set([]byte("k"), []byte("v")))
	got, err := cache.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, cache.SetEx([]byte("k2"), []byte("v2"), 60))
	got, err = cache.Get([]byte("k2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	assert.True(t, cache.Delete([]byte("k")))
	assert.False(t, cache.Delete([]byte("k")))

	// idempotent
	cache.Close()
}
