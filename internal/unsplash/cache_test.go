package unsplash

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	p := filepath.Join(t.TempDir(), "api-cache.json")
	c := NewCache(p, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("/photos?page=1", []byte(`[1,2]`)))
	b, ok := c.Get("/photos?page=1")
	require.True(t, ok)
	require.JSONEq(t, `[1,2]`, string(b))

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("/photos?page=1")
	require.False(t, ok)
}

func TestCacheDisabledAndClear(t *testing.T) {
	require.Nil(t, NewCache("x.json", 0))
	var c *Cache
	_, ok := c.Get("k")
	require.False(t, ok)
	require.NoError(t, c.Set("k", []byte("{}")))

	p := filepath.Join(t.TempDir(), "api-cache.json")
	live := NewCache(p, time.Hour)
	require.NoError(t, live.Set("k", []byte(`{}`)))
	require.NoError(t, ClearCache(p))
	require.NoError(t, ClearCache(p))
	_, ok = live.Get("k")
	require.False(t, ok)
}

func TestParseRetryAfter(t *testing.T) {
	require.Equal(t, 5*time.Second, parseRetryAfter("5"))
	require.Equal(t, time.Duration(0), parseRetryAfter(""))
	require.Equal(t, time.Duration(0), parseRetryAfter("soon"))
	require.True(t, hostIs("images.unsplash.com", "unsplash.com"))
	require.False(t, hostIs("unsplash.com.evil", "unsplash.com"))
}
