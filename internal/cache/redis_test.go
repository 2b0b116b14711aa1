package cache

import (
	"context"
	"testing"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewFromURL("redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	body, found, err := c.Get(context.Background(), 7, domain.ShapeItemList)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, body)
}

func TestCacheSetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	body := []byte(`{"itemList":[{"itemId":"12"}]}`)

	require.NoError(t, c.Set(ctx, 7, domain.ShapeItemList, body))

	got, found, err := c.Get(ctx, 7, domain.ShapeItemList)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, body, got)

	// shapes are cached independently
	_, found, err = c.Get(ctx, 7, domain.ShapeMovies)
	require.NoError(t, err)
	assert.False(t, found)

	assert.True(t, mr.Exists("rec:user:7:shape:itemList"))
	assert.Equal(t, time.Minute, mr.TTL("rec:user:7:shape:itemList"))
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, domain.ShapeMovies, []byte(`{"movies":[1]}`)))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, 1, domain.ShapeMovies)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheError(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), 1, domain.ShapeItemList)
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}

func TestNewFromURLInvalid(t *testing.T) {
	_, err := NewFromURL("not-a-url", time.Minute)
	assert.Error(t, err)
}
