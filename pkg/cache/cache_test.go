package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	properties.Property("MemoryCache returns what was stored", prop.ForAll(
		func(key string, value []byte) bool {
			c := NewMemoryCache()
			if err := c.Set(context.Background(), key, value); err != nil {
				return false
			}
			got, ok, err := c.Get(context.Background(), key)
			return err == nil && ok && string(got) == string(value)
		},
		gen.Identifier(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("RedisCache returns what was stored", prop.ForAll(
		func(key string, value []byte) bool {
			c := NewRedisCache(redisClient, "launchdash:test:", time.Minute)
			if err := c.Set(context.Background(), key, value); err != nil {
				return false
			}
			got, ok, err := c.Get(context.Background(), key)
			return err == nil && ok && string(got) == string(value)
		},
		gen.Identifier(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("memory and redis backends are equivalent", prop.ForAll(
		func(key string, value []byte) bool {
			mem := NewMemoryCache()
			rc := NewRedisCache(redisClient, "launchdash:equiv:", time.Minute)

			if mem.Set(context.Background(), key, value) != nil || rc.Set(context.Background(), key, value) != nil {
				return false
			}
			a, okA, errA := mem.Get(context.Background(), key)
			b, okB, errB := rc.Get(context.Background(), key)
			return errA == nil && errB == nil && okA == okB && string(a) == string(b)
		},
		gen.Identifier(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCacheMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	for name, c := range map[string]Cache{
		"nop":    NopCache{},
		"memory": NewMemoryCache(),
		"redis":  NewRedisCache(client, "p:", time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			v, ok, err := c.Get(context.Background(), "missing")
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, v)
		})
	}
}

func TestRedisCacheTTLAndPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client, "launchdash:", time.Minute)
	require.NoError(t, c.Set(context.Background(), "pie:All", []byte("<svg/>")))
	assert.True(t, mr.Exists("launchdash:pie:All"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(context.Background(), "pie:All")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheCopiesValue(t *testing.T) {
	c := NewMemoryCache()
	v := []byte("abc")
	require.NoError(t, c.Set(context.Background(), "k", v))
	v[0] = 'z'

	got, _, _ := c.Get(context.Background(), "k")
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, c.Len())
}
