package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
)

func newTestCache(enabled bool) Cache {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = enabled
	return NewInMemoryCache(cfg, logger.NewNopLogger())
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	c.Set(ctx, GenerateKey(PrefixBlogPost, "hello-world"), "post", 0)
	c.Set(ctx, GenerateKey(PrefixBlogList, 50, 0), []string{"a"}, time.Minute)

	v, ok := c.Get(ctx, "blog_post:v1:hello-world")
	assert.True(t, ok)
	assert.Equal(t, "post", v)

	c.DeleteByPrefix(ctx, PrefixBlogList)
	_, ok = c.Get(ctx, GenerateKey(PrefixBlogList, 50, 0))
	assert.False(t, ok)

	c.Delete(ctx, GenerateKey(PrefixBlogPost, "hello-world"))
	_, ok = c.Get(ctx, GenerateKey(PrefixBlogPost, "hello-world"))
	assert.False(t, ok)
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(false)

	c.Set(ctx, "k", "v", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "blog_list:v1:20:40", GenerateKey(PrefixBlogList, 20, 40))
	assert.Equal(t, "blog_post:v1:hello-world", GenerateKey(PrefixBlogPost, "hello-world"))
}
