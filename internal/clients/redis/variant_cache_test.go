package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestVariantCacheRoundTrip(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	opts := CacheOptions{Key: "test:hero:" + uuid.NewString(), Channel: "test:hero:" + uuid.NewString(), TTL: time.Minute}
	a := NewVariantCacheWithClient(rdb, logger.Nop(), opts)
	b := NewVariantCacheWithClient(rdb, logger.Nop(), opts)
	t.Cleanup(func() { rdb.Del(ctx, opts.Key, opts.Key+":gen") })

	_, gen, ok := a.GetList(ctx)
	if ok {
		t.Fatalf("expected miss on empty cache")
	}
	a.SetList(ctx, gen, []hero.Variant{{VariantKey: "spring", Title: "Spring", IsActive: true}})

	got, _, ok := b.GetList(ctx)
	if !ok || len(got) != 1 || got[0].VariantKey != "spring" || !got[0].IsActive {
		t.Fatalf("b.GetList: %v %+v", ok, got)
	}

	a.Invalidate(ctx)
	if _, _, ok := a.GetList(ctx); ok {
		t.Fatalf("a still cached after invalidate")
	}
}

func TestVariantCacheDropsListFromOlderGeneration(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	opts := CacheOptions{Key: "test:hero:" + uuid.NewString(), Channel: "test:hero:" + uuid.NewString()}
	reader := NewVariantCacheWithClient(rdb, logger.Nop(), opts)
	writer := NewVariantCacheWithClient(rdb, logger.Nop(), opts)
	t.Cleanup(func() { rdb.Del(ctx, opts.Key, opts.Key+":gen") })

	_, gen, ok := reader.GetList(ctx)
	if ok {
		t.Fatalf("expected miss on empty cache")
	}
	writer.Invalidate(ctx)
	reader.SetList(ctx, gen, []hero.Variant{{VariantKey: "old", IsActive: true}})

	if _, _, ok := reader.GetList(ctx); ok {
		t.Fatalf("list from an older generation was stored")
	}
	if n, _ := rdb.Exists(ctx, opts.Key).Result(); n != 0 {
		t.Fatalf("redis holds a list from an older generation")
	}
}

func TestVariantCacheReturnsCopies(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	opts := CacheOptions{Key: "test:hero:" + uuid.NewString(), Channel: "test:hero:" + uuid.NewString()}
	c := NewVariantCacheWithClient(rdb, logger.Nop(), opts)
	t.Cleanup(func() { rdb.Del(ctx, opts.Key, opts.Key+":gen") })

	_, gen, _ := c.GetList(ctx)
	c.SetList(ctx, gen, []hero.Variant{{VariantKey: "spring", Title: "Spring", Stats: []hero.Stat{{Value: "1", Label: "x"}}}})

	got, _, ok := c.GetList(ctx)
	if !ok {
		t.Fatalf("expected hit")
	}
	got[0].Title = "mutated"
	got[0].Stats[0].Value = "mutated"

	again, _, _ := c.GetList(ctx)
	if again[0].Title != "Spring" || again[0].Stats[0].Value != "1" {
		t.Fatalf("cached list was mutated through a returned copy: %+v", again[0])
	}
}

func TestVariantCachePeerInvalidation(t *testing.T) {
	rdb := testClient(t)
	opts := CacheOptions{Key: "test:hero:" + uuid.NewString(), Channel: "test:hero:" + uuid.NewString()}
	a := NewVariantCacheWithClient(rdb, logger.Nop(), opts)
	b := NewVariantCacheWithClient(rdb, logger.Nop(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	b.setLocal(0, []hero.Variant{{VariantKey: "stale"}})
	a.Invalidate(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.RLock()
		ok := b.localOK
		b.mu.RUnlock()
		if !ok {
			cancel()
			<-done
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("peer did not drop its local copy")
}

func TestLocalMirrorReturnsCopies(t *testing.T) {
	c := &VariantCache{log: logger.Nop()}
	c.setLocal(1, []hero.Variant{{VariantKey: "spring", Title: "Spring", Stats: []hero.Stat{{Value: "1"}}}})

	got, gen, ok := c.GetList(context.Background())
	if !ok || gen != 1 {
		t.Fatalf("GetList: ok=%v gen=%d", ok, gen)
	}
	got[0].Title = "mutated"
	got[0].Stats[0].Value = "mutated"

	again, _, _ := c.GetList(context.Background())
	if again[0].Title != "Spring" || again[0].Stats[0].Value != "1" {
		t.Fatalf("local mirror mutated through a returned slice: %+v", again[0])
	}
}

func TestLocalMirrorIgnoresOlderGeneration(t *testing.T) {
	c := &VariantCache{log: logger.Nop()}
	c.dropLocal(3)
	c.setLocal(2, []hero.Variant{{VariantKey: "old"}})
	c.mu.RLock()
	ok := c.localOK
	c.mu.RUnlock()
	if ok {
		t.Fatalf("older generation repopulated the mirror")
	}
	c.setLocal(3, []hero.Variant{{VariantKey: "fresh"}})
	got, _, ok := c.GetList(context.Background())
	if !ok || got[0].VariantKey != "fresh" {
		t.Fatalf("GetList: %v %+v", ok, got)
	}
}
