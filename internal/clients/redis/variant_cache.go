package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/platform/envutil"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

// VariantCache keeps the hero variant list in Redis with a TTL and mirrors it
// in process. Every invalidation bumps a generation counter and is published
// so other instances drop their in-process copy. A list read from the
// database is only stored if the generation has not moved since the miss.
type VariantCache struct {
	log      *logger.Logger
	rdb      *goredis.Client
	key      string
	genKey   string
	channel  string
	ttl      time.Duration
	instance string

	mu      sync.RWMutex
	local   []hero.Variant
	localOK bool
	seen    int64
}

type CacheOptions struct {
	Key     string
	Channel string
	TTL     time.Duration
}

// NewVariantCache connects to REDIS_ADDR. Callers treat an error as "run
// without a cache".
func NewVariantCache(log *logger.Logger) (*VariantCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewVariantCacheWithClient(rdb, log, CacheOptions{
		Key:     envutil.String("REDIS_HERO_CACHE_KEY", ""),
		Channel: envutil.String("REDIS_HERO_CHANNEL", ""),
		TTL:     time.Duration(envutil.Int("REDIS_HERO_CACHE_TTL_SECONDS", 60)) * time.Second,
	}), nil
}

func NewVariantCacheWithClient(rdb *goredis.Client, log *logger.Logger, opts CacheOptions) *VariantCache {
	if opts.Key == "" {
		opts.Key = "hero:variants"
	}
	if opts.Channel == "" {
		opts.Channel = "hero:variants:invalidate"
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Minute
	}
	return &VariantCache{
		log:      log.With("service", "RedisVariantCache"),
		rdb:      rdb,
		key:      opts.Key,
		genKey:   opts.Key + ":gen",
		channel:  opts.Channel,
		ttl:      opts.TTL,
		instance: uuid.NewString(),
	}
}

// GetList returns a copy of the cached list. On a miss it returns the current
// generation, which the caller hands back to SetList. A negative generation
// means the list must not be stored.
func (c *VariantCache) GetList(ctx context.Context) ([]hero.Variant, int64, bool) {
	c.mu.RLock()
	if c.localOK {
		out := cloneList(c.local)
		gen := c.seen
		c.mu.RUnlock()
		return out, gen, true
	}
	c.mu.RUnlock()

	vals, err := c.rdb.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		c.log.Warn("redis mget failed", "key", c.key, "error", err)
		return nil, -1, false
	}
	gen, err := parseGen(vals[1])
	if err != nil {
		c.log.Warn("bad cache generation", "key", c.genKey, "error", err)
		return nil, -1, false
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	var list []hero.Variant
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		c.log.Warn("bad cached variant list", "key", c.key, "error", err)
		return nil, gen, false
	}
	c.setLocal(gen, list)
	return cloneList(list), gen, true
}

// SetList stores list if the generation is still gen. A write that
// invalidated the cache in between makes this a no-op.
func (c *VariantCache) SetList(ctx context.Context, gen int64, list []hero.Variant) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		c.log.Warn("encode variant list failed", "error", err)
		return
	}
	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		now, err := parseGen(nilIfEmpty(cur))
		if err != nil {
			return err
		}
		if now != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		return err
	}, c.genKey)
	switch {
	case err == nil:
		c.setLocal(gen, cloneList(list))
	case errors.Is(err, errGenerationMoved), errors.Is(err, goredis.TxFailedErr):
		c.log.Debug("variant list changed while loading, not caching", "generation", gen)
	default:
		c.log.Warn("redis set failed", "key", c.key, "error", err)
	}
}

// Invalidate bumps the generation, drops the stored list and notifies peers.
func (c *VariantCache) Invalidate(ctx context.Context) {
	var incr *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, c.genKey)
		p.Del(ctx, c.key)
		return nil
	})
	var gen int64
	if err != nil {
		c.log.Warn("redis invalidate failed", "key", c.key, "error", err)
	} else {
		gen = incr.Val()
	}
	c.dropLocal(gen)
	if err := c.rdb.Publish(ctx, c.channel, fmt.Sprintf("%s:%d", c.instance, gen)).Err(); err != nil {
		c.log.Warn("redis publish failed", "channel", c.channel, "error", err)
	}
}

// Run listens for invalidations from other instances until ctx is done.
func (c *VariantCache) Run(ctx context.Context) error {
	sub := c.rdb.Subscribe(ctx, c.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok || m == nil {
				return nil
			}
			peer, genStr, _ := strings.Cut(m.Payload, ":")
			if peer == c.instance {
				continue
			}
			gen, _ := strconv.ParseInt(genStr, 10, 64)
			c.dropLocal(gen)
			c.log.Debug("variant list invalidated by peer", "peer", peer, "generation", gen)
		}
	}
}

func (c *VariantCache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *VariantCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

var errGenerationMoved = errors.New("cache generation moved")

func (c *VariantCache) setLocal(gen int64, list []hero.Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < c.seen {
		return
	}
	c.local, c.localOK, c.seen = list, true, gen
}

// dropLocal clears the in-process copy. A positive gen raises the floor so a
// load that started before it cannot repopulate the mirror.
func (c *VariantCache) dropLocal(gen int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local, c.localOK = nil, false
	if gen > c.seen {
		c.seen = gen
	}
}

func parseGen(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected generation type %T", v)
	}
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func cloneList(in []hero.Variant) []hero.Variant {
	if in == nil {
		return nil
	}
	out := make([]hero.Variant, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
