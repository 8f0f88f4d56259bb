package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// Serializer converts cached values to and from bytes.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// Cache is a prefixed TTL key/value store on Redis.  It satisfies
// calendar.CachePort: a miss is reported as (false, nil), not an error.
type Cache struct {
	rdb        redis.UniversalClient
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	jitterFrac float64
	serializer Serializer
}

var _ calendar.CachePort = (*Cache)(nil)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.defaultTTL = ttl }
}

// WithTTLJitter sets the fraction by which TTLs are randomly spread to
// avoid synchronized expiry.  Zero disables jitter.
func WithTTLJitter(frac float64) CacheOption {
	return func(c *Cache) { c.jitterFrac = frac }
}

func WithSerializer(s Serializer) CacheOption {
	return func(c *Cache) { c.serializer = s }
}

func NewCache(client *Client, log logging.Logger, opts ...CacheOption) *Cache {
	c := &Cache{
		rdb:        client.Universal(),
		logger:     log.Named("cache"),
		prefix:     "reqtrack:",
		defaultTTL: 15 * time.Minute,
		jitterFrac: 0.1,
		serializer: jsonSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + key
}

func (c *Cache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 || c.jitterFrac == 0 {
		return ttl
	}
	jitter := float64(ttl) * c.jitterFrac * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get loads key into dest.  The found flag distinguishes a miss from a
// transport failure.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCache, "cache read failed")
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSerialization, "cache entry corrupt")
	}
	return true, nil
}

// Set stores value under key.  A zero ttl falls back to the default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache value not serializable")
	}
	if err := c.rdb.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCache, "cache write failed")
	}
	return nil
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	if err := c.rdb.Del(ctx, fullKeys...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCache, "cache delete failed")
	}
	return nil
}

// Exists reports whether key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.fullKey(key)).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCache, "cache exists failed")
	}
	return n > 0, nil
}

// TTL reports the remaining lifetime of key.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.rdb.TTL(ctx, c.fullKey(key)).Result()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCache, "cache ttl failed")
	}
	return ttl, nil
}
