package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensource-safety/kestrel/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache is the Pro tier cache. Assessments and activity counters
// are shared across API replicas, which matters once a deployment runs
// more than one Kestrel instance behind a load balancer. Keys carry a
// "kestrel:" prefix so a shared Redis can host other services too.
type RedisCache struct {
	client *redis.Client
}

// activityWindowScript increments a windowed counter atomically: the
// expiry is set only when the counter is created, so the window is
// anchored to the first submission, not the latest one.
var activityWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get returns the cached value, or nil, nil on a miss.
func (c *RedisCache) Get(ctx context.Context, tenantID string, key string) ([]byte, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenantID is required")
	}

	val, err := c.client.Get(ctx, c.redisKey(tenantID, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value with the given TTL.
func (c *RedisCache) Set(ctx context.Context, tenantID string, key string, value []byte, ttl time.Duration) error {
	if tenantID == "" {
		return fmt.Errorf("tenantID is required")
	}
	return c.client.Set(ctx, c.redisKey(tenantID, key), value, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, tenantID string, key string) error {
	if tenantID == "" {
		return fmt.Errorf("tenantID is required")
	}
	return c.client.Del(ctx, c.redisKey(tenantID, key)).Err()
}

// GetAssessmentByAudit returns the cached assessment for an audit, or
// nil, nil when none is cached.
func (c *RedisCache) GetAssessmentByAudit(ctx context.Context, tenantID string, auditID string) (*domain.Assessment, error) {
	data, err := c.Get(ctx, tenantID, assessmentKey(auditID))
	if err != nil || data == nil {
		return nil, err
	}

	var a domain.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetAssessmentByAudit caches an assessment keyed by its audit.
func (c *RedisCache) SetAssessmentByAudit(ctx context.Context, tenantID string, auditID string, assessment *domain.Assessment, ttl time.Duration) error {
	data, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	return c.Set(ctx, tenantID, assessmentKey(auditID), data, ttl)
}

// IncrementCounter bumps a windowed counter and returns the new count.
func (c *RedisCache) IncrementCounter(ctx context.Context, tenantID string, key string, window time.Duration) (int64, error) {
	if tenantID == "" {
		return 0, fmt.Errorf("tenantID is required")
	}

	fullKey := c.redisKey(tenantID, "counter:"+key)
	return activityWindowScript.Run(ctx, c.client, []string{fullKey}, window.Milliseconds()).Int64()
}

// Ping checks Redis connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) redisKey(tenantID, key string) string {
	return "kestrel:" + tenantID + ":" + key
}
