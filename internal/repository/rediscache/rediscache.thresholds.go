// FilePath: internal/repository/rediscache/rediscache.thresholds.go
package rediscache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/relaymon/relayhub/internal/config"
	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// ThresholdKey is where the current threshold is cached.
const ThresholdKey = "relayhub:threshold:current"

// ThresholdCache keeps the current threshold in redis
type ThresholdCache struct {
	client redis.Cmdable
	key    string
}

// NewClient connects to redis and verifies the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NewInternalError("could not connect to redis", err)
	}

	nuts.L.Infof("[Redis] Connected to %s/%d", cfg.Addr(), cfg.DB)
	return client, nil
}

// NewThresholdCache wraps any redis client, cluster client or pipeline
func NewThresholdCache(client redis.Cmdable) *ThresholdCache {
	return &ThresholdCache{client: client, key: ThresholdKey}
}

func (c *ThresholdCache) Get(ctx context.Context) (*models.Threshold, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var threshold models.Threshold
	if err := json.Unmarshal(raw, &threshold); err != nil {
		// A corrupt entry is dropped so the next fill can replace it.
		c.client.Del(ctx, c.key)
		return nil, repository.ErrCacheMiss
	}
	return &threshold, nil
}

func (c *ThresholdCache) Set(ctx context.Context, t *models.Threshold, ttl time.Duration) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, raw, ttl).Err()
}

func (c *ThresholdCache) Fill(ctx context.Context, t *models.Threshold, ttl time.Duration) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	err = c.client.SetNX(ctx, c.key, raw, ttl).Err()
	if stderrors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (c *ThresholdCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
