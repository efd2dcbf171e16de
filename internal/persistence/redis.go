package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/powergrid-it/helpdesk-service/internal/config"
)

const revokedTokenPrefix = "revoked_token:"

// Redis wraps the go-redis client. It backs the logout denylist: revoked
// token ids are kept until their natural expiry.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RevokeToken marks a token id as revoked until it would have expired anyway.
func (r *Redis) RevokeToken(ctx context.Context, tokenID string, until time.Time) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsTokenRevoked reports whether the token id is on the denylist.
func (r *Redis) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, nil
	}
	count, err := r.Client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
