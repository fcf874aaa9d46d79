package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingportal/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal"

type CacheService interface {
	// User profiles. The session table stays authoritative; only the user row is cached.
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, bool, error)
	SetUser(ctx context.Context, user *models.User, ttl time.Duration) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func userKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, userID)
}

func (r *redisCacheService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, bool, error) {
	data, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // cache miss
		}
		return nil, false, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, false, fmt.Errorf("corrupt user cache entry: %w", err)
	}
	return &user, true, nil
}

// SetUser stores the profile without its password hash.
func (r *redisCacheService) SetUser(ctx context.Context, user *models.User, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, userKey(userID)).Err()
}

// IsRateLimited counts one attempt for key and reports whether the window's limit is exceeded.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// noopCacheService is used when Redis is not configured.
type noopCacheService struct{}

func NewNoopCacheService() CacheService { return noopCacheService{} }

func (noopCacheService) GetUser(context.Context, uuid.UUID) (*models.User, bool, error) {
	return nil, false, nil
}

func (noopCacheService) SetUser(context.Context, *models.User, time.Duration) error { return nil }

func (noopCacheService) DeleteUser(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) IsRateLimited(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}

func (noopCacheService) Ping(context.Context) error { return nil }

func (noopCacheService) Close() error { return nil }
