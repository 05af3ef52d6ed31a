package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainerdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "trainerdesk:"

type CacheService interface {
	// Public page caching
	GetTrainerPage(ctx context.Context, subdomain string) (*models.PublicPage, error)
	SetTrainerPage(ctx context.Context, page *models.PublicPage, ttl time.Duration) error
	DeleteTrainerPage(ctx context.Context, subdomain string) error

	// Dashboard caching
	GetDashboardStats(ctx context.Context, trainerID uuid.UUID) (*models.DashboardStats, error)
	SetDashboardStats(ctx context.Context, trainerID uuid.UUID, stats *models.DashboardStats, ttl time.Duration) error
	InvalidateDashboardStats(ctx context.Context, trainerID uuid.UUID) error

	// Session revocation
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds a client for addr, which may carry a redis:// or rediss:// scheme.
// A failed initial ping is logged, not fatal; the cache is bypassed while redis is down.
func NewRedisClient(addr, password string, db int, logger *zap.Logger) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(err))
	} else {
		logger.Info("Redis connection established", zap.String("addr", parsedAddr))
	}
	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func pageKey(subdomain string) string {
	return keyPrefix + "page:" + subdomain
}

func statsKey(trainerID uuid.UUID) string {
	return keyPrefix + "stats:" + trainerID.String()
}

func revokedKey(tokenID string) string {
	return keyPrefix + "revoked:" + tokenID
}

func rateLimitKey(key string) string {
	return keyPrefix + "ratelimit:" + key
}

func (r *redisCacheService) GetTrainerPage(ctx context.Context, subdomain string) (*models.PublicPage, error) {
	var page models.PublicPage
	found, err := r.getJSON(ctx, pageKey(subdomain), &page)
	if err != nil || !found {
		return nil, err
	}
	return &page, nil
}

func (r *redisCacheService) SetTrainerPage(ctx context.Context, page *models.PublicPage, ttl time.Duration) error {
	return r.setJSON(ctx, pageKey(page.Subdomain), page, ttl)
}

func (r *redisCacheService) DeleteTrainerPage(ctx context.Context, subdomain string) error {
	return r.client.Del(ctx, pageKey(subdomain)).Err()
}

func (r *redisCacheService) GetDashboardStats(ctx context.Context, trainerID uuid.UUID) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	found, err := r.getJSON(ctx, statsKey(trainerID), &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetDashboardStats(ctx context.Context, trainerID uuid.UUID, stats *models.DashboardStats, ttl time.Duration) error {
	return r.setJSON(ctx, statsKey(trainerID), stats, ttl)
}

func (r *redisCacheService) InvalidateDashboardStats(ctx context.Context, trainerID uuid.UUID) error {
	return r.client.Del(ctx, statsKey(trainerID)).Err()
}

// RevokeToken denylists a token id until the token would have expired anyway.
func (r *redisCacheService) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (r *redisCacheService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsRateLimited counts a hit in a fixed window and reports whether key went over limit.
// The window key is created with its expiry and incremented in one transaction, so a
// counter can never outlive its window.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)

	var hits *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, cacheKey, 0, window)
		hits = pipe.Incr(ctx, cacheKey)
		return nil
	})
	if err != nil {
		return false, err
	}

	return hits.Val() > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
