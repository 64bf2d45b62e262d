package service

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache 结果缓存，未命中返回 false
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
}

type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetJSON 从缓存读取并解码
func (s *RedisService) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // 缓存未命中
		}
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		utils.Logger.Error("failed to unmarshal cached value",
			zap.String("key", key), zap.Error(err))
		return false, err
	}

	return true, nil
}

// SetJSON 编码后写入缓存
func (s *RedisService) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// NopCache Redis 不可用时使用
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (NopCache) SetJSON(context.Context, string, any) error { return nil }

// 缓存键前缀
const (
	traceKeyPrefix   = "trace:"
	segmentKeyPrefix = "segment:"
	solarKeyPrefix   = "solar:"
)

// cached 先查缓存，未命中时调用 load 并回写；缓存错误只记录日志
func cached[T any](ctx context.Context, cache Cache, key string, load func() (*T, error)) (*T, bool, error) {
	var hit T
	ok, err := cache.GetJSON(ctx, key, &hit)
	if err != nil {
		utils.Logger.Warn("failed to get cache", zap.String("key", key), zap.Error(err))
	}
	if ok {
		utils.Logger.Debug("cache hit", zap.String("key", key))
		return &hit, true, nil
	}

	result, err := load()
	if err != nil {
		return nil, false, err
	}

	if err := cache.SetJSON(ctx, key, result); err != nil {
		utils.Logger.Warn("failed to set cache", zap.String("key", key), zap.Error(err))
	}
	return result, false, nil
}
