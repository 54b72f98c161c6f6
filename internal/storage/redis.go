package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"resume-agent-go/internal/config"
	"resume-agent-go/internal/constants"
	"resume-agent-go/internal/logger"
	"resume-agent-go/internal/types"
)

// ErrNotFound 缓存中不存在对应键
var ErrNotFound = redis.Nil

// RedisAdapter 候选人档案的读缓存
type RedisAdapter struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端并验证连通性
func NewRedisAdapter(ctx context.Context, cfg *config.RedisConfig) (*RedisAdapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opts.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opts.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Warn().Err(err).Msg("Redis追踪插桩失败，继续但无追踪信息")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return &RedisAdapter{client: client, cfg: cfg}, nil
}

// Client 返回底层客户端
func (r *RedisAdapter) Client() *redis.Client {
	return r.client
}

// Close 关闭连接
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

func (r *RedisAdapter) cacheTTL() time.Duration {
	if r.cfg.CandidateCacheTTLMinutes > 0 {
		return time.Duration(r.cfg.CandidateCacheTTLMinutes) * time.Minute
	}
	return constants.DefaultCandidateCacheTTL
}

// CacheCandidateProfile 写入候选人档案缓存
func (r *RedisAdapter) CacheCandidateProfile(ctx context.Context, profile *types.CandidateProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("序列化候选人档案失败: %w", err)
	}

	key := constants.CandidateCacheKeyPrefix + profile.CandidateID
	if err := r.client.Set(ctx, key, data, r.cacheTTL()).Err(); err != nil {
		return fmt.Errorf("写入候选人档案缓存失败: %w", err)
	}
	return nil
}

// GetCachedCandidateProfile 读取候选人档案缓存，未命中返回 ErrNotFound
func (r *RedisAdapter) GetCachedCandidateProfile(ctx context.Context, candidateID string) (*types.CandidateProfile, error) {
	key := constants.CandidateCacheKeyPrefix + candidateID
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		// 缓存内容损坏按未命中处理，删除后由数据库重建
		logger.Warn().Err(err).Str("candidate_id", candidateID).Msg("候选人档案缓存内容损坏，删除")
		_ = r.client.Del(ctx, key).Err()
		return nil, ErrNotFound
	}
	return &profile, nil
}
