package storage

import (
	"context"

	"resume-agent-go/internal/config"
	"resume-agent-go/internal/logger"
)

// Storage 聚合所有存储后端。
// MinIO与MySQL是上传流程的硬依赖，初始化失败则服务不启动；
// Redis与RabbitMQ是可选增强，未配置或连接失败时记录警告并置nil，
// 调用方在使用前需判空。
type Storage struct {
	MinIO    *MinIO
	MySQL    *MySQL
	Redis    *RedisAdapter
	RabbitMQ *RabbitMQ
}

// NewStorage 初始化各存储后端
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	s := &Storage{}

	minioStore, err := NewMinIO(ctx, &cfg.MinIO)
	if err != nil {
		return nil, err
	}
	s.MinIO = minioStore
	logger.Info().Str("endpoint", cfg.MinIO.Endpoint).Msg("MinIO连接成功")

	mysqlStore, err := NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, err
	}
	s.MySQL = mysqlStore
	logger.Info().Str("host", cfg.MySQL.Host).Str("database", cfg.MySQL.Database).Msg("MySQL连接成功")

	if cfg.Redis.Address != "" {
		redisStore, err := NewRedisAdapter(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis初始化失败，候选人档案缓存不可用")
		} else {
			s.Redis = redisStore
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis连接成功")
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ初始化失败，候选人事件发布不可用")
		} else {
			s.RabbitMQ = mq
			logger.Info().Msg("RabbitMQ连接成功")
		}
	}

	return s, nil
}

// Close 依次关闭各存储后端
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
}
