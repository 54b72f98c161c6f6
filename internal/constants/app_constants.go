package constants

import "time"

// 文本处理上限
const (
	// MaxNERInputChars 实体识别输入上限，调用方需在调用前截断
	MaxNERInputChars = 45000

	// MaxQAContextChars 问答上下文上限，超出时保留尾部切片
	MaxQAContextChars = 20000

	// RawTextSnippetChars 随候选人记录保存的原文片段长度
	RawTextSnippetChars = 3000
)

// RabbitMQ 事件常量
const (
	CandidateEventsExchange      = "candidate.events"
	CandidateEventsExchangeType  = "topic"
	CandidateProcessedRoutingKey = "candidate.processed"
)

// Redis 缓存常量
const (
	// CandidateCacheKeyPrefix 候选人档案缓存键前缀
	CandidateCacheKeyPrefix = "cache:candidate:"

	// DefaultCandidateCacheTTL 候选人档案缓存默认过期时间
	DefaultCandidateCacheTTL = 10 * time.Minute
)

// 上传相关默认值
const (
	DefaultListLimit    = 50
	DefaultUploadTmpDir = "/tmp/resumes"
)
