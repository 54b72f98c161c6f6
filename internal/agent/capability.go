package agent

import (
	"time"

	"github.com/cloudwego/eino/components/model"

	"resume-agent-go/internal/config"
	"resume-agent-go/internal/logger"
)

// Capability 启动时一次性构造的模型能力。服务期间只读，不再变更。
// Chat 为 nil 即"不可用"状态：NER返回空序列，QA走启发式回退。
type Capability struct {
	Chat model.ChatModel
}

// Available 报告学习型模型后端是否已加载
func (c Capability) Available() bool {
	return c.Chat != nil
}

// Load 尝试加载模型能力。加载失败不是致命错误：
// 记录警告并返回不可用能力，服务以纯启发式模式继续运行。
func Load(cfg *config.Config) Capability {
	if cfg.Qwen.APIKey == "" {
		logger.Warn().Msg("未配置Qwen API Key，模型能力不可用，NER/QA将使用启发式路径")
		return Capability{}
	}

	m, err := NewQwenChatModel(
		cfg.Qwen.APIKey,
		cfg.Qwen.Model,
		cfg.Qwen.APIURL,
		time.Duration(cfg.Qwen.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("加载模型能力失败，降级为启发式模式")
		return Capability{}
	}

	logger.Info().Str("model", cfg.Qwen.Model).Msg("模型能力加载成功")
	return Capability{Chat: m}
}
