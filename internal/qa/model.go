package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// AnswerResult 模型返回的单个答案
type AnswerResult struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score,omitempty"`
}

// QAModel 抽取式问答的学习型后端
// 实现须在能力边界完成输出形状归一化：返回值恒为非空答案序列或错误
type QAModel interface {
	Infer(ctx context.Context, question, context string, topK int) ([]AnswerResult, error)
}

const qaSystemPrompt = `你是一个抽取式问答模型。根据给定的候选人资料回答问题，答案必须取自资料原文。
只输出JSON，形如 {"answer": "..."}；需要多个候选答案时输出数组 [{"answer": "...", "score": 0.9}, ...]。
不要输出任何其他内容。`

// LLMQuestionAnswerer 基于聊天模型的QAModel实现
type LLMQuestionAnswerer struct {
	model model.ChatModel
}

// NewLLMQuestionAnswerer 创建模型问答后端
func NewLLMQuestionAnswerer(m model.ChatModel) *LLMQuestionAnswerer {
	return &LLMQuestionAnswerer{model: m}
}

// Infer 调用模型并归一化输出
func (l *LLMQuestionAnswerer) Infer(ctx context.Context, question, contextText string, topK int) ([]AnswerResult, error) {
	userPrompt := fmt.Sprintf("资料:\n%s\n\n问题: %s\n返回最多%d个答案。", contextText, question, topK)
	messages := []*schema.Message{
		schema.SystemMessage(qaSystemPrompt),
		schema.UserMessage(userPrompt),
	}

	resp, err := l.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("QA模型调用失败: %w", err)
	}
	return decodeAnswers(resp.Content)
}

var _ QAModel = (*LLMQuestionAnswerer)(nil)

var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*([\\[{].*?[\\]}])\\s*```")

// errorPayload 模型以 {"error": "..."} 形状报告失败
type errorPayload struct {
	Error string `json:"error"`
}

// decodeAnswers 在能力边界归一化模型输出的两种合法形状：
// 单个答案对象，或非空答案对象数组。带error键的对象与空数组均视为错误。
// 核心回答逻辑不再检视形状。
func decodeAnswers(content string) ([]AnswerResult, error) {
	jsonStr := extractJSONPayload(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("模型输出中没有可解析的JSON: %q", truncateForError(content))
	}

	if strings.HasPrefix(jsonStr, "[") {
		var list []AnswerResult
		if err := json.Unmarshal([]byte(jsonStr), &list); err != nil {
			return nil, fmt.Errorf("解析答案数组失败: %w", err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("模型返回了空答案数组")
		}
		return list, nil
	}

	var ep errorPayload
	if err := json.Unmarshal([]byte(jsonStr), &ep); err == nil && ep.Error != "" {
		return nil, fmt.Errorf("模型报告错误: %s", ep.Error)
	}

	var single AnswerResult
	if err := json.Unmarshal([]byte(jsonStr), &single); err != nil {
		return nil, fmt.Errorf("解析答案对象失败: %w", err)
	}
	return []AnswerResult{single}, nil
}

// extractJSONPayload 从模型输出中提取JSON对象或数组
func extractJSONPayload(text string) string {
	matches := jsonFenceRe.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	for i := 0; i < len(text); i++ {
		var open, close byte
		switch text[i] {
		case '{':
			open, close = '{', '}'
		case '[':
			open, close = '[', ']'
		default:
			continue
		}
		level := 0
		for j := i; j < len(text); j++ {
			switch text[j] {
			case open:
				level++
			case close:
				level--
				if level == 0 {
					return strings.TrimSpace(text[i : j+1])
				}
			}
		}
		return ""
	}
	return ""
}

func truncateForError(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
