package parser

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"resume-agent-go/internal/constants"
	"resume-agent-go/internal/logger"
	"resume-agent-go/internal/types"
)

const nerSystemPrompt = `你是一个命名实体识别器。从给定的简历文本中识别人名(PERSON)和机构名(ORGANIZATION)。
只输出JSON数组，不要输出任何其他内容。每个元素形如 {"text": "...", "category": "PERSON"}，
按实体在原文中的出现顺序排列。没有实体时输出 []。`

// LLMEntityRecognizer 使用聊天模型做实体识别的尽力而为能力
// 模型缺失或调用/解析失败时一律返回空序列，绝不向上传播错误
type LLMEntityRecognizer struct {
	model model.ChatModel
}

// NewLLMEntityRecognizer 创建实体识别器，m 可以为 nil（能力不可用）
func NewLLMEntityRecognizer(m model.ChatModel) *LLMEntityRecognizer {
	return &LLMEntityRecognizer{model: m}
}

// Recognize 识别文本中的实体片段
// 输入超过 constants.MaxNERInputChars 时截断后再调用模型
func (r *LLMEntityRecognizer) Recognize(ctx context.Context, text string) []types.EntitySpan {
	if r == nil || r.model == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	if len(text) > constants.MaxNERInputChars {
		text = text[:constants.MaxNERInputChars]
	}

	messages := []*schema.Message{
		schema.SystemMessage(nerSystemPrompt),
		schema.UserMessage(text),
	}

	resp, err := r.model.Generate(ctx, messages)
	if err != nil {
		logger.Warn().Err(err).Msg("实体识别模型调用失败，返回空实体序列")
		return nil
	}

	spans, err := decodeEntitySpans(resp.Content)
	if err != nil {
		logger.Warn().Err(err).Msg("实体识别输出解析失败，返回空实体序列")
		return nil
	}
	return spans
}

// rawEntity 兼容两种输出键名：text/category 与 word/entity_group
type rawEntity struct {
	Text        string `json:"text"`
	Word        string `json:"word"`
	Category    string `json:"category"`
	EntityGroup string `json:"entity_group"`
}

// decodeEntitySpans 在能力边界把模型输出归一化为实体序列
func decodeEntitySpans(content string) ([]types.EntitySpan, error) {
	jsonStr := extractJSONArray(content)
	if jsonStr == "" {
		return nil, nil
	}

	var raw []rawEntity
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, err
	}

	spans := make([]types.EntitySpan, 0, len(raw))
	for _, e := range raw {
		text := e.Text
		if text == "" {
			text = e.Word
		}
		category := e.Category
		if category == "" {
			category = e.EntityGroup
		}
		if text == "" {
			continue
		}
		spans = append(spans, types.EntitySpan{Text: text, Category: category})
	}
	return spans, nil
}

var jsonArrayFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")

// extractJSONArray 从模型输出中提取JSON数组（防止返回的不是纯JSON）
func extractJSONArray(text string) string {
	matches := jsonArrayFenceRe.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(text, "[")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '[':
			level++
		case ']':
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}
