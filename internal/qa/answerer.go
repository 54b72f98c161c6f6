package qa

import (
	"context"
	"fmt"
	"strings"

	"resume-agent-go/internal/constants"
	"resume-agent-go/internal/types"
)

const (
	// noAnswerText 启发式路径无命中时的固定回答
	noAnswerText = "No clear answer found in stored data."

	// maxFallbackKeywords 启发式路径取用的问题词数
	maxFallbackKeywords = 3

	// minFallbackLineChars 参与启发式匹配的最短行长（去空白后）
	minFallbackLineChars = 3
)

// Answerer 两路问答状态机：
//   - 模型可用：上下文尾部截断到上限后交给模型，输出在能力边界已归一化。
//     模型调用失败时返回携带错误文本的降级答案，不回落到启发式路径——
//     这一不对称是既有行为，保留以便模型错误与"无模型"两种状态可区分。
//   - 模型不可用：对上下文做关键词逐行匹配的确定性回退。
//
// Answer 对外绝不失败。
type Answerer struct {
	model QAModel // nil 表示模型能力不可用
}

// AnswererOption 问答器配置选项
type AnswererOption func(*Answerer)

// NewAnswerer 创建问答器，model 为 nil 时走纯启发式路径
func NewAnswerer(model QAModel, options ...AnswererOption) *Answerer {
	a := &Answerer{model: model}
	for _, option := range options {
		option(a)
	}
	return a
}

// Answer 回答针对候选人记录的自由文本问题
func (a *Answerer) Answer(ctx context.Context, question string, record types.CandidateRecord) types.QAAnswer {
	contextText := BuildContext(record)

	if a.model != nil {
		truncated := TailTruncate(contextText, constants.MaxQAContextChars)
		answers, err := a.model.Infer(ctx, question, truncated, 1)
		if err != nil {
			return types.QAAnswer{
				Answer:   fmt.Sprintf("QA failed: %v", err),
				Degraded: true,
			}
		}
		return types.QAAnswer{Answer: answers[0].Answer}
	}

	return heuristicAnswer(question, contextText)
}

// heuristicAnswer 取问题小写后的前三个词作关键词，
// 返回上下文中首个包含任一关键词的行；无命中返回固定文案。
func heuristicAnswer(question, contextText string) types.QAAnswer {
	tokens := strings.Fields(strings.ToLower(question))
	if len(tokens) > maxFallbackKeywords {
		tokens = tokens[:maxFallbackKeywords]
	}

	for _, line := range strings.Split(contextText, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < minFallbackLineChars {
			continue
		}
		lowerLine := strings.ToLower(line)
		for _, keyword := range tokens {
			if strings.Contains(lowerLine, keyword) {
				return types.QAAnswer{Answer: trimmed}
			}
		}
	}
	return types.QAAnswer{Answer: noAnswerText}
}
