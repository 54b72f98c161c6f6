package qa

import (
	"strings"

	"resume-agent-go/internal/types"
)

// contextFieldOrder 上下文装配的固定字段顺序，与输入顺序无关
var contextFieldOrder = []string{
	"introduction", "education", "experience", "skills", "certifications", "projects", "hobbies",
}

// BuildContext 把候选人记录渲染为问答证据文本：
// 每个非空字段一个块，大写字段名作标题行，序列字段每元素一行，块间空行分隔。
func BuildContext(record types.CandidateRecord) string {
	var parts []string
	for _, field := range contextFieldOrder {
		lines := fieldLines(record, field)
		if len(lines) == 0 {
			continue
		}
		part := strings.ToUpper(field) + ":\n" + strings.Join(lines, "\n") + "\n"
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n")
}

// fieldLines 字段内容的逐行文本渲染，空字段返回nil
func fieldLines(record types.CandidateRecord, field string) []string {
	switch field {
	case "introduction":
		if record.Introduction == "" {
			return nil
		}
		return []string{record.Introduction}
	case "education":
		return record.Education.Entries
	case "experience":
		return record.Experience.SummaryLines
	case "skills":
		return record.Skills
	case "certifications":
		return record.Certifications
	case "projects":
		return record.Projects
	case "hobbies":
		return record.Hobbies
	default:
		return nil
	}
}

// TailTruncate 保留字符串尾部切片，从头部丢弃超出部分
func TailTruncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
