package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"resume-agent-go/internal/types"
)

// FieldExtractor 将纯文本与实体序列确定性地转换为结构化候选人记录。
// Extract 是全函数：无信号时产出空/默认字段，绝不返回错误；
// 相同输入两次调用产出逐字节相同的记录。
type FieldExtractor struct {
	rules         *RuleSet
	skillPatterns []*regexp.Regexp // 与 rules.Skills 一一对应
	hobbyPatterns []*regexp.Regexp // 与 rules.HobbyKeywords 一一对应
}

// Option 抽取器配置选项
type Option func(*FieldExtractor)

// WithRules 注入自定义规则集
func WithRules(rules *RuleSet) Option {
	return func(e *FieldExtractor) {
		e.rules = rules
	}
}

// NewFieldExtractor 创建字段抽取器，词表模式在构造时预编译
func NewFieldExtractor(options ...Option) *FieldExtractor {
	e := &FieldExtractor{rules: DefaultRules()}
	for _, option := range options {
		option(e)
	}

	e.skillPatterns = compileWordPatterns(e.rules.Skills)
	e.hobbyPatterns = compileWordPatterns(e.rules.HobbyKeywords)
	return e
}

// compileWordPatterns 为每个关键词编译全词匹配模式
func compileWordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return patterns
}

// Extract 从文本与实体序列派生候选人记录
// entities 随时可能为空序列（模型不可用），所有规则退化为纯文本分支
func (e *FieldExtractor) Extract(text string, entities []types.EntitySpan) types.CandidateRecord {
	record := types.EmptyCandidateRecord()
	lowerText := strings.ToLower(text)
	lines := strings.Split(text, "\n")

	record.Name = e.extractName(entities)
	record.Skills = e.extractSkills(lowerText)
	record.Education = e.extractEducation(lines, entities)
	record.Experience = e.extractExperience(lines, entities)
	record.Certifications, record.Projects = e.extractCertsAndProjects(lines)
	record.Hobbies = e.extractHobbies(lowerText)
	record.Introduction = e.extractIntroduction(lines)

	return record
}

// extractName 取实体序列中首个PERSON类实体，先到先得
func (e *FieldExtractor) extractName(entities []types.EntitySpan) string {
	for _, ent := range entities {
		if hasCategoryPrefix(ent.Category, "PER") {
			return ent.Text
		}
	}
	return ""
}

// extractSkills 全词命中的技能集合，升序去重
func (e *FieldExtractor) extractSkills(lowerText string) []string {
	found := make(map[string]struct{})
	for i, pattern := range e.skillPatterns {
		if pattern.MatchString(lowerText) {
			found[e.rules.Skills[i]] = struct{}{}
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

// extractEducation 按行扫描学历关键词与院校词；零命中时回退到ORG实体
func (e *FieldExtractor) extractEducation(lines []string, entities []types.EntitySpan) types.Education {
	var entries []string
	for _, line := range lines {
		lowerLine := strings.ToLower(line)
		if containsAny(lowerLine, e.rules.DegreeKeywords) || e.rules.InstitutionPattern.MatchString(lowerLine) {
			if trimmed := strings.TrimSpace(line); len(trimmed) > e.rules.MinEducationLineChars {
				entries = append(entries, trimmed)
			}
		}
	}

	if len(entries) == 0 {
		orgs := organizationTexts(entities, e.rules.MaxEntityEducation)
		if len(orgs) > 0 {
			entries = orgs
		}
	}
	return types.Education{Entries: entries}
}

// extractExperience 年份模式与职位关键词同时命中的行，随后追加ORG实体合成行
func (e *FieldExtractor) extractExperience(lines []string, entities []types.EntitySpan) types.Experience {
	var summary []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if e.rules.YearPattern.MatchString(trimmed) && containsAny(strings.ToLower(trimmed), e.rules.RoleKeywords) {
			summary = append(summary, trimmed)
		}
	}

	// ORG实体合成行无条件追加在行扫描结果之后
	for _, org := range organizationTexts(entities, e.rules.MaxEntityExperience) {
		summary = append(summary, fmt.Sprintf("Worked at %s", org))
	}
	return types.Experience{SummaryLines: summary}
}

// extractCertsAndProjects 单次行扫描，同一行可同时进入两个列表，不去重
func (e *FieldExtractor) extractCertsAndProjects(lines []string) (certs []string, projects []string) {
	certs = []string{}
	projects = []string{}
	for _, line := range lines {
		lowerLine := strings.ToLower(line)
		if containsAny(lowerLine, e.rules.CertKeywords) {
			certs = append(certs, strings.TrimSpace(line))
		}
		if containsAny(lowerLine, e.rules.ProjectKeywords) {
			projects = append(projects, strings.TrimSpace(line))
		}
	}
	return certs, projects
}

// extractHobbies 全词命中的兴趣词，顺序跟随词表而非原文
func (e *FieldExtractor) extractHobbies(lowerText string) []string {
	hobbies := []string{}
	for i, pattern := range e.hobbyPatterns {
		if pattern.MatchString(lowerText) {
			hobbies = append(hobbies, e.rules.HobbyKeywords[i])
		}
	}
	return hobbies
}

// extractIntroduction 首个去空白后长度超过阈值的行
func (e *FieldExtractor) extractIntroduction(lines []string) string {
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); len(trimmed) > e.rules.MinIntroLineChars {
			return trimmed
		}
	}
	return ""
}

// hasCategoryPrefix 类别标签的大小写无关前缀匹配
func hasCategoryPrefix(category, prefix string) bool {
	return strings.HasPrefix(strings.ToUpper(category), prefix)
}

// containsAny 任意关键词的子串匹配
func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// organizationTexts 取前 limit 个ORG类实体的文本，保持序列顺序
func organizationTexts(entities []types.EntitySpan, limit int) []string {
	var orgs []string
	for _, ent := range entities {
		if hasCategoryPrefix(ent.Category, "ORG") {
			orgs = append(orgs, ent.Text)
			if len(orgs) == limit {
				break
			}
		}
	}
	return orgs
}
