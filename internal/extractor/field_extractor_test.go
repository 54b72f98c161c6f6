package extractor

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-agent-go/internal/types"
)

func TestExtractEmptyInput(t *testing.T) {
	e := NewFieldExtractor()
	record := e.Extract("", nil)

	assert.Equal(t, "", record.Name)
	assert.Equal(t, "", record.Introduction)
	assert.NotNil(t, record.Skills)
	assert.NotNil(t, record.Hobbies)
	assert.NotNil(t, record.Certifications)
	assert.NotNil(t, record.Projects)
	assert.Empty(t, record.Skills)
	assert.Empty(t, record.Education.Entries)
	assert.Empty(t, record.Experience.SummaryLines)

	// 序列化后空列表必须是 [] 而非 null
	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skills":[]`)
	assert.NotContains(t, string(data), "null")
}

func TestExtractNameFirstPersonEntity(t *testing.T) {
	e := NewFieldExtractor()
	entities := []types.EntitySpan{
		{Text: "Acme Corp", Category: "ORG"},
		{Text: "Jane Doe", Category: "PERSON"},
		{Text: "John Smith", Category: "PER"},
	}
	record := e.Extract("", entities)
	assert.Equal(t, "Jane Doe", record.Name)
}

func TestExtractSkillsDedupSorted(t *testing.T) {
	e := NewFieldExtractor()
	text := "Python and PYTHON again. Knows sql, docker and mysql. pythonic is not a skill."
	record := e.Extract(text, nil)
	assert.Equal(t, []string{"docker", "mysql", "python", "sql"}, record.Skills)
}

func TestExtractEducationLines(t *testing.T) {
	e := NewFieldExtractor()
	text := "Jane Doe\nBachelor of Science in CS\nState University, 2015\nbsc\nWorked on stuff"
	record := e.Extract(text, nil)
	// "bsc" 命中学历关键词但去空白后长度不足,被丢弃
	assert.Equal(t, []string{"Bachelor of Science in CS", "State University, 2015"}, record.Education.Entries)
}

func TestExtractEducationEntityFallback(t *testing.T) {
	e := NewFieldExtractor()
	entities := []types.EntitySpan{
		{Text: "MIT", Category: "ORG"},
		{Text: "Stanford", Category: "ORGANIZATION"},
		{Text: "Jane", Category: "PER"},
		{Text: "CMU", Category: "ORG"},
		{Text: "Berkeley", Category: "ORG"},
	}
	record := e.Extract("no education keywords here", entities)
	// 行扫描零命中时回退到前3个ORG实体
	assert.Equal(t, []string{"MIT", "Stanford", "CMU"}, record.Education.Entries)
}

func TestExtractExperience(t *testing.T) {
	e := NewFieldExtractor()
	text := "Software Engineer at Acme from 2018 to 2021\nManager since forever\nJust 2019 alone"
	entities := []types.EntitySpan{
		{Text: "Acme Corp", Category: "ORG"},
		{Text: "Globex", Category: "ORG"},
	}
	record := e.Extract(text, entities)
	// 年份与职位关键词同时命中的行在前,ORG合成行无条件追加在后
	assert.Equal(t, []string{
		"Software Engineer at Acme from 2018 to 2021",
		"Worked at Acme Corp",
		"Worked at Globex",
	}, record.Experience.SummaryLines)
}

func TestExtractCertsAndProjectsSameLine(t *testing.T) {
	e := NewFieldExtractor()
	text := "Completed a certificate project on github.com\nAWS certified\nMy project portfolio"
	record := e.Extract(text, nil)
	// 同一行可同时进入证书与项目两个列表
	assert.Equal(t, []string{"Completed a certificate project on github.com", "AWS certified"}, record.Certifications)
	assert.Equal(t, []string{"Completed a certificate project on github.com", "My project portfolio"}, record.Projects)
}

func TestExtractHobbiesKeywordOrder(t *testing.T) {
	e := NewFieldExtractor()
	text := "enjoys football, gaming and reading"
	record := e.Extract(text, nil)
	// 结果顺序跟随词表顺序而非原文顺序
	assert.Equal(t, []string{"reading", "gaming", "football"}, record.Hobbies)
}

func TestExtractIntroductionFirstLongLine(t *testing.T) {
	e := NewFieldExtractor()
	text := "Jane Doe\nshort line\nA passionate software engineer with ten years of experience."
	record := e.Extract(text, nil)
	assert.Equal(t, "A passionate software engineer with ten years of experience.", record.Introduction)
}

func TestExtractDeterministic(t *testing.T) {
	e := NewFieldExtractor()
	text := "Jane Doe\nBachelor at State University 2015\nSoftware Engineer 2018\npython sql\nenjoys reading"
	entities := []types.EntitySpan{
		{Text: "Jane Doe", Category: "PER"},
		{Text: "Acme", Category: "ORG"},
	}

	first := e.Extract(text, entities)
	second := e.Extract(text, entities)
	assert.Equal(t, first, second)
}

func TestExtractWithInjectedRules(t *testing.T) {
	rules := &RuleSet{
		Skills:                []string{"go"},
		DegreeKeywords:        []string{"学士"},
		InstitutionPattern:    regexp.MustCompile(`\buni\b`),
		RoleKeywords:          []string{"工程师"},
		YearPattern:           regexp.MustCompile(`(19|20)\d{2}`),
		CertKeywords:          []string{"证书"},
		ProjectKeywords:       []string{"项目"},
		HobbyKeywords:         []string{"chess"},
		MinEducationLineChars: 2,
		MinIntroLineChars:     5,
		MaxEntityEducation:    1,
		MaxEntityExperience:   1,
	}
	e := NewFieldExtractor(WithRules(rules))

	text := "会写 go 的工程师 2020\n喜欢 chess"
	record := e.Extract(text, nil)
	assert.Equal(t, []string{"go"}, record.Skills)
	assert.Equal(t, []string{"chess"}, record.Hobbies)
	assert.Equal(t, []string{"会写 go 的工程师 2020"}, record.Experience.SummaryLines)
}
