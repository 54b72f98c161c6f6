package extractor

import "regexp"

// RuleSet 字段抽取规则集。全部规则以数据形式给出，
// 便于在测试中注入小规则集而无需改代码。
type RuleSet struct {
	// Skills 技能词表，命中条件为全词匹配（小写化全文）
	Skills []string

	// DegreeKeywords 学历关键词，命中条件为子串匹配（小写化行）
	DegreeKeywords []string

	// InstitutionPattern 院校词全词模式
	InstitutionPattern *regexp.Regexp

	// RoleKeywords 职位关键词，与年份模式同时命中才算工作经历行
	RoleKeywords []string

	// YearPattern 四位年份模式
	YearPattern *regexp.Regexp

	// CertKeywords / ProjectKeywords 证书与项目行的子串关键词
	CertKeywords    []string
	ProjectKeywords []string

	// HobbyKeywords 兴趣词表，结果顺序跟随词表顺序而非原文顺序
	HobbyKeywords []string

	// MinEducationLineChars 教育行的最短长度（去空白后，需严格大于）
	MinEducationLineChars int

	// MinIntroLineChars 简介行的最短长度（去空白后，需严格大于）
	MinIntroLineChars int

	// MaxEntityEducation 教育回退时取用的ORG实体上限
	MaxEntityEducation int

	// MaxEntityExperience 合成"Worked at"行时取用的ORG实体上限
	MaxEntityExperience int
}

// DefaultRules 返回内置规则集
func DefaultRules() *RuleSet {
	return &RuleSet{
		Skills: []string{
			"python", "java", "c++", "c", "javascript", "sql", "nosql", "mongodb", "postgresql", "mysql",
			"pandas", "numpy", "scikit-learn", "tensorflow", "keras", "pytorch", "fastapi", "flask",
			"docker", "kubernetes", "aws", "gcp", "azure", "html", "css", "react", "node", "spark", "hadoop",
		},
		DegreeKeywords: []string{
			"bachelor", "bsc", "b.tech", "btech", "bs", "master", "msc", "m.tech", "mtech", "ms", "phd", "diploma",
		},
		InstitutionPattern: regexp.MustCompile(`\b(university|college|institute|school)\b`),
		RoleKeywords: []string{
			"intern", "engineer", "manager", "associate", "analyst", "developer",
		},
		YearPattern:     regexp.MustCompile(`(19|20)\d{2}`),
		CertKeywords:    []string{"certif", "course", "certificate"},
		ProjectKeywords: []string{"project", "github.com"},
		HobbyKeywords: []string{
			"reading", "travelling", "travel", "music", "photography", "gaming", "sports", "cricket", "football",
		},
		MinEducationLineChars: 5,
		MinIntroLineChars:     30,
		MaxEntityEducation:    3,
		MaxEntityExperience:   5,
	}
}
