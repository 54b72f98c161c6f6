package types

import "time"

// EntitySpan 实体识别输出的单个片段
// Category 是粗粒度类别标签（如 PER/PERSON、ORG/ORGANIZATION），按前缀做大小写无关匹配
type EntitySpan struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Education 教育经历，Entries 按原文行序排列
type Education struct {
	Entries []string `json:"entries,omitempty"`
}

// Experience 工作经历摘要
type Experience struct {
	SummaryLines []string `json:"summary_lines,omitempty"`
}

// CandidateRecord 一份简历抽取后的结构化候选人记录
// 七类字段恒定存在且类型正确：无信号时为空串/空列表/空对象，绝不为null，
// 下游消费方无需做存在性检查。Skills 升序去重。
type CandidateRecord struct {
	Name           string     `json:"name"`
	Education      Education  `json:"education"`
	Experience     Experience `json:"experience"`
	Skills         []string   `json:"skills"`
	Hobbies        []string   `json:"hobbies"`
	Certifications []string   `json:"certifications"`
	Projects       []string   `json:"projects"`
	Introduction   string     `json:"introduction"`
}

// EmptyCandidateRecord 返回所有字段均为类型正确默认值的记录
func EmptyCandidateRecord() CandidateRecord {
	return CandidateRecord{
		Skills:         []string{},
		Hobbies:        []string{},
		Certifications: []string{},
		Projects:       []string{},
	}
}

// CandidateProfile 候选人完整档案：结构化记录加上传元数据
type CandidateProfile struct {
	CandidateID    string    `json:"candidate_id"`
	FileName       string    `json:"file_name"`
	StoragePath    string    `json:"storage_path"`
	UploadedAt     time.Time `json:"uploaded_at"`
	RawTextSnippet string    `json:"raw_text_snippet"`
	CandidateRecord
}

// CandidateSummary 列表接口使用的候选人摘要投影
type CandidateSummary struct {
	CandidateID string    `json:"candidate_id"`
	Name        string    `json:"name"`
	Skills      []string  `json:"skills"`
	UploadedAt  time.Time `json:"uploaded_at"`
	BriefIntro  string    `json:"brief_intro"`
}

// QAAnswer 问答结果。Degraded 为 true 表示模型调用失败，Answer 携带错误描述
type QAAnswer struct {
	Answer   string `json:"answer"`
	Degraded bool   `json:"degraded,omitempty"`
}
