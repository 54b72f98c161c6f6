package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ResumeMetadata 上传文件元数据表
// 自增ID是候选人标识的权威来源；读回失败时由存储层生成回退UUID
type ResumeMetadata struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	StoragePath string    `gorm:"type:varchar(1024);not null"`
	UploadedAt  time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	CreatedAt   time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (ResumeMetadata) TableName() string {
	return "resumes_metadata"
}

// CandidateDoc 候选人结构化记录表
// RecordJSON 保存完整的结构化记录；Name/SkillsJSON/Introduction 为列表查询冗余列
type CandidateDoc struct {
	CandidateID    string         `gorm:"type:varchar(64);primaryKey"`
	FileName       string         `gorm:"type:varchar(255)"`
	StoragePath    string         `gorm:"type:varchar(1024)"`
	UploadedAt     time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_candidates_uploaded_at"`
	RawTextSnippet string         `gorm:"type:text"`
	Name           string         `gorm:"type:varchar(255)"`
	SkillsJSON     datatypes.JSON `gorm:"type:json"`
	Introduction   string         `gorm:"type:text"`
	RecordJSON     datatypes.JSON `gorm:"type:json"`
	CreatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (CandidateDoc) TableName() string {
	return "candidates"
}

// ToJSON 把任意值序列化为JSON列
func ToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
