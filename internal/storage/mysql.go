package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-agent-go/internal/config"
	"resume-agent-go/internal/logger"
	"resume-agent-go/internal/storage/models"
	"resume-agent-go/internal/tracing"
	"resume-agent-go/internal/types"
)

var mysqlTracer = otel.Tracer("resume-agent-go/storage/mysql")

// ErrCandidateNotFound 查询的候选人不存在
var ErrCandidateNotFound = errors.New("candidate not found")

// PersistResult 元数据持久化结果
// DegradedID 为 true 表示元数据写入或标识读回失败，
// CandidateID 是本地生成的回退UUID而非存储分配的标识
type PersistResult struct {
	CandidateID string `json:"candidate_id"`
	DegradedID  bool   `json:"degraded_id,omitempty"`
}

// MySQL 候选人记录与元数据存储
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL存储并自动迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	logLevel := gormlogger.LogLevel(cfg.LogLevel)
	if logLevel == 0 {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层DB连接失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MySQL) autoMigrateSchema() error {
	if err := m.db.AutoMigrate(&models.ResumeMetadata{}, &models.CandidateDoc{}); err != nil {
		return fmt.Errorf("自动迁移表结构失败: %w", err)
	}
	return nil
}

// DB 返回底层gorm实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertResumeMetadata 写入上传元数据并返回候选人标识。
// 写入失败或自增ID读回异常时不阻断上传流程：
// 记录警告并返回本地生成的回退UUID，DegradedID置位。
func (m *MySQL) InsertResumeMetadata(ctx context.Context, meta *models.ResumeMetadata) PersistResult {
	err := m.db.WithContext(ctx).Create(meta).Error
	if err == nil && meta.ID > 0 {
		return PersistResult{CandidateID: strconv.FormatUint(meta.ID, 10)}
	}

	if err != nil {
		logger.Warn().Err(err).Str("file_name", meta.FileName).
			Msg("写入简历元数据失败，改用本地生成的候选人标识")
	} else {
		logger.Warn().Str("file_name", meta.FileName).
			Msg("简历元数据写入成功但未读回自增ID，改用本地生成的候选人标识")
	}

	fallback, genErr := uuid.NewV7()
	if genErr != nil {
		// NewV7 仅在系统熵源异常时失败，此时退回V4
		fallback = uuid.Must(uuid.NewV4())
	}
	return PersistResult{CandidateID: fallback.String(), DegradedID: true}
}

// SaveCandidate 写入候选人结构化记录，失败是上传流程的硬失败
func (m *MySQL) SaveCandidate(ctx context.Context, doc *models.CandidateDoc) error {
	ctx, span := mysqlTracer.Start(ctx, "mysql.SaveCandidate", trace.WithAttributes(
		attribute.String("candidate.id", doc.CandidateID),
		attribute.String("candidate.name", tracing.SafeAttributeValue("name", doc.Name, tracing.DefaultMaxLength)),
	))
	defer span.End()

	if err := m.db.WithContext(ctx).Create(doc).Error; err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return fmt.Errorf("写入候选人记录失败: %w", err)
	}
	return nil
}

// GetCandidate 按标识读取候选人记录
func (m *MySQL) GetCandidate(ctx context.Context, candidateID string) (*models.CandidateDoc, error) {
	var doc models.CandidateDoc
	err := m.db.WithContext(ctx).First(&doc, "candidate_id = ?", candidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取候选人记录失败: %w", err)
	}
	return &doc, nil
}

// ListCandidates 按上传时间倒序列出候选人摘要
func (m *MySQL) ListCandidates(ctx context.Context, limit int) ([]types.CandidateSummary, error) {
	var docs []models.CandidateDoc
	err := m.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("查询候选人列表失败: %w", err)
	}

	summaries := make([]types.CandidateSummary, 0, len(docs))
	for _, doc := range docs {
		skills := []string{}
		if len(doc.SkillsJSON) > 0 {
			if err := json.Unmarshal(doc.SkillsJSON, &skills); err != nil {
				logger.Warn().Err(err).Str("candidate_id", doc.CandidateID).Msg("解析技能列失败")
				skills = []string{}
			}
		}
		summaries = append(summaries, types.CandidateSummary{
			CandidateID: doc.CandidateID,
			Name:        doc.Name,
			Skills:      skills,
			UploadedAt:  doc.UploadedAt,
			BriefIntro:  doc.Introduction,
		})
	}
	return summaries, nil
}
