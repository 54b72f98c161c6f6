package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gofrs/uuid/v5"

	"resume-agent-go/internal/config"
	"resume-agent-go/internal/constants"
	"resume-agent-go/internal/extractor"
	"resume-agent-go/internal/logger"
	"resume-agent-go/internal/parser"
	"resume-agent-go/internal/qa"
	"resume-agent-go/internal/storage"
	"resume-agent-go/internal/storage/models"
	"resume-agent-go/internal/types"
)

// UploadResponse 简历上传接口响应
type UploadResponse struct {
	Message     string `json:"message"`
	CandidateID string `json:"candidate_id"`
	DegradedID  bool   `json:"degraded_id,omitempty"`
}

// AskRequest 候选人问答请求体
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse 候选人问答响应
type AskResponse struct {
	CandidateID string `json:"candidate_id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Degraded    bool   `json:"degraded,omitempty"`
}

// ResumeHandler 简历上传、候选人查询与问答的HTTP处理器
type ResumeHandler struct {
	cfg            *config.Config
	storage        *storage.Storage
	textExtractor  parser.TextExtractor
	recognizer     *parser.LLMEntityRecognizer
	fieldExtractor *extractor.FieldExtractor
	answerer       *qa.Answerer
}

// NewResumeHandler 创建处理器
func NewResumeHandler(
	cfg *config.Config,
	store *storage.Storage,
	textExtractor parser.TextExtractor,
	recognizer *parser.LLMEntityRecognizer,
	fieldExtractor *extractor.FieldExtractor,
	answerer *qa.Answerer,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:            cfg,
		storage:        store,
		textExtractor:  textExtractor,
		recognizer:     recognizer,
		fieldExtractor: fieldExtractor,
		answerer:       answerer,
	}
}

// HandleResumeUpload 处理简历上传：落盘、解析、抽取、持久化
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少上传文件字段 'file'"})
		return
	}

	format, err := parser.DetectFormat(fileHeader.Filename)
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "Only .pdf and .docx allowed"})
		return
	}

	maxBytes := int64(h.cfg.Upload.MaxFileSizeMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		c.JSON(consts.StatusBadRequest, utils.H{
			"error": fmt.Sprintf("文件过大，上限 %dMB", h.cfg.Upload.MaxFileSizeMB),
		})
		return
	}

	uid, err := uuid.NewV7()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("生成上传标识失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "internal error"})
		return
	}
	candidateUID := uid.String()

	// 先落盘到临时目录,解析器以文件路径为输入
	tmpPath, err := h.saveToTmpFile(fileHeader, candidateUID)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("file_name", fileHeader.Filename).Msg("保存上传文件到临时目录失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to store uploaded file"})
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logger.Ctx(ctx).Warn().Err(err).Str("path", tmpPath).Msg("删除临时文件失败")
		}
	}()

	rawText, err := h.textExtractor.ExtractText(ctx, tmpPath, format)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("file_name", fileHeader.Filename).Msg("解析简历文本失败")
		c.JSON(consts.StatusUnprocessableEntity, utils.H{"error": fmt.Sprintf("failed to extract text: %v", err)})
		return
	}

	// 实体识别输入有上限,失败被吸收为空结果;规则抽取仍基于完整原文运行
	entities := h.recognizer.Recognize(ctx, truncateChars(rawText, constants.MaxNERInputChars))
	record := h.fieldExtractor.Extract(rawText, entities)

	uploadedAt := time.Now()

	tmpFile, err := os.Open(tmpPath)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("path", tmpPath).Msg("重新打开临时文件失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "internal error"})
		return
	}
	objectKey, err := h.storage.MinIO.UploadResumeFile(ctx, candidateUID, fileHeader.Filename, tmpFile, fileHeader.Size)
	_ = tmpFile.Close()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("file_name", fileHeader.Filename).Msg("上传简历原始文件失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to store resume file"})
		return
	}

	// 解析文本副本仅用于排查,失败不影响主流程
	if _, err := h.storage.MinIO.UploadParsedText(ctx, candidateUID, rawText); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("candidate_uid", candidateUID).Msg("上传解析文本副本失败")
	}

	meta := &models.ResumeMetadata{
		FileName:    fileHeader.Filename,
		StoragePath: objectKey,
		UploadedAt:  uploadedAt,
	}
	result := h.storage.MySQL.InsertResumeMetadata(ctx, meta)

	doc, err := h.buildCandidateDoc(result.CandidateID, fileHeader.Filename, objectKey, uploadedAt, rawText, record)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("candidate_id", result.CandidateID).Msg("构造候选人记录失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "internal error"})
		return
	}
	if err := h.storage.MySQL.SaveCandidate(ctx, doc); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("candidate_id", result.CandidateID).Msg("保存候选人记录失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to persist candidate record"})
		return
	}

	h.afterPersist(ctx, doc, record)

	logger.Ctx(ctx).Info().
		Str("candidate_id", result.CandidateID).
		Str("file_name", fileHeader.Filename).
		Bool("degraded_id", result.DegradedID).
		Msg("简历上传处理完成")

	c.JSON(consts.StatusCreated, UploadResponse{
		Message:     "Uploaded and processed",
		CandidateID: result.CandidateID,
		DegradedID:  result.DegradedID,
	})
}

// saveToTmpFile 把上传文件保存到临时目录，文件名为 {uid}_{原始文件名}
func (h *ResumeHandler) saveToTmpFile(fileHeader *multipart.FileHeader, candidateUID string) (string, error) {
	tmpDir := h.cfg.Upload.TmpDir
	if tmpDir == "" {
		tmpDir = constants.DefaultUploadTmpDir
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("创建临时目录失败: %w", err)
	}

	// 只取文件名部分，防止路径穿越
	safeName := filepath.Base(fileHeader.Filename)
	tmpPath := filepath.Join(tmpDir, fmt.Sprintf("%s_%s", candidateUID, safeName))

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("写入临时文件失败: %w", err)
	}
	return tmpPath, nil
}

func truncateChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// buildCandidateDoc 组装候选人记录行
func (h *ResumeHandler) buildCandidateDoc(candidateID, fileName, storagePath string, uploadedAt time.Time, rawText string, record types.CandidateRecord) (*models.CandidateDoc, error) {
	recordJSON, err := models.ToJSON(record)
	if err != nil {
		return nil, fmt.Errorf("序列化候选人记录失败: %w", err)
	}
	skillsJSON, err := models.ToJSON(record.Skills)
	if err != nil {
		return nil, fmt.Errorf("序列化技能列表失败: %w", err)
	}

	return &models.CandidateDoc{
		CandidateID:    candidateID,
		FileName:       fileName,
		StoragePath:    storagePath,
		UploadedAt:     uploadedAt,
		RawTextSnippet: truncateChars(rawText, constants.RawTextSnippetChars),
		Name:           record.Name,
		SkillsJSON:     skillsJSON,
		Introduction:   record.Introduction,
		RecordJSON:     recordJSON,
	}, nil
}

// afterPersist 持久化成功后的可选增强：缓存写入与事件发布，失败只记录警告
func (h *ResumeHandler) afterPersist(ctx context.Context, doc *models.CandidateDoc, record types.CandidateRecord) {
	if h.storage.Redis != nil {
		profile := profileFromDoc(doc, record)
		if err := h.storage.Redis.CacheCandidateProfile(ctx, profile); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("candidate_id", doc.CandidateID).Msg("写入候选人档案缓存失败")
		}
	}

	if h.storage.RabbitMQ != nil {
		event := storage.NewCandidateProcessedEvent(doc.CandidateID, doc.FileName, doc.UploadedAt)
		if err := h.storage.RabbitMQ.PublishJSON(ctx, constants.CandidateProcessedRoutingKey, event); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("candidate_id", doc.CandidateID).Msg("发布候选人处理完成事件失败")
		}
	}
}

// HandleListCandidates 列出候选人摘要，按上传时间倒序
func (h *ResumeHandler) HandleListCandidates(ctx context.Context, c *app.RequestContext) {
	limit := constants.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(consts.StatusBadRequest, utils.H{"error": "limit必须是正整数"})
			return
		}
		limit = parsed
	}

	summaries, err := h.storage.MySQL.ListCandidates(ctx, limit)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("查询候选人列表失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to list candidates"})
		return
	}

	c.JSON(consts.StatusOK, utils.H{"candidates": summaries})
}

// HandleGetCandidate 查询单个候选人档案，优先走缓存
func (h *ResumeHandler) HandleGetCandidate(ctx context.Context, c *app.RequestContext) {
	candidateID := c.Param("id")
	if candidateID == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少候选人标识"})
		return
	}

	profile, err := h.loadProfile(ctx, candidateID)
	if errors.Is(err, storage.ErrCandidateNotFound) {
		c.JSON(consts.StatusNotFound, utils.H{"error": "candidate not found"})
		return
	}
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("candidate_id", candidateID).Msg("读取候选人档案失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to load candidate"})
		return
	}

	c.JSON(consts.StatusOK, profile)
}

// HandleAskCandidate 针对候选人档案回答问题
func (h *ResumeHandler) HandleAskCandidate(ctx context.Context, c *app.RequestContext) {
	candidateID := c.Param("id")
	if candidateID == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少候选人标识"})
		return
	}

	var req AskRequest
	if err := c.BindJSON(&req); err != nil || req.Question == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体需包含非空的 'question' 字段"})
		return
	}

	profile, err := h.loadProfile(ctx, candidateID)
	if errors.Is(err, storage.ErrCandidateNotFound) {
		c.JSON(consts.StatusNotFound, utils.H{"error": "candidate not found"})
		return
	}
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("candidate_id", candidateID).Msg("读取候选人档案失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to load candidate"})
		return
	}

	answer := h.answerer.Answer(ctx, req.Question, profile.CandidateRecord)

	c.JSON(consts.StatusOK, AskResponse{
		CandidateID: candidateID,
		Question:    req.Question,
		Answer:      answer.Answer,
		Degraded:    answer.Degraded,
	})
}

// loadProfile 先查缓存,未命中或缓存不可用时回源MySQL并回填缓存
func (h *ResumeHandler) loadProfile(ctx context.Context, candidateID string) (*types.CandidateProfile, error) {
	if h.storage.Redis != nil {
		cached, err := h.storage.Redis.GetCachedCandidateProfile(ctx, candidateID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Ctx(ctx).Warn().Err(err).Str("candidate_id", candidateID).Msg("读取候选人档案缓存失败")
		}
	}

	doc, err := h.storage.MySQL.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	record := types.EmptyCandidateRecord()
	if len(doc.RecordJSON) > 0 {
		if err := json.Unmarshal(doc.RecordJSON, &record); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("candidate_id", candidateID).Msg("解析候选人记录JSON失败")
			record = types.EmptyCandidateRecord()
		}
	}

	profile := profileFromDoc(doc, record)

	if h.storage.Redis != nil {
		if err := h.storage.Redis.CacheCandidateProfile(ctx, profile); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("candidate_id", candidateID).Msg("回填候选人档案缓存失败")
		}
	}
	return profile, nil
}

func profileFromDoc(doc *models.CandidateDoc, record types.CandidateRecord) *types.CandidateProfile {
	return &types.CandidateProfile{
		CandidateID:     doc.CandidateID,
		FileName:        doc.FileName,
		StoragePath:     doc.StoragePath,
		UploadedAt:      doc.UploadedAt,
		RawTextSnippet:  doc.RawTextSnippet,
		CandidateRecord: record,
	}
}
