package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"resume-agent-go/internal/config"
	"resume-agent-go/internal/logger"
)

// MinIO 简历原始文件的对象存储
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
}

// NewMinIO 创建MinIO客户端并确保目标桶存在
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg, bucket: cfg.ResumesBucket}
	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在失败: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.cfg.Location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", m.bucket, err)
	}
	logger.Info().Str("bucket", m.bucket).Msg("创建MinIO存储桶成功")
	return nil
}

// UploadResumeFile 上传简历原始文件，对象键为 {候选人UID}/{原始文件名}
func (m *MinIO) UploadResumeFile(ctx context.Context, candidateUID, filename string, reader io.Reader, size int64) (string, error) {
	objectKey := fmt.Sprintf("%s/%s", candidateUID, filename)

	_, err := m.client.PutObject(ctx, m.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: getContentType(filename),
	})
	if err != nil {
		return "", fmt.Errorf("上传简历文件到MinIO失败 (key=%s): %w", objectKey, err)
	}

	logger.Debug().Str("bucket", m.bucket).Str("object_key", objectKey).
		Int64("size", size).Msg("简历文件上传成功")
	return objectKey, nil
}

// UploadParsedText 上传解析后的纯文本副本，便于人工排查抽取结果
func (m *MinIO) UploadParsedText(ctx context.Context, candidateUID string, text string) (string, error) {
	objectKey := fmt.Sprintf("%s/parsed.txt", candidateUID)

	reader := strings.NewReader(text)
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("上传解析文本到MinIO失败 (key=%s): %w", objectKey, err)
	}
	return objectKey, nil
}

func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
