package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format 文档格式
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ErrUnsupportedFormat 上传的文件扩展名不在支持范围内
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DetectFormat 按文件扩展名判定文档格式，仅接受 .pdf 与 .docx
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// TextExtractor 从文档文件中提取纯文本的能力
// 提取失败返回错误，由调用方作为硬失败处理
type TextExtractor interface {
	ExtractText(ctx context.Context, path string, format Format) (string, error)
}

// Dispatcher 按格式分发到具体提取实现
type Dispatcher struct {
	pdf *EinoPDFTextExtractor
}

// NewDispatcher 创建文本提取分发器
func NewDispatcher(pdf *EinoPDFTextExtractor) *Dispatcher {
	return &Dispatcher{pdf: pdf}
}

// ExtractText 实现 TextExtractor
func (d *Dispatcher) ExtractText(ctx context.Context, path string, format Format) (string, error) {
	switch format {
	case FormatPDF:
		if d.pdf == nil {
			return "", fmt.Errorf("PDF提取器未初始化")
		}
		return d.pdf.ExtractFromFile(ctx, path)
	case FormatDOCX:
		return ExtractDocxText(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, string(format))
	}
}

var _ TextExtractor = (*Dispatcher)(nil)
