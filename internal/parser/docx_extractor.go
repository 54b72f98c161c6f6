package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// ExtractDocxText 从.docx文件提取纯文本
// .docx 是ZIP包，正文位于 word/document.xml；每个 <w:p> 段落输出为一行
func ExtractDocxText(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var lines []string
	var currentText strings.Builder
	var inParagraph bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				inParagraph = true
				currentText.Reset()
			}
		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				lines = append(lines, currentText.String())
			}
		}
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("no paragraph text found in %s", path)
	}
	return strings.Join(lines, "\n"), nil
}
