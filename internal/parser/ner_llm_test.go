package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-agent-go/internal/types"
)

func TestDecodeEntitySpans(t *testing.T) {
	spans, err := decodeEntitySpans(`[{"text": "Jane Doe", "category": "PERSON"}, {"text": "Acme", "category": "ORG"}]`)
	require.NoError(t, err)
	assert.Equal(t, []types.EntitySpan{
		{Text: "Jane Doe", Category: "PERSON"},
		{Text: "Acme", Category: "ORG"},
	}, spans)
}

func TestDecodeEntitySpansAlternateKeys(t *testing.T) {
	// 兼容 word/entity_group 键名
	spans, err := decodeEntitySpans(`[{"word": "Jane", "entity_group": "PER"}]`)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "Jane", spans[0].Text)
	assert.Equal(t, "PER", spans[0].Category)
}

func TestDecodeEntitySpansFenced(t *testing.T) {
	content := "识别结果:\n```json\n[{\"text\": \"MIT\", \"category\": \"ORG\"}]\n```"
	spans, err := decodeEntitySpans(content)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "MIT", spans[0].Text)
}

func TestDecodeEntitySpansSkipsEmptyText(t *testing.T) {
	spans, err := decodeEntitySpans(`[{"text": "", "category": "PER"}, {"text": "Jane", "category": "PER"}]`)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "Jane", spans[0].Text)
}

func TestDecodeEntitySpansNoJSON(t *testing.T) {
	spans, err := decodeEntitySpans("没有识别到任何实体")
	require.NoError(t, err)
	assert.Nil(t, spans)
}

func TestRecognizeNilModel(t *testing.T) {
	r := NewLLMEntityRecognizer(nil)
	assert.Nil(t, r.Recognize(context.Background(), "Jane Doe worked at Acme"))
}
