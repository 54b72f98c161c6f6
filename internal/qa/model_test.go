package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnswersSingleObject(t *testing.T) {
	answers, err := decodeAnswers(`{"answer": "ten years", "score": 0.8}`)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "ten years", answers[0].Answer)
	assert.InDelta(t, 0.8, answers[0].Score, 1e-9)
}

func TestDecodeAnswersList(t *testing.T) {
	answers, err := decodeAnswers(`[{"answer": "a"}, {"answer": "b", "score": 0.5}]`)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "a", answers[0].Answer)
}

func TestDecodeAnswersFencedJSON(t *testing.T) {
	content := "回答如下:\n```json\n{\"answer\": \"Acme Corp\"}\n```\n完毕"
	answers, err := decodeAnswers(content)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Acme Corp", answers[0].Answer)
}

func TestDecodeAnswersErrorPayload(t *testing.T) {
	_, err := decodeAnswers(`{"error": "context too long"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context too long")
}

func TestDecodeAnswersEmptyList(t *testing.T) {
	_, err := decodeAnswers(`[]`)
	assert.Error(t, err)
}

func TestDecodeAnswersNoJSON(t *testing.T) {
	_, err := decodeAnswers("我不知道")
	assert.Error(t, err)
}
