package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-agent-go/internal/constants"
	"resume-agent-go/internal/types"
)

// mockQAModel 捕获收到的上下文,返回预置答案或错误
type mockQAModel struct {
	answers      []AnswerResult
	err          error
	seenQuestion string
	seenContext  string
}

func (m *mockQAModel) Infer(_ context.Context, question, contextText string, _ int) ([]AnswerResult, error) {
	m.seenQuestion = question
	m.seenContext = contextText
	if m.err != nil {
		return nil, m.err
	}
	return m.answers, nil
}

func sampleRecord() types.CandidateRecord {
	record := types.EmptyCandidateRecord()
	record.Name = "Jane Doe"
	record.Introduction = "A passionate software engineer with ten years of experience."
	record.Education = types.Education{Entries: []string{"Graduated from State University in 2015"}}
	record.Experience = types.Experience{SummaryLines: []string{"Worked at Acme Corp"}}
	record.Skills = []string{"go", "python"}
	return record
}

func TestHeuristicAnswerKeywordMatch(t *testing.T) {
	a := NewAnswerer(nil)
	answer := a.Answer(context.Background(), "Which university did they attend and when exactly?", sampleRecord())

	assert.Equal(t, "Graduated from State University in 2015", answer.Answer)
	assert.False(t, answer.Degraded)
}

func TestHeuristicAnswerOnlyFirstThreeTokens(t *testing.T) {
	a := NewAnswerer(nil)
	// 第四个词才有命中,前三个词都无命中,应返回固定文案
	answer := a.Answer(context.Background(), "zzz yyy xxx university", sampleRecord())
	assert.Equal(t, "No clear answer found in stored data.", answer.Answer)
}

func TestHeuristicAnswerNoMatch(t *testing.T) {
	a := NewAnswerer(nil)
	answer := a.Answer(context.Background(), "zzz qqq xxx", sampleRecord())
	assert.Equal(t, "No clear answer found in stored data.", answer.Answer)
	assert.False(t, answer.Degraded)
}

func TestAnswerModelPath(t *testing.T) {
	m := &mockQAModel{answers: []AnswerResult{{Answer: "ten years", Score: 0.9}}}
	a := NewAnswerer(m)

	answer := a.Answer(context.Background(), "How many years of experience?", sampleRecord())
	assert.Equal(t, "ten years", answer.Answer)
	assert.False(t, answer.Degraded)
	assert.Equal(t, "How many years of experience?", m.seenQuestion)
	assert.Contains(t, m.seenContext, "EDUCATION:")
}

func TestAnswerModelErrorDegrades(t *testing.T) {
	m := &mockQAModel{err: errors.New("boom")}
	a := NewAnswerer(m)

	answer := a.Answer(context.Background(), "anything", sampleRecord())
	assert.True(t, answer.Degraded)
	assert.True(t, strings.HasPrefix(answer.Answer, "QA failed: "))
	assert.Contains(t, answer.Answer, "boom")
}

func TestAnswerContextTailTruncated(t *testing.T) {
	record := types.EmptyCandidateRecord()
	long := strings.Repeat("x", 500)
	for i := 0; i < 60; i++ {
		record.Education.Entries = append(record.Education.Entries, long)
	}
	full := BuildContext(record)
	require.Greater(t, len(full), constants.MaxQAContextChars)

	m := &mockQAModel{answers: []AnswerResult{{Answer: "ok"}}}
	a := NewAnswerer(m)
	a.Answer(context.Background(), "q", record)

	assert.Len(t, m.seenContext, constants.MaxQAContextChars)
	// 保留的是尾部切片
	assert.True(t, strings.HasSuffix(full, m.seenContext))
}

func TestBuildContextFieldOrder(t *testing.T) {
	got := BuildContext(sampleRecord())

	intro := strings.Index(got, "INTRODUCTION:")
	edu := strings.Index(got, "EDUCATION:")
	exp := strings.Index(got, "EXPERIENCE:")
	skills := strings.Index(got, "SKILLS:")
	require.NotEqual(t, -1, intro)
	require.NotEqual(t, -1, edu)
	require.NotEqual(t, -1, exp)
	require.NotEqual(t, -1, skills)
	assert.Less(t, intro, edu)
	assert.Less(t, edu, exp)
	assert.Less(t, exp, skills)

	// 空字段不出现
	assert.NotContains(t, got, "HOBBIES:")
	assert.NotContains(t, got, "CERTIFICATIONS:")

	// 序列字段每元素一行
	assert.Contains(t, got, "SKILLS:\ngo\npython\n")
}

func TestTailTruncate(t *testing.T) {
	assert.Equal(t, "hello", TailTruncate("hello", 10))
	assert.Equal(t, "llo", TailTruncate("hello", 3))
	assert.Equal(t, "", TailTruncate("hello", 0))
}
