package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply    string
	err      error
	requests []ChatRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func TestSummarizeAndTag(t *testing.T) {
	fc := &fakeCompleter{reply: "```json\n{\"summary\":\"AI automates tasks.\",\"tags\":[\"automation\",\"AI\",\"technology\"]}\n```"}
	g := NewGenerator(fc, "test-model")

	a, err := g.SummarizeAndTag(context.Background(), "AI helps automate tasks.")
	require.NoError(t, err)
	assert.Equal(t, "AI automates tasks.", a.Summary)
	assert.Equal(t, []string{"automation", "ai", "technology"}, a.Tags)

	require.Len(t, fc.requests, 1)
	req := fc.requests[0]
	assert.Equal(t, "test-model", req.Model)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.3, *req.Temperature)
	assert.Equal(t, 300, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `{"summary": "your summary here"`)
	assert.Contains(t, req.Messages[1].Content, "AI helps automate tasks.")
}

func TestSummarizeAndTagFallsBackOnProse(t *testing.T) {
	fc := &fakeCompleter{reply: "Sure, here's a summary: ...  "}
	a, err := NewGenerator(fc, "m").SummarizeAndTag(context.Background(), "content")
	require.NoError(t, err)
	assert.Equal(t, "Sure, here's a summary: ...", a.Summary)
	assert.Empty(t, a.Tags)
}

func TestSummarizeAndTagGatewayFailure(t *testing.T) {
	cause := errors.New("connection refused")
	fc := &fakeCompleter{err: cause}
	_, err := NewGenerator(fc, "m").SummarizeAndTag(context.Background(), "content")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Failed to generate summary and tags", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Len(t, fc.requests, 1, "no retries")
}

func TestAnswerQuestion(t *testing.T) {
	fc := &fakeCompleter{reply: "## Answer\n\n\n\n- **Go** is covered.\n- Tests too."}
	notesText := "Title: A\nContent: go\n\nTitle: B\nContent: tests"

	answer, err := NewGenerator(fc, "m").AnswerQuestion(context.Background(), "What is covered?", notesText)
	require.NoError(t, err)
	assert.Equal(t, "Answer\n\nGo is covered.\nTests too.", answer)

	require.Len(t, fc.requests, 1)
	req := fc.requests[0]
	assert.Nil(t, req.Temperature)
	assert.Zero(t, req.MaxTokens)
	assert.Contains(t, req.Messages[1].Content, notesText)
	assert.Contains(t, req.Messages[1].Content, "Answer this question: What is covered?")
}

func TestAnswerQuestionGatewayFailure(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("quota exceeded")}
	_, err := NewGenerator(fc, "m").AnswerQuestion(context.Background(), "q", "")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Failed to generate answer", genErr.Error())
}
