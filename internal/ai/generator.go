package ai

import (
	"context"
	"fmt"
	"time"

	"secondbrain/pkg/logger"
	"secondbrain/pkg/metrics"
)

const (
	opTagging = "tagging"
	opAnswer  = "answer"

	taggingTemperature = 0.3
	taggingMaxTokens   = 300
)

const taggingSystemPrompt = `You are an expert content analyzer. Your task is to analyze content and extract:
1. A concise summary (3-4 lines, clear and informative)
2. 3-5 relevant tags (short keywords, lowercase, single words or 2-word phrases)

You MUST respond with valid JSON only, no additional text.
Format: {"summary": "your summary here", "tags": ["tag1", "tag2", "tag3"]}

Rules:
- Summary should capture the main idea clearly
- Tags should be specific, relevant keywords
- No markdown, no code blocks, just raw JSON
- Ensure JSON is properly escaped`

const answerSystemPrompt = `You are a professional AI assistant. Provide clear, well-structured answers. Do not use markdown symbols, asterisks, or headings. Write in clean readable paragraph format. Keep it visually clean and easy to understand.`

const answerPromptTemplate = `
You are a professional AI assistant.

Based only on the following notes:

%s

Answer this question: %s

IMPORTANT FORMATTING RULES:
- Do not use markdown symbols
- Do not use asterisks or bold text
- Do not use headings like ###
- Do not use bullet points with dashes or stars
- Do not use any special formatting symbols
- Write in clean, readable paragraph format
- Use simple numbering only if needed (1. 2. 3.)
- Keep it visually clean and easy to understand
- Provide a clear, professional explanation
`

// Generator produces note analyses and answers through a chat-completion gateway.
// Each call is exactly one gateway round trip; nothing is retried.
type Generator struct {
	Completer Completer
	Model     string
}

func NewGenerator(completer Completer, model string) *Generator {
	return &Generator{Completer: completer, Model: model}
}

// SummarizeAndTag asks for a summary and tags for content. A reply that cannot be read as
// JSON is recovered into a raw-text summary; only a failed gateway call returns an error.
func (g *Generator) SummarizeAndTag(ctx context.Context, content string) (Analysis, error) {
	temperature := taggingTemperature
	raw, err := g.complete(ctx, opTagging, ChatRequest{
		Model: g.Model,
		Messages: []Message{
			{Role: "system", Content: taggingSystemPrompt},
			{Role: "user", Content: "Analyze this content and extract summary + tags:\n\n" + content},
		},
		Temperature: &temperature,
		MaxTokens:   taggingMaxTokens,
	})
	if err != nil {
		return Analysis{}, &GenerationError{Message: msgTaggingFailed, Err: err}
	}

	analysis, ok := ParseAnalysis(raw)
	if !ok {
		metrics.TaggingFallbacks.Inc()
		logger.Sugar.Warnf("Tagging reply was not valid summary JSON, using raw text (%d bytes)", len(raw))
	}
	return analysis, nil
}

// AnswerQuestion answers question from notesText and returns the cleaned plain-text reply.
func (g *Generator) AnswerQuestion(ctx context.Context, question, notesText string) (string, error) {
	raw, err := g.complete(ctx, opAnswer, ChatRequest{
		Model: g.Model,
		Messages: []Message{
			{Role: "system", Content: answerSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(answerPromptTemplate, notesText, question)},
		},
	})
	if err != nil {
		return "", &GenerationError{Message: msgAnswerFailed, Err: err}
	}
	return CleanAnswer(raw), nil
}

func (g *Generator) complete(ctx context.Context, op string, req ChatRequest) (string, error) {
	start := time.Now()
	raw, err := g.Completer.Complete(ctx, req)
	metrics.LLMLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequests.WithLabelValues(op, "error").Inc()
		logger.Sugar.Errorf("LLM %s call failed: %v", op, err)
		return "", err
	}
	metrics.LLMRequests.WithLabelValues(op, "ok").Inc()
	return raw, nil
}
