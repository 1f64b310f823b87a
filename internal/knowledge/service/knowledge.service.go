package service

import (
	"context"
	"strings"

	"secondbrain/internal/ai"
	"secondbrain/internal/knowledge/model"
	"secondbrain/internal/knowledge/repository"
	"secondbrain/pkg/logger"
	"secondbrain/pkg/metrics"
)

// GenerationProvider is the LLM-backed part of the service.
type GenerationProvider interface {
	SummarizeAndTag(ctx context.Context, content string) (ai.Analysis, error)
	AnswerQuestion(ctx context.Context, question, notesText string) (string, error)
}

// Notifier is told about every persisted note. It must not block.
type Notifier interface {
	NoteCreated(note model.Note)
}

// ValidationError marks bad client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type KnowledgeService struct {
	Repo      repository.NoteRepository
	Generator GenerationProvider
	Notifier  Notifier
}

func NewKnowledgeService(repo repository.NoteRepository, gen GenerationProvider, notifier Notifier) *KnowledgeService {
	return &KnowledgeService{Repo: repo, Generator: gen, Notifier: notifier}
}

// Normalize produces the summary for content and merges userTags ahead of the generated tags.
func (s *KnowledgeService) Normalize(ctx context.Context, content string, userTags []string) (ai.Analysis, error) {
	analysis, err := s.Generator.SummarizeAndTag(ctx, content)
	if err != nil {
		return ai.Analysis{}, err
	}
	return ai.Analysis{
		Summary: analysis.Summary,
		Tags:    ai.MergeTags(userTags, analysis.Tags),
	}, nil
}

func (s *KnowledgeService) CreateNote(ctx context.Context, req model.CreateNoteRequest) (*model.Note, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Message: "Title is required"}
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, &ValidationError{Message: "Content is required"}
	}
	if !req.Type.Valid() {
		return nil, &ValidationError{Message: "Type must be one of note, link, insight"}
	}

	analysis, err := s.Normalize(ctx, req.Content, req.Tags)
	if err != nil {
		return nil, err
	}

	note := &model.Note{
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
		Tags:    analysis.Tags,
		Summary: analysis.Summary,
	}
	if err := s.Repo.Create(ctx, note); err != nil {
		return nil, err
	}
	metrics.NotesCreated.Inc()
	logger.Sugar.Infof("Note %s created with %d tags", note.ID, len(note.Tags))

	if s.Notifier != nil {
		s.Notifier.NoteCreated(*note)
	}
	return note, nil
}

// ListNotes returns all notes, newest first.
func (s *KnowledgeService) ListNotes(ctx context.Context) ([]model.Note, error) {
	return s.Repo.ListAll(ctx)
}

// Ask answers question from every stored note.
func (s *KnowledgeService) Ask(ctx context.Context, question string) (string, error) {
	answer, _, err := s.answer(ctx, question)
	return answer, err
}

// Query is Ask plus the number of notes the answer was drawn from.
func (s *KnowledgeService) Query(ctx context.Context, q string) (*model.QueryResponse, error) {
	answer, total, err := s.answer(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.QueryResponse{Answer: answer, TotalNotes: total}, nil
}

func (s *KnowledgeService) answer(ctx context.Context, question string) (string, int, error) {
	if strings.TrimSpace(question) == "" {
		return "", 0, &ValidationError{Message: "Question is required"}
	}
	notes, err := s.Repo.ListAll(ctx)
	if err != nil {
		return "", 0, err
	}
	answer, err := s.Generator.AnswerQuestion(ctx, question, ai.BuildContext(notes))
	if err != nil {
		return "", 0, err
	}
	return answer, len(notes), nil
}
