package repository

import (
	"context"
	"database/sql"
	"time"

	"secondbrain/internal/knowledge/model"
	"secondbrain/pkg/logger"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
)

// NoteRepository persists notes. Create assigns ID and timestamps on the passed note.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	// ListAll returns every note, newest first.
	ListAll(ctx context.Context) ([]model.Note, error)
	// EnsureIndexes creates the schema and search indexes if they are missing.
	EnsureIndexes(ctx context.Context) error
}

// NewID returns a ULID, so IDs sort in creation order.
func NewID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS knowledge (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('note', 'link', 'insight')),
		tags TEXT[] NOT NULL DEFAULT '{}',
		summary TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS knowledge_created_at_idx ON knowledge (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS knowledge_search_idx ON knowledge USING GIN (
		to_tsvector('english', title || ' ' || content || ' ' || array_to_string(tags, ' '))
	)`,
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) Create(ctx context.Context, note *model.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	id := NewID(time.Now())
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO knowledge (id, title, content, type, tags, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`,
		id, note.Title, note.Content, string(note.Type), pq.Array(note.Tags), note.Summary,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create note: %v", err)
		return err
	}
	note.ID = id
	return nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]model.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, content, type, tags, summary, created_at, updated_at
		FROM knowledge ORDER BY created_at DESC, id DESC`)
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes: %v", err)
		return nil, err
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		var noteType string
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &noteType, pq.Array(&n.Tags), &n.Summary, &n.CreatedAt, &n.UpdatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan note: %v", err)
			return nil, err
		}
		n.Type = model.NoteType(noteType)
		if n.Tags == nil {
			n.Tags = []string{}
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed to iterate notes: %v", err)
		return nil, err
	}
	return notes, nil
}

func (r *PostgresRepository) EnsureIndexes(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			logger.Sugar.Errorf("Failed to apply schema statement: %v", err)
			return err
		}
	}
	logger.Sugar.Info("Knowledge table and indexes are in place")
	return nil
}
