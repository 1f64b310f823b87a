package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type NoteType string

const (
	TypeNote    NoteType = "note"
	TypeLink    NoteType = "link"
	TypeInsight NoteType = "insight"
)

func (t NoteType) Valid() bool {
	switch t {
	case TypeNote, TypeLink, TypeInsight:
		return true
	}
	return false
}

// Note is a stored knowledge item. It is never modified after creation.
type Note struct {
	ID        string    `json:"_id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Type      NoteType  `json:"type" bson:"type"`
	Tags      []string  `json:"tags" bson:"tags"`
	Summary   string    `json:"summary" bson:"summary"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TagList accepts either a JSON array of strings or a single comma-separated string.
type TagList []string

func (l *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = compact(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags must be a list or a comma-separated string")
	}
	*l = compact(strings.Split(s, ","))
	return nil
}

func compact(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Type    NoteType `json:"type"`
	Tags    TagList  `json:"tags"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type QueryResponse struct {
	Answer     string `json:"answer"`
	TotalNotes int    `json:"totalNotes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
