package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"secondbrain/internal/ai"
	"secondbrain/internal/knowledge/model"
	"secondbrain/internal/knowledge/service"
	"secondbrain/pkg/logger"
)

const msgQueryRequired = "Query parameter 'q' is required"

type KnowledgeHandler struct {
	Service *service.KnowledgeService
}

func NewKnowledgeHandler(service *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{Service: service}
}

// Notes serves the collection route: GET lists, POST creates.
func (h *KnowledgeHandler) Notes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListNotes(w, r)
	case http.MethodPost:
		h.CreateNote(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *KnowledgeHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.Service.CreateNote(r.Context(), req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create note: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *KnowledgeHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	notes, err := h.Service.ListNotes(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to list notes: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *KnowledgeHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answer, err := h.Service.Ask(r.Context(), req.Question)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to answer question: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AskResponse{Answer: answer})
}

// Query is the public, unauthenticated variant of Ask driven by the q parameter.
func (h *KnowledgeHandler) Query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	resp, err := h.Service.Query(r.Context(), q)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to answer query: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	var gerr *ai.GenerationError
	if errors.As(err, &gerr) {
		writeError(w, http.StatusInternalServerError, gerr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Handler: Failed to encode response: %v", err)
	}
}
