package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/memo"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxRequestBody   = 1 << 20
)

type MemoHandler struct {
	svc *memo.Service
}

func NewMemoHandler(svc *memo.Service) *MemoHandler {
	return &MemoHandler{svc: svc}
}

// createMemoRequest keeps the raw fields so that non-string values can be
// told apart from missing ones.
type createMemoRequest struct {
	Text  json.RawMessage `json:"text"`
	Voice json.RawMessage `json:"voice"`
}

// Create converts text to audio.
func (h *MemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemoRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("decode memo request", "Invalid input: request body must be a JSON object"))
		return
	}

	text, ok := stringField(req.Text)
	if !ok {
		writeError(w, apperr.InvalidInput("decode memo request", "Invalid input: text is required and must be a string"))
		return
	}
	voiceKey, ok := stringField(req.Voice)
	if !ok {
		writeError(w, apperr.InvalidInput("decode memo request", "Invalid input: voice is required and must be a string"))
		return
	}

	m, err := h.svc.Create(r.Context(), memo.CreateRequest{Text: text, Voice: voiceKey})
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindInvalidInput, apperr.KindUnknownVoice:
			writeError(w, err)
		default:
			slog.Error("failed to create memo", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Failed to create memo",
				"message": err.Error(),
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MemoHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MemoHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	page, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *MemoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Memo deleted", "memoId": id})
}

// stringField reports the decoded value of raw when it is a non-empty JSON
// string.
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
