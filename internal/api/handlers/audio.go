package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/memocast/internal/memo"
)

type AudioHandler struct {
	svc *memo.Service
}

func NewAudioHandler(svc *memo.Service) *AudioHandler {
	return &AudioHandler{svc: svc}
}

func (h *AudioHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	audio, err := h.svc.Audio(r.Context(), filename)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", audio.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", audio.Filename))
	if audio.TTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(audio.TTL.Seconds())))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(audio.Data)
	}
}
