package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/memocast/internal/memo"
)

type VoiceHandler struct {
	svc *memo.Service
}

func NewVoiceHandler(svc *memo.Service) *VoiceHandler {
	return &VoiceHandler{svc: svc}
}

func (h *VoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"voices": h.svc.Voices()})
}
