package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/voice"
)

const ContentTypeMPEG = "audio/mpeg"

// Recognized TTS modes.
const (
	ModeSimulation    = "simulation"
	ModeFreeStreaming = "free-streaming"
	ModePaidAPI       = "paid-api"
)

// Result holds the generated audio and its content type.
type Result struct {
	Audio       []byte
	ContentType string
}

// Provider is the interface for text-to-speech backends.
type Provider interface {
	Synthesize(ctx context.Context, text string, v voice.Voice) (*Result, error)
	Name() string
}

// NormalizeMode maps a configured mode onto one of the recognized modes.
// "edge" and "elevenlabs" are accepted as aliases.
func NormalizeMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeSimulation:
		return ModeSimulation, nil
	case ModeFreeStreaming, "edge":
		return ModeFreeStreaming, nil
	case ModePaidAPI, "elevenlabs":
		return ModePaidAPI, nil
	default:
		return "", apperr.New(apperr.KindConfig, "tts mode",
			fmt.Sprintf("unknown TTS mode %q (want %s, %s or %s)", mode, ModeSimulation, ModeFreeStreaming, ModePaidAPI))
	}
}
