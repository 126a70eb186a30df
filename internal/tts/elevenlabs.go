package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/voice"
)

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io/v1"
	elevenLabsDefaultModel = "eleven_monolingual_v1"

	elevenLabsStability       = 0.5
	elevenLabsSimilarityBoost = 0.75
)

// ElevenLabsConfig holds configuration for the paid ElevenLabs backend.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.elevenlabs.io/v1"
	Model   string // default: "eleven_monolingual_v1"
	Timeout time.Duration
}

// ElevenLabs synthesizes speech using the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
}

func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = elevenLabsBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = elevenLabsDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &ElevenLabs{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to MP3 audio with the voice's primary id.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, v voice.Voice) (*Result, error) {
	if e.cfg.APIKey == "" {
		return nil, apperr.MissingCredentials("elevenlabs synthesize", "ELEVENLABS_API_KEY not configured")
	}
	if v.PrimaryProviderID == "" {
		return nil, apperr.MissingVoiceMapping("elevenlabs synthesize",
			fmt.Sprintf("no ElevenLabs voice id for: %s", v.DisplayName))
	}

	data, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: e.cfg.Model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       elevenLabsStability,
			SimilarityBoost: elevenLabsSimilarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", e.cfg.BaseURL, v.PrimaryProviderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create elevenlabs request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", ContentTypeMPEG)

	slog.Debug("calling elevenlabs", "voice", v.Key, "model", e.cfg.Model)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Error("elevenlabs api error", "status", resp.StatusCode, "body", string(respBody))
		return nil, apperr.Provider("elevenlabs synthesize", "ElevenLabs API", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return &Result{Audio: audio, ContentType: ContentTypeMPEG}, nil
}
