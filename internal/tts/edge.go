package tts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/voice"
)

const (
	edgeReadAloudURL = "https://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeOutputFormat = "audio-24khz-48kbitrate-mono-mp3"
	edgeMarket       = "en-US"

	maxErrorBody = 4096
)

// EdgeConfig holds configuration for the free Edge read-aloud backend.
type EdgeConfig struct {
	BaseURL string // default: the public read-aloud endpoint
	Market  string // default: "en-US"
	Timeout time.Duration
}

// EdgeTTS synthesizes speech through Microsoft's read-aloud endpoint. It
// needs no credentials but only serves voices with an alternate id.
type EdgeTTS struct {
	cfg        EdgeConfig
	httpClient *http.Client
}

func NewEdgeTTS(cfg EdgeConfig) *EdgeTTS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = edgeReadAloudURL
	}
	if cfg.Market == "" {
		cfg.Market = edgeMarket
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &EdgeTTS{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (e *EdgeTTS) Name() string { return "edge-readaloud" }

func (e *EdgeTTS) Synthesize(ctx context.Context, text string, v voice.Voice) (*Result, error) {
	if v.AlternateProviderID == "" {
		return nil, apperr.MissingVoiceMapping("edge synthesize",
			fmt.Sprintf("no Edge TTS voice mapping for: %s", v.DisplayName))
	}

	params := url.Values{}
	params.Set("mkt", e.cfg.Market)
	params.Set("voice", v.AlternateProviderID)
	endpoint := e.cfg.BaseURL + "?" + params.Encode()

	body := BuildSSML(text, v.AlternateProviderID, e.cfg.Market)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create edge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("X-Microsoft-EdgeTTS-OutputFormat", edgeOutputFormat)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("edge tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Error("edge tts error", "status", resp.StatusCode, "body", string(respBody))
		return nil, apperr.Provider("edge synthesize", "Edge TTS", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read edge audio: %w", err)
	}

	return &Result{Audio: audio, ContentType: ContentTypeMPEG}, nil
}

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeSSML escapes the five XML metacharacters.
func EscapeSSML(text string) string {
	return ssmlEscaper.Replace(text)
}

// BuildSSML wraps text in a minimal speech-markup document.
func BuildSSML(text, voiceName, lang string) string {
	return fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='%s'><voice name='%s'>%s</voice></speak>",
		EscapeSSML(lang), EscapeSSML(voiceName), EscapeSSML(text),
	)
}
