package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/voice"
)

func TestEscapeSSML(t *testing.T) {
	got := EscapeSSML(`Tom & "Jerry" <said> it's`)
	assert.Equal(t, "Tom &amp; &quot;Jerry&quot; &lt;said&gt; it&apos;s", got)
}

func TestBuildSSML(t *testing.T) {
	doc := BuildSSML("a < b", "en-US-JennyNeural", "en-US")
	assert.Contains(t, doc, "<voice name='en-US-JennyNeural'>a &lt; b</voice>")
	assert.Contains(t, doc, "xml:lang='en-US'")
}

func TestEdgeTTS_Synthesize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/ssml+xml", r.Header.Get("Content-Type"))
		assert.Equal(t, "audio-24khz-48kbitrate-mono-mp3", r.Header.Get("X-Microsoft-EdgeTTS-OutputFormat"))
		assert.Equal(t, "en-US", r.URL.Query().Get("mkt"))
		assert.Equal(t, "en-US-JennyNeural", r.URL.Query().Get("voice"))

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Fish &amp; chips")

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("edge audio"))
	}))
	defer server.Close()

	v, err := voice.Default().Resolve("june")
	require.NoError(t, err)

	res, err := NewEdgeTTS(EdgeConfig{BaseURL: server.URL}).Synthesize(context.Background(), "Fish & chips", v)
	require.NoError(t, err)
	assert.Equal(t, []byte("edge audio"), res.Audio)
	assert.Equal(t, ContentTypeMPEG, res.ContentType)
}

func TestEdgeTTS_Synthesize_MissingMapping(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	v := voice.Voice{Key: "solo", DisplayName: "Solo", Gender: voice.Male, PrimaryProviderID: "x"}
	_, err := NewEdgeTTS(EdgeConfig{BaseURL: server.URL}).Synthesize(context.Background(), "hi", v)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindMissingVoiceMapping))
	assert.Zero(t, calls)
}

func TestEdgeTTS_Synthesize_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("token rejected"))
	}))
	defer server.Close()

	v, _ := voice.Default().Resolve("fred")
	_, err := NewEdgeTTS(EdgeConfig{BaseURL: server.URL}).Synthesize(context.Background(), "hi", v)
	require.Error(t, err)

	var typed *apperr.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, apperr.KindProvider, typed.Kind)
	assert.Equal(t, http.StatusForbidden, typed.Status)
	assert.Equal(t, "token rejected", typed.Body)
}
