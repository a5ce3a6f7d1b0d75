package narration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTTSServer(t *testing.T, handler http.HandlerFunc) *TTSClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewTTSClient("en")
	c.BaseURL = srv.URL
	return c
}

func TestTTSClient_SynthesizeConcatenatesChunks(t *testing.T) {
	var requests int
	c := newTestTTSServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.Write([]byte("MP3"))
	})

	dest := filepath.Join(t.TempDir(), "out.mp3")
	text := strings.Repeat("This is a sentence. ", 30)

	require.NoError(t, c.Synthesize(context.Background(), text, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Greater(t, requests, 1)
	assert.Equal(t, strings.Repeat("MP3", requests), string(data))
}

func TestTTSClient_SynthesizeRemovesFileOnFailure(t *testing.T) {
	c := newTestTTSServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	})

	dest := filepath.Join(t.TempDir(), "out.mp3")
	err := c.Synthesize(context.Background(), "Hello there.", dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "partial audio file must not survive a failure")
}

func TestTTSClient_SynthesizeRejectsEmptyText(t *testing.T) {
	c := NewTTSClient("en")

	err := c.Synthesize(context.Background(), "   ", filepath.Join(t.TempDir(), "out.mp3"))
	assert.Error(t, err)
}
