package narration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultTTSBaseURL is the free translate text-to-speech endpoint.
const DefaultTTSBaseURL = "https://translate.google.com/translate_tts"

// maxChunkLen is the longest text fragment the TTS endpoint accepts per
// request. Longer scripts are split on sentence boundaries and the MP3
// segments concatenated.
const maxChunkLen = 200

// TTSClient renders text to MP3 speech over HTTP.
type TTSClient struct {
	BaseURL    string
	Lang       string
	HTTPClient *http.Client
}

// NewTTSClient creates a TTS client for the given language.
func NewTTSClient(lang string) *TTSClient {
	if lang == "" {
		lang = "en"
	}
	return &TTSClient{
		BaseURL:    DefaultTTSBaseURL,
		Lang:       lang,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize renders a script to an MP3 file at destPath.
func (c *TTSClient) Synthesize(ctx context.Context, text, destPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty narration text")
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}

	for _, chunk := range splitChunks(text, maxChunkLen) {
		if err := c.fetchChunk(ctx, chunk, f); err != nil {
			f.Close()
			os.Remove(destPath)
			return err
		}
	}
	return f.Close()
}

func (c *TTSClient) fetchChunk(ctx context.Context, chunk string, w io.Writer) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", c.Lang)
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return nil
}

// splitChunks breaks text into fragments no longer than limit, preferring
// sentence boundaries and falling back to word boundaries.
func splitChunks(text string, limit int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range strings.SplitAfter(text, ". ") {
		if current.Len()+len(sentence) > limit && current.Len() > 0 {
			flush()
		}
		if len(sentence) > limit {
			// Sentence alone exceeds the limit; split on words.
			for _, word := range strings.Fields(sentence) {
				if current.Len()+len(word)+1 > limit && current.Len() > 0 {
					flush()
				}
				if current.Len() > 0 {
					current.WriteByte(' ')
				}
				current.WriteString(word)
			}
			continue
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}
