package narration

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lensa-guide/lensa/internal/models"
	"github.com/lensa-guide/lensa/internal/store"
)

// Generator renders a narration audio file for every cataloged artwork and
// records the file path back into the catalog.
type Generator struct {
	Store        *store.Store
	TTS          *TTSClient
	AudioDir     string
	RequestDelay time.Duration
	Logger       *slog.Logger
}

// NewGenerator wires a narration generator over a store.
func NewGenerator(st *store.Store, tts *TTSClient, audioDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		Store:        st,
		TTS:          tts,
		AudioDir:     audioDir,
		RequestDelay: 500 * time.Millisecond,
		Logger:       logger,
	}
}

// GenerateAll builds and renders narrations for every artwork. Per-artwork
// failures are counted and the run continues.
func (g *Generator) GenerateAll(ctx context.Context) (models.NarrationSummary, error) {
	var summary models.NarrationSummary

	artworks, err := g.Store.ListArtworks()
	if err != nil {
		return summary, err
	}
	summary.Artworks = len(artworks)

	for _, a := range artworks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		script := BuildScript(a)
		dest := filepath.Join(g.AudioDir, fmt.Sprintf("artwork_%d.mp3", a.ID))

		if err := g.TTS.Synthesize(ctx, script, dest); err != nil {
			g.Logger.Warn("failed to synthesize narration", "artwork_id", a.ID, "error", err)
			summary.Failed++
			continue
		}

		if err := g.Store.SetAudioPath(a.ID, dest); err != nil {
			g.Logger.Warn("failed to record audio path", "artwork_id", a.ID, "error", err)
			summary.Failed++
			continue
		}
		summary.Generated++

		g.sleep(ctx)
	}

	g.Logger.Info("narration generation complete",
		"artworks", summary.Artworks,
		"generated", summary.Generated,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (g *Generator) sleep(ctx context.Context) {
	if g.RequestDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(g.RequestDelay):
	}
}
