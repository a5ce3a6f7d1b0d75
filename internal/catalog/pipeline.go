package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lensa-guide/lensa/internal/images"
	"github.com/lensa-guide/lensa/internal/models"
	"github.com/lensa-guide/lensa/internal/store"
)

// highlightQueries are curated terms used with isHighlight=true to pull
// well-known pieces first.
var highlightQueries = []string{
	"van gogh",
	"vermeer",
	"rembrandt",
	"monet",
	"renoir",
	"picasso",
	"ancient egypt",
	"greek sculpture",
	"roman sculpture",
	"american painting",
	"european painting",
	"samurai armor",
	"medieval armor",
	"musical instrument",
	"japanese screen",
	"chinese ceramics",
	"impressionism",
	"met highlights",
}

// broadQueries are the fallback terms used when the highlight pool is not
// large enough.
var broadQueries = []string{"art", "painting", "sculpture", "portrait"}

// Pipeline fills the artwork catalog from the Met API and downloads the
// primary image per artwork.
type Pipeline struct {
	Client       *Client
	Store        *store.Store
	Downloader   *images.Downloader
	ImagesDir    string
	RequestDelay time.Duration
	Logger       *slog.Logger
}

// NewPipeline wires a catalog pipeline over a store.
func NewPipeline(client *Client, st *store.Store, imagesDir string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Client:       client,
		Store:        st,
		Downloader:   images.NewDownloader(),
		ImagesDir:    imagesDir,
		RequestDelay: 100 * time.Millisecond,
		Logger:       logger,
	}
}

// Run collects candidate artworks from the API, saves up to targetCount of
// them into the catalog, and downloads their images. Per-candidate failures
// are counted, never fatal; only a drained candidate pool or a cancelled
// context ends the run early.
func (p *Pipeline) Run(ctx context.Context, targetCount int) (models.CatalogSummary, error) {
	var summary models.CatalogSummary

	if targetCount < 1 {
		targetCount = 1
	}

	candidates, err := p.collectCandidates(ctx, targetCount, &summary)
	if err != nil {
		return summary, err
	}
	if len(candidates) == 0 {
		return summary, fmt.Errorf("no candidate object IDs found")
	}
	p.Logger.Info("candidate pool collected", "count", len(candidates))

	for _, objectID := range candidates {
		if summary.Saved >= targetCount {
			break
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.CandidatesChecked++

		obj, err := p.Client.GetObject(ctx, objectID)
		if err != nil {
			summary.FetchFailed++
			continue
		}

		imageURL := obj.ImageURL()
		if imageURL == "" {
			summary.MissingImage++
			continue
		}

		artwork := &models.Artwork{
			MetObjectID: obj.ObjectID,
			Title:       titleOrUntitled(obj.Title),
			Artist:      obj.Artist(),
			Date:        obj.ObjectDate,
			Medium:      obj.Medium,
			Department:  obj.Department,
			ImageURL:    imageURL,
		}
		if _, err := p.Store.UpsertArtwork(artwork); err != nil {
			p.Logger.Warn("failed to save artwork", "met_object_id", obj.ObjectID, "error", err)
			summary.DBFailed++
			continue
		}
		summary.Saved++

		dest := filepath.Join(p.ImagesDir, fmt.Sprintf("%d%s", obj.ObjectID, images.ExtensionFor(imageURL)))
		if err := p.Downloader.Download(ctx, imageURL, dest); err != nil {
			p.Logger.Warn("failed to download image", "met_object_id", obj.ObjectID, "error", err)
			summary.DownloadFailed++
		} else {
			summary.ImagesDownloaded++
		}

		p.sleep(ctx)
	}

	p.Logger.Info("catalog pipeline complete",
		"saved", summary.Saved,
		"images_downloaded", summary.ImagesDownloaded,
		"candidates_checked", summary.CandidatesChecked,
	)
	return summary, nil
}

// collectCandidates builds a deduplicated pool roughly twice the target so
// the run can absorb per-object failures without re-querying.
func (p *Pipeline) collectCandidates(ctx context.Context, targetCount int, summary *models.CatalogSummary) ([]int64, error) {
	desiredPool := targetCount * 2
	if targetCount+60 > desiredPool {
		desiredPool = targetCount + 60
	}

	seen := make(map[int64]bool)
	var pool []int64

	appendIDs := func(ids []int64) bool {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			pool = append(pool, id)
			if len(pool) >= desiredPool {
				return true
			}
		}
		return false
	}

	for _, queries := range [][]string{highlightQueries, broadQueries} {
		for _, q := range queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ids, err := p.Client.SearchHighlights(ctx, q)
			if err != nil {
				summary.APIErrors++
				continue
			}
			if appendIDs(ids) {
				return pool, nil
			}
			p.sleep(ctx)
		}
	}

	// Last resort: the unfiltered object listing.
	ids, err := p.Client.AllObjectIDs(ctx)
	if err != nil {
		summary.APIErrors++
		return pool, nil
	}
	appendIDs(ids)
	return pool, nil
}

func (p *Pipeline) sleep(ctx context.Context) {
	if p.RequestDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(p.RequestDelay):
	}
}

func titleOrUntitled(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}
