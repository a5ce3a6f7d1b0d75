// Package ingest builds the feature database from reference images on disk.
package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/lensa-guide/lensa/internal/feature"
	"github.com/lensa-guide/lensa/internal/models"
	"github.com/lensa-guide/lensa/internal/store"
)

// LastBuildKey is the kv key under which the pipeline records the time of
// the last completed build.
const LastBuildKey = "last_feature_build"

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Pipeline extracts descriptors from reference images and stores them,
// superseding any prior record per artwork. A run is serialized against
// concurrent runs on the same store through a file lock.
type Pipeline struct {
	Store     *store.Store
	Extractor feature.Extractor
	LockPath  string
	Logger    *slog.Logger
}

// NewPipeline wires an ingestion pipeline over a store.
func NewPipeline(st *store.Store, ex feature.Extractor, lockPath string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Store: st, Extractor: ex, LockPath: lockPath, Logger: logger}
}

// BuildFeatureDatabase walks the images directory, extracts descriptors
// from every reference image, and stores them. Per-image failures are
// counted as skips and never abort the batch. The returned summary accounts
// for every considered image exactly once.
func (p *Pipeline) BuildFeatureDatabase(imagesDir string) (models.IngestionSummary, error) {
	var summary models.IngestionSummary

	if _, err := os.Stat(imagesDir); err != nil {
		return summary, fmt.Errorf("images directory not found: %s: %w", imagesDir, err)
	}

	if p.LockPath != "" {
		lock := flock.New(p.LockPath)
		if err := lock.Lock(); err != nil {
			return summary, fmt.Errorf("failed to acquire build lock: %w", err)
		}
		defer lock.Unlock()
	}

	paths, err := listImages(imagesDir)
	if err != nil {
		return summary, err
	}
	summary.ImagesFound = len(paths)

	kind := p.Extractor.Kind()
	for _, path := range paths {
		p.ingestOne(path, kind, &summary)
	}

	if err := p.Store.SetValue(LastBuildKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		p.Logger.Warn("failed to record build time", "error", err)
	}

	p.Logger.Info("feature database build complete",
		"images_found", summary.ImagesFound,
		"saved", summary.SavedFeatures,
		"skipped", summary.ImagesFound-summary.SavedFeatures,
	)
	return summary, nil
}

func (p *Pipeline) ingestOne(path, kind string, summary *models.IngestionSummary) {
	metObjectID, ok := parseMetObjectID(path)
	if !ok {
		p.Logger.Debug("skipping image without a Met object ID in its name", "path", path)
		summary.SkippedNoMetID++
		return
	}

	artwork, found, err := p.Store.GetArtworkByMetID(metObjectID)
	if err != nil {
		p.Logger.Warn("artwork lookup failed", "path", path, "error", err)
		summary.SkippedStoreError++
		return
	}
	if !found {
		p.Logger.Debug("skipping image not present in the catalog", "met_object_id", metObjectID)
		summary.SkippedNotInDB++
		return
	}

	img, err := feature.DecodeImageFile(path)
	if err != nil {
		p.Logger.Warn("failed to decode reference image", "path", path, "error", err)
		summary.SkippedLoadError++
		return
	}

	set, err := p.Extractor.Extract(img)
	if err != nil {
		p.Logger.Warn("feature extraction failed", "path", path, "error", err)
		summary.SkippedLoadError++
		return
	}
	if set.Empty() {
		p.Logger.Debug("reference image produced no descriptors", "path", path)
		summary.SkippedNoFeatures++
		return
	}

	if err := p.Store.PutDescriptors(artwork.ID, set, kind); err != nil {
		p.Logger.Warn("failed to store descriptors", "path", path, "error", err)
		summary.SkippedStoreError++
		return
	}

	summary.SavedFeatures++
}

// listImages returns every image file in the directory, sorted by name so
// ingestion order is deterministic.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// parseMetObjectID derives the Met object ID from the image's file name
// stem. Only all-digit stems qualify.
func parseMetObjectID(path string) (int64, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
