package matching

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/lensa-guide/lensa/internal/feature"
	"github.com/lensa-guide/lensa/internal/models"
)

// Acceptance gate defaults. Both gates are enforced independently.
const (
	DefaultConfidenceThreshold = 0.18
	DefaultMinGoodMatches      = 12
)

// Options configures one recognition call. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	ConfidenceThreshold float64
	RatioThreshold      float64
	MinGoodMatches      int
	FeatureKind         string
}

// DefaultOptions returns the standard acceptance gates and ratio test.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		RatioThreshold:      DefaultRatioThreshold,
		MinGoodMatches:      DefaultMinGoodMatches,
		FeatureKind:         models.DefaultFeatureKind,
	}
}

// Source is the slice of the store the recognizer reads: a consistent
// descriptor snapshot and artwork metadata lookup. *store.Store satisfies
// it; tests substitute a stub.
type Source interface {
	SnapshotDescriptors(kind string) ([]models.DescriptorRecord, error)
	GetArtwork(id int64) (models.Artwork, bool, error)
}

// Recognizer scans every stored descriptor record for the best-scoring
// candidate and applies the acceptance gates. Reads only; never mutates
// the store.
type Recognizer struct {
	Source    Source
	Extractor feature.Extractor
	Matcher   Matcher
	Logger    *slog.Logger
}

// NewRecognizer wires a recognizer over a store source with the default
// extractor and matcher.
func NewRecognizer(src Source, ex feature.Extractor, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{
		Source:    src,
		Extractor: ex,
		Matcher:   NewBruteForceMatcher(),
		Logger:    logger,
	}
}

// RecognizeFile decodes an image from disk and recognizes it. A path that
// does not resolve to a decodable image fails with
// feature.ErrUndecodableImage.
func (r *Recognizer) RecognizeFile(path string, opts Options) (models.RecognitionResult, bool, error) {
	img, err := feature.DecodeImageFile(path)
	if err != nil {
		return models.RecognitionResult{}, false, err
	}
	return r.Recognize(img, opts)
}

// Recognize compares a query image against every stored descriptor record
// and returns the best match above the acceptance gates. The second return
// value is false when no candidate clears the gates, which is a normal
// outcome, not an error. Ties on confidence keep the earliest record of the
// snapshot, which is ordered by artwork ID.
func (r *Recognizer) Recognize(img image.Image, opts Options) (models.RecognitionResult, bool, error) {
	traceID := uuid.NewString()
	log := r.Logger.With("trace_id", traceID)

	querySet, err := r.Extractor.Extract(img)
	if err != nil {
		return models.RecognitionResult{}, false, fmt.Errorf("failed to extract query features: %w", err)
	}
	if querySet.Empty() {
		log.Debug("query image produced no descriptors")
		return models.RecognitionResult{}, false, nil
	}

	records, err := r.Source.SnapshotDescriptors(opts.FeatureKind)
	if err != nil {
		return models.RecognitionResult{}, false, fmt.Errorf("failed to snapshot descriptors: %w", err)
	}
	if len(records) == 0 {
		log.Debug("descriptor store is empty", "kind", opts.FeatureKind)
		return models.RecognitionResult{}, false, nil
	}

	scorer := &Scorer{RatioThreshold: opts.RatioThreshold}

	var bestID int64
	bestScore := models.MatchScore{}
	tracked := false

	for _, rec := range records {
		score := scorer.ScoreCandidate(r.Matcher, querySet, rec.Set)
		if score.Confidence > bestScore.Confidence {
			bestID = rec.ArtworkID
			bestScore = score
			tracked = score.GoodCount > 0
		}
	}

	log.Debug("scan complete",
		"candidates", len(records),
		"query_features", querySet.Count(),
		"best_confidence", bestScore.Confidence,
		"best_good_matches", bestScore.GoodCount,
	)

	if !tracked {
		return models.RecognitionResult{}, false, nil
	}
	if bestScore.Confidence < opts.ConfidenceThreshold || bestScore.GoodCount < opts.MinGoodMatches {
		return models.RecognitionResult{}, false, nil
	}

	artwork, found, err := r.Source.GetArtwork(bestID)
	if err != nil {
		return models.RecognitionResult{}, false, fmt.Errorf("failed to resolve artwork %d: %w", bestID, err)
	}
	if !found {
		// The descriptor record can outlive its catalog row; the match
		// still stands, with only the reference to show.
		artwork = models.Artwork{ID: bestID}
	}

	return models.RecognitionResult{
		Artwork:       artwork,
		Confidence:    math.Round(bestScore.Confidence*10000) / 10000,
		GoodMatches:   bestScore.GoodCount,
		QueryFeatures: querySet.Count(),
	}, true, nil
}
