package matching

import (
	"github.com/lensa-guide/lensa/internal/models"
)

// DefaultRatioThreshold is the nearest/second-nearest distinctiveness
// threshold applied per query descriptor.
const DefaultRatioThreshold = 0.75

// Scoring blend weights. Breadth of agreement dominates so a single very
// close correspondence cannot carry the score on its own.
const (
	matchRatioWeight      = 0.7
	distanceQualityWeight = 0.3
)

// Scorer reduces a candidate's raw correspondences to a supporting-evidence
// count and a scalar confidence. It holds no state across calls.
type Scorer struct {
	// RatioThreshold is the distinctiveness cutoff; a correspondence is
	// good when its best distance is below RatioThreshold times its second
	// best. Zero or negative falls back to DefaultRatioThreshold.
	RatioThreshold float64
}

// NewScorer returns a scorer with the default ratio threshold.
func NewScorer() *Scorer {
	return &Scorer{RatioThreshold: DefaultRatioThreshold}
}

// Score filters correspondences with the ratio test and blends the
// survivors into a confidence value. queryCount and refCount are the sizes
// of the two descriptor sets that produced the correspondences.
func (sc *Scorer) Score(queryCount, refCount int, corrs []models.Correspondence) models.MatchScore {
	ratio := sc.RatioThreshold
	if ratio <= 0 {
		ratio = DefaultRatioThreshold
	}

	goodCount := 0
	distanceSum := 0
	for _, c := range corrs {
		// A zero/zero pair is a perfect, ambiguity-free match and is
		// accepted outright. This applies only to the literal zero case.
		if c.BestDistance == 0 && c.SecondDistance == 0 {
			goodCount++
			continue
		}
		if float64(c.BestDistance) < ratio*float64(c.SecondDistance) {
			goodCount++
			distanceSum += c.BestDistance
		}
	}

	if goodCount == 0 {
		return models.MatchScore{}
	}

	// Normalize by the smaller set so a sparse reference cannot produce an
	// artificially low ratio.
	denom := min(queryCount, refCount)
	if denom < 1 {
		denom = 1
	}
	matchRatio := float64(goodCount) / float64(denom)

	meanDistance := float64(distanceSum) / float64(goodCount)
	distanceQuality := 1.0 - meanDistance/float64(models.MaxHammingDistance)
	if distanceQuality < 0 {
		distanceQuality = 0
	}

	confidence := matchRatioWeight*matchRatio + distanceQualityWeight*distanceQuality
	return models.MatchScore{GoodCount: goodCount, Confidence: confidence}
}

// ScoreCandidate matches a query set against one reference set and scores
// the result. An unmatchable pair yields a zero score rather than an error,
// since "no evidence" is a legitimate outcome for a candidate.
func (sc *Scorer) ScoreCandidate(m Matcher, query, ref models.DescriptorSet) models.MatchScore {
	corrs, err := m.Match(query, ref)
	if err != nil {
		return models.MatchScore{}
	}
	return sc.Score(query.Count(), ref.Count(), corrs)
}
