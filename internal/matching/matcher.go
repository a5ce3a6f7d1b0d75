// Package matching implements the recognition core: descriptor matching,
// confidence scoring, and the orchestrated scan over the descriptor store.
package matching

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/lensa-guide/lensa/internal/models"
)

// ErrMatchingUnavailable reports that two descriptor sets cannot be
// compared, for example because one is empty or their widths differ. The
// scan treats it as zero evidence for that one candidate, not a failure.
var ErrMatchingUnavailable = errors.New("descriptor sets cannot be matched")

// Matcher finds, for each query descriptor, its two nearest reference
// descriptors by Hamming distance.
type Matcher interface {
	Match(query, ref models.DescriptorSet) ([]models.Correspondence, error)
}

// BruteForceMatcher compares every query descriptor against every reference
// descriptor. It implements Matcher.
type BruteForceMatcher struct{}

// NewBruteForceMatcher returns an exact nearest-two Hamming matcher.
func NewBruteForceMatcher() *BruteForceMatcher {
	return &BruteForceMatcher{}
}

// Match returns one correspondence per query descriptor, holding the
// distances to the nearest and second-nearest reference descriptors. The
// reference set must hold at least two descriptors of the query's width.
func (m *BruteForceMatcher) Match(query, ref models.DescriptorSet) ([]models.Correspondence, error) {
	if query.Empty() || ref.Empty() {
		return nil, fmt.Errorf("%w: empty descriptor set", ErrMatchingUnavailable)
	}
	if query.Width != ref.Width {
		return nil, fmt.Errorf("%w: width mismatch (%d vs %d)", ErrMatchingUnavailable, query.Width, ref.Width)
	}
	if ref.Count() < 2 {
		return nil, fmt.Errorf("%w: reference set has fewer than two descriptors", ErrMatchingUnavailable)
	}

	corrs := make([]models.Correspondence, query.Count())
	for qi := 0; qi < query.Count(); qi++ {
		q := query.At(qi)

		best, second := int(^uint(0)>>1), int(^uint(0)>>1)
		for ri := 0; ri < ref.Count(); ri++ {
			d := hammingDistance(q, ref.At(ri))
			if d < best {
				second = best
				best = d
			} else if d < second {
				second = d
			}
		}

		corrs[qi] = models.Correspondence{
			QueryIndex:     qi,
			BestDistance:   best,
			SecondDistance: second,
		}
	}

	return corrs, nil
}

// hammingDistance counts the differing bits between two equal-length binary
// descriptors.
func hammingDistance(a, b []byte) int {
	d := 0
	for i := range a {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return d
}
