// Package feature turns images into sets of binary feature descriptors.
// The engine treats extraction as an opaque capability behind the Extractor
// interface; the default implementation is a census-style binary descriptor
// over high-contrast keypoints.
package feature

import (
	"image"

	"github.com/lensa-guide/lensa/internal/models"
)

// Extractor converts an image into a set of fixed-width binary descriptors.
// A degenerate or featureless image yields an empty set, not an error.
type Extractor interface {
	Extract(img image.Image) (models.DescriptorSet, error)

	// Kind returns the feature-kind tag for descriptors this extractor
	// produces, used to key the descriptor store.
	Kind() string
}
