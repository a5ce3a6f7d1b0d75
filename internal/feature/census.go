package feature

import (
	"image"
	"image/color"
	"math/rand"
	"sort"

	"github.com/lensa-guide/lensa/internal/models"
)

const (
	// patchRadius is the half-width of the sampling patch around a keypoint.
	patchRadius = 15

	// cellSize is the side length of the grid cells scanned for keypoints.
	cellSize = 16

	// contrastThreshold is the minimum intensity spread inside a cell for it
	// to yield a keypoint. Flat regions fall below it and produce nothing.
	contrastThreshold = 20

	// DefaultMaxFeatures caps the number of descriptors per image.
	DefaultMaxFeatures = 2000
)

// samplePattern holds the fixed point pairs compared to form descriptor
// bits. The pattern is generated once from a fixed seed so extraction is
// deterministic across runs and builds.
var samplePattern [models.MaxHammingDistance][4]int

func init() {
	rng := rand.New(rand.NewSource(0x1e5a))
	for i := range samplePattern {
		samplePattern[i] = [4]int{
			rng.Intn(2*patchRadius+1) - patchRadius,
			rng.Intn(2*patchRadius+1) - patchRadius,
			rng.Intn(2*patchRadius+1) - patchRadius,
			rng.Intn(2*patchRadius+1) - patchRadius,
		}
	}
}

// CensusExtractor computes 256-bit census descriptors at grid-selected
// high-contrast keypoints. It implements Extractor.
type CensusExtractor struct {
	// MaxFeatures caps how many descriptors a single image may produce.
	// The highest-contrast keypoints are kept.
	MaxFeatures int
}

// NewCensusExtractor returns an extractor with the default feature cap.
func NewCensusExtractor() *CensusExtractor {
	return &CensusExtractor{MaxFeatures: DefaultMaxFeatures}
}

// Kind returns the feature-kind tag for census descriptors.
func (e *CensusExtractor) Kind() string {
	return models.DefaultFeatureKind
}

type keypoint struct {
	x, y     int
	contrast int
}

// Extract converts an image into a descriptor set. Images without enough
// local contrast yield an empty set.
func (e *CensusExtractor) Extract(img image.Image) (models.DescriptorSet, error) {
	gray, w, h := toGray(img)

	maxFeatures := e.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	kps := selectKeypoints(gray, w, h)
	if len(kps) == 0 {
		return models.DescriptorSet{Width: models.DescriptorWidth}, nil
	}

	// Strongest keypoints first; ties broken by position so extraction is
	// deterministic.
	sort.Slice(kps, func(i, j int) bool {
		if kps[i].contrast != kps[j].contrast {
			return kps[i].contrast > kps[j].contrast
		}
		if kps[i].y != kps[j].y {
			return kps[i].y < kps[j].y
		}
		return kps[i].x < kps[j].x
	})
	if len(kps) > maxFeatures {
		kps = kps[:maxFeatures]
	}

	data := make([]byte, 0, len(kps)*models.DescriptorWidth)
	for _, kp := range kps {
		data = append(data, describe(gray, w, kp)...)
	}

	return models.DescriptorSet{Width: models.DescriptorWidth, Data: data}, nil
}

// toGray flattens an image into a row-major luma buffer.
func toGray(img image.Image) ([]uint8, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			gray[y*w+x] = c.Y
		}
	}
	return gray, w, h
}

// selectKeypoints scans the image in cells and picks, per cell with enough
// intensity spread, the pixel furthest from the cell mean. Cells too close
// to the border for a full sampling patch are skipped.
func selectKeypoints(gray []uint8, w, h int) []keypoint {
	var kps []keypoint

	for cy := patchRadius; cy+cellSize <= h-patchRadius; cy += cellSize {
		for cx := patchRadius; cx+cellSize <= w-patchRadius; cx += cellSize {
			lo, hi := 255, 0
			sum := 0
			for y := cy; y < cy+cellSize; y++ {
				for x := cx; x < cx+cellSize; x++ {
					v := int(gray[y*w+x])
					if v < lo {
						lo = v
					}
					if v > hi {
						hi = v
					}
					sum += v
				}
			}

			contrast := hi - lo
			if contrast < contrastThreshold {
				continue
			}

			mean := sum / (cellSize * cellSize)
			bestX, bestY, bestDev := cx, cy, -1
			for y := cy; y < cy+cellSize; y++ {
				for x := cx; x < cx+cellSize; x++ {
					dev := int(gray[y*w+x]) - mean
					if dev < 0 {
						dev = -dev
					}
					if dev > bestDev {
						bestDev = dev
						bestX, bestY = x, y
					}
				}
			}

			kps = append(kps, keypoint{x: bestX, y: bestY, contrast: contrast})
		}
	}
	return kps
}

// describe computes the census descriptor for one keypoint: each bit
// compares the intensities of a fixed pair of offsets inside the patch.
func describe(gray []uint8, w int, kp keypoint) []byte {
	desc := make([]byte, models.DescriptorWidth)
	for i, p := range samplePattern {
		a := gray[(kp.y+p[1])*w+kp.x+p[0]]
		b := gray[(kp.y+p[3])*w+kp.x+p[2]]
		if a < b {
			desc[i/8] |= 1 << uint(i%8)
		}
	}
	return desc
}
