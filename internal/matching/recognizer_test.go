package matching

import (
	"image"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensa-guide/lensa/internal/feature"
	"github.com/lensa-guide/lensa/internal/models"
)

// stubSource is an in-memory Source, mirroring the store's read surface.
type stubSource struct {
	records  []models.DescriptorRecord
	artworks map[int64]models.Artwork
}

func (s *stubSource) SnapshotDescriptors(kind string) ([]models.DescriptorRecord, error) {
	return s.records, nil
}

func (s *stubSource) GetArtwork(id int64) (models.Artwork, bool, error) {
	a, ok := s.artworks[id]
	return a, ok, nil
}

// stubExtractor returns a fixed descriptor set for any image.
type stubExtractor struct {
	set models.DescriptorSet
}

func (e *stubExtractor) Extract(img image.Image) (models.DescriptorSet, error) {
	return e.set, nil
}

func (e *stubExtractor) Kind() string { return models.DefaultFeatureKind }

// stubMatcher returns canned correspondences keyed by the reference set's
// descriptor count.
type stubMatcher struct {
	byRefCount map[int][]models.Correspondence
}

func (m *stubMatcher) Match(query, ref models.DescriptorSet) ([]models.Correspondence, error) {
	corrs, ok := m.byRefCount[ref.Count()]
	if !ok {
		return nil, ErrMatchingUnavailable
	}
	return corrs, nil
}

// randomSet builds a descriptor set of count random 32-byte descriptors.
func randomSet(count int, seed int64) models.DescriptorSet {
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, count*models.DescriptorWidth)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	return models.DescriptorSet{Width: models.DescriptorWidth, Data: data}
}

// fillerSet builds a descriptor set of count descriptors; contents are
// irrelevant when paired with the stub matcher.
func fillerSet(count int) models.DescriptorSet {
	return models.DescriptorSet{
		Width: models.DescriptorWidth,
		Data:  make([]byte, count*models.DescriptorWidth),
	}
}

func testImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 4, 4))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecognizer_EmptyQueryReturnsAbsence(t *testing.T) {
	r := NewRecognizer(
		&stubSource{records: []models.DescriptorRecord{{ArtworkID: 1, Set: fillerSet(10)}}},
		&stubExtractor{set: models.DescriptorSet{Width: models.DescriptorWidth}},
		nil,
	)

	_, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecognizer_EmptyStoreReturnsAbsence(t *testing.T) {
	r := NewRecognizer(
		&stubSource{},
		&stubExtractor{set: randomSet(20, 1)},
		nil,
	)

	_, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecognizer_SelfMatchAcceptsAtDefaultGates(t *testing.T) {
	reference := randomSet(36, 42)

	src := &stubSource{
		records: []models.DescriptorRecord{
			{ArtworkID: 3, Set: randomSet(36, 7)},
			{ArtworkID: 5, Set: reference},
		},
		artworks: map[int64]models.Artwork{
			5: {ID: 5, MetObjectID: 436535, Title: "Wheat Field with Cypresses"},
		},
	}

	r := NewRecognizer(src, &stubExtractor{set: reference}, nil)

	result, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int64(5), result.Artwork.ID)
	assert.Equal(t, "Wheat Field with Cypresses", result.Artwork.Title)
	// Every query descriptor finds itself at distance zero.
	assert.Equal(t, 36, result.GoodMatches)
	assert.Equal(t, 36, result.QueryFeatures)
	assert.InDelta(t, 1.0, result.Confidence, 0.001)
}

func TestRecognizer_ConfidenceGateRejectsDespiteEvidence(t *testing.T) {
	// 20 good matches out of 200 at mean distance 170:
	// confidence = 0.7*0.1 + 0.3*(1 - 170/256) ~= 0.171, under the 0.18 gate.
	corrs := append(
		repeat(corr(170, 228), 20),
		repeat(corr(100, 120), 180)...,
	)

	r := &Recognizer{
		Source:    &stubSource{records: []models.DescriptorRecord{{ArtworkID: 1, Set: fillerSet(200)}}},
		Extractor: &stubExtractor{set: fillerSet(200)},
		Matcher:   &stubMatcher{byRefCount: map[int][]models.Correspondence{200: corrs}},
		Logger:    discardLogger(),
	}

	_, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, ok, "confidence gate must reject even with enough good matches")
}

func TestRecognizer_EvidenceGateRejectsDespiteConfidence(t *testing.T) {
	// 10 good matches out of 20 at mean distance 40:
	// confidence = 0.7*0.5 + 0.3*(1 - 40/256) ~= 0.60, well over the
	// threshold, but under the 12-match evidence floor.
	corrs := append(
		repeat(corr(40, 80), 10),
		repeat(corr(100, 110), 10)...,
	)

	r := &Recognizer{
		Source:    &stubSource{records: []models.DescriptorRecord{{ArtworkID: 1, Set: fillerSet(20)}}},
		Extractor: &stubExtractor{set: fillerSet(20)},
		Matcher:   &stubMatcher{byRefCount: map[int][]models.Correspondence{20: corrs}},
		Logger:    discardLogger(),
	}

	_, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, ok, "evidence gate must reject even with high confidence")
}

func TestRecognizer_TracksBestCandidateAcrossScan(t *testing.T) {
	strong := repeat(corr(10, 100), 30) // confidence ~ 0.7 + 0.29
	weak := repeat(corr(60, 100), 15)

	r := &Recognizer{
		Source: &stubSource{
			records: []models.DescriptorRecord{
				{ArtworkID: 1, Set: fillerSet(40)}, // weak
				{ArtworkID: 2, Set: fillerSet(30)}, // strong
			},
			artworks: map[int64]models.Artwork{
				1: {ID: 1, Title: "Weak"},
				2: {ID: 2, Title: "Strong"},
			},
		},
		Extractor: &stubExtractor{set: fillerSet(30)},
		Matcher: &stubMatcher{byRefCount: map[int][]models.Correspondence{
			40: weak,
			30: strong,
		}},
		Logger: discardLogger(),
	}

	result, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Strong", result.Artwork.Title)
}

func TestRecognizer_TieKeepsEarliestCandidate(t *testing.T) {
	corrs := repeat(corr(10, 100), 20)

	r := &Recognizer{
		Source: &stubSource{
			records: []models.DescriptorRecord{
				{ArtworkID: 1, Set: fillerSet(20)},
				{ArtworkID: 2, Set: fillerSet(20)},
			},
			artworks: map[int64]models.Artwork{
				1: {ID: 1, Title: "First"},
				2: {ID: 2, Title: "Second"},
			},
		},
		Extractor: &stubExtractor{set: fillerSet(20)},
		Matcher:   &stubMatcher{byRefCount: map[int][]models.Correspondence{20: corrs}},
		Logger:    discardLogger(),
	}

	result, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "First", result.Artwork.Title)
}

func TestRecognizer_UnavailableCandidatesAreSkipped(t *testing.T) {
	good := repeat(corr(10, 100), 20)

	r := &Recognizer{
		Source: &stubSource{
			records: []models.DescriptorRecord{
				{ArtworkID: 1, Set: fillerSet(99)}, // stub matcher has no entry: unavailable
				{ArtworkID: 2, Set: fillerSet(20)},
			},
			artworks: map[int64]models.Artwork{2: {ID: 2, Title: "Found"}},
		},
		Extractor: &stubExtractor{set: fillerSet(20)},
		Matcher:   &stubMatcher{byRefCount: map[int][]models.Correspondence{20: good}},
		Logger:    discardLogger(),
	}

	result, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Found", result.Artwork.Title)
}

func TestRecognizer_MissingMetadataStillMatches(t *testing.T) {
	reference := randomSet(36, 13)

	src := &stubSource{
		records:  []models.DescriptorRecord{{ArtworkID: 9, Set: reference}},
		artworks: map[int64]models.Artwork{},
	}

	r := NewRecognizer(src, &stubExtractor{set: reference}, nil)

	result, ok, err := r.Recognize(testImage(), DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(9), result.Artwork.ID)
	assert.Empty(t, result.Artwork.Title)
}

func TestRecognizer_RecognizeFile_UndecodablePath(t *testing.T) {
	r := NewRecognizer(&stubSource{}, &stubExtractor{}, nil)

	_, _, err := r.RecognizeFile("/nonexistent/query.jpg", DefaultOptions())
	assert.ErrorIs(t, err, feature.ErrUndecodableImage)
}
