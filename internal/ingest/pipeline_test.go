package ingest

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensa-guide/lensa/internal/feature"
	"github.com/lensa-guide/lensa/internal/models"
	"github.com/lensa-guide/lensa/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "lensa.db"))
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

func writeNoisePNG(t *testing.T, path string, seed int64) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(rng.Intn(256))})
		}
	}
	writePNG(t, path, img)
}

func writeFlatPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	writePNG(t, path, img)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestPipeline_BuildFeatureDatabase_AccountsForEveryImage(t *testing.T) {
	st := newTestStore(t)
	dir := t.TempDir()

	// Catalog rows for the images that should resolve.
	for _, met := range []int64{101, 102, 103} {
		_, err := st.UpsertArtwork(&models.Artwork{MetObjectID: met, Title: "x"})
		require.NoError(t, err)
	}

	writeNoisePNG(t, filepath.Join(dir, "101.png"), 1)       // saved
	writeFlatPNG(t, filepath.Join(dir, "102.png"))           // no features
	require.NoError(t, os.WriteFile(                         // load error
		filepath.Join(dir, "103.png"), []byte("not an image"), 0644))
	writeNoisePNG(t, filepath.Join(dir, "999.png"), 2)       // not in catalog
	writeNoisePNG(t, filepath.Join(dir, "cover.png"), 3)     // no Met object ID
	require.NoError(t, os.WriteFile(                         // not an image extension
		filepath.Join(dir, "notes.txt"), []byte("ignore"), 0644))

	p := NewPipeline(st, feature.NewCensusExtractor(), filepath.Join(dir, "build.lock"), nil)

	summary, err := p.BuildFeatureDatabase(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.ImagesFound)
	assert.Equal(t, 1, summary.SavedFeatures)
	assert.Equal(t, 1, summary.SkippedNoFeatures)
	assert.Equal(t, 1, summary.SkippedLoadError)
	assert.Equal(t, 1, summary.SkippedNotInDB)
	assert.Equal(t, 1, summary.SkippedNoMetID)
	assert.Equal(t, 0, summary.SkippedStoreError)

	count, err := st.CountDescriptorRecords("orb")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Build time lands in the kv table.
	stamp, err := st.GetValue(LastBuildKey)
	require.NoError(t, err)
	assert.NotEmpty(t, stamp)
}

func TestPipeline_RebuildSupersedesDescriptors(t *testing.T) {
	st := newTestStore(t)
	dir := t.TempDir()

	_, err := st.UpsertArtwork(&models.Artwork{MetObjectID: 42, Title: "x"})
	require.NoError(t, err)
	writeNoisePNG(t, filepath.Join(dir, "42.png"), 4)

	p := NewPipeline(st, feature.NewCensusExtractor(), "", nil)

	for i := 0; i < 2; i++ {
		summary, err := p.BuildFeatureDatabase(dir)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.SavedFeatures)
	}

	count, err := st.CountDescriptorRecords("orb")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "rebuilds replace records instead of stacking them")
}

func TestPipeline_MissingImagesDir(t *testing.T) {
	st := newTestStore(t)
	p := NewPipeline(st, feature.NewCensusExtractor(), "", nil)

	_, err := p.BuildFeatureDatabase(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParseMetObjectID(t *testing.T) {
	cases := []struct {
		path string
		id   int64
		ok   bool
	}{
		{"images/436535.jpg", 436535, true},
		{"images/0.png", 0, true},
		{"images/cover.jpg", 0, false},
		{"images/436535-detail.jpg", 0, false},
		{"images/.jpg", 0, false},
	}

	for _, tc := range cases {
		id, ok := parseMetObjectID(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		if tc.ok {
			assert.Equal(t, tc.id, id, tc.path)
		}
	}
}
