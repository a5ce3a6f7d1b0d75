package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensa-guide/lensa/internal/models"
)

// newTestStore creates a new SQLite store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

// ==================== Store Tests ====================

func TestStore_Initialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	err = st.Initialize()
	assert.NoError(t, err)

	// Verify tables exist by reading from them
	_, err = st.CountArtworks()
	assert.NoError(t, err)

	_, err = st.CountDescriptorRecords(models.DefaultFeatureKind)
	assert.NoError(t, err)
}

func TestStore_GetSetValue(t *testing.T) {
	st := newTestStore(t)

	err := st.SetValue("test_key", "test_value")
	require.NoError(t, err)

	val, err := st.GetValue("test_key")
	require.NoError(t, err)
	assert.Equal(t, "test_value", val)

	// Non-existent key returns empty
	val, err = st.GetValue("nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	// Update existing value
	err = st.SetValue("test_key", "new_value")
	require.NoError(t, err)

	val, err = st.GetValue("test_key")
	require.NoError(t, err)
	assert.Equal(t, "new_value", val)
}

// ==================== Artwork Tests ====================

func TestStore_UpsertAndGetArtwork(t *testing.T) {
	st := newTestStore(t)

	id, err := st.UpsertArtwork(&models.Artwork{
		MetObjectID: 436535,
		Title:       "Wheat Field with Cypresses",
		Artist:      "Vincent van Gogh",
		Date:        "1889",
		Medium:      "Oil on canvas",
		Department:  "European Paintings",
		ImageURL:    "https://example.org/436535.jpg",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	a, found, err := st.GetArtwork(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Wheat Field with Cypresses", a.Title)
	assert.Equal(t, int64(436535), a.MetObjectID)

	byMet, found, err := st.GetArtworkByMetID(436535)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, byMet.ID)
}

func TestStore_GetArtwork_Absent(t *testing.T) {
	st := newTestStore(t)

	_, found, err := st.GetArtwork(42)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = st.GetArtworkByMetID(99999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_UpsertArtwork_RefreshesFields(t *testing.T) {
	st := newTestStore(t)

	id1, err := st.UpsertArtwork(&models.Artwork{MetObjectID: 100, Title: "Old Title"})
	require.NoError(t, err)

	id2, err := st.UpsertArtwork(&models.Artwork{MetObjectID: 100, Title: "New Title", Artist: "Someone"})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	a, found, err := st.GetArtwork(id1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "New Title", a.Title)
	assert.Equal(t, "Someone", a.Artist)

	count, err := st.CountArtworks()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_SetAudioPath(t *testing.T) {
	st := newTestStore(t)

	id, err := st.UpsertArtwork(&models.Artwork{MetObjectID: 7, Title: "Vase"})
	require.NoError(t, err)

	require.NoError(t, st.SetAudioPath(id, "/audio/artwork_1.mp3"))

	a, found, err := st.GetArtwork(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/audio/artwork_1.mp3", a.AudioFilePath)
}

func TestStore_ListArtworks(t *testing.T) {
	st := newTestStore(t)

	_, err := st.UpsertArtwork(&models.Artwork{MetObjectID: 2, Title: "B"})
	require.NoError(t, err)
	_, err = st.UpsertArtwork(&models.Artwork{MetObjectID: 1, Title: "A"})
	require.NoError(t, err)

	artworks, err := st.ListArtworks()
	require.NoError(t, err)
	require.Len(t, artworks, 2)
	assert.Equal(t, "B", artworks[0].Title)
	assert.Equal(t, "A", artworks[1].Title)
}
