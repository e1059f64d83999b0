package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a new bbolt store in a temp directory for testing.
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
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Initialize())
	// idempotent
	require.NoError(t, st.Initialize())

	docs, err := st.ListDocuments()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_GetSetValue(t *testing.T) {
	st := newTestStore(t)

	val, err := st.GetValue("nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, st.SetValue("k", "v1"))
	require.NoError(t, st.SetValue("k", "v2"))

	val, err = st.GetValue("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestStore_CurrentImage(t *testing.T) {
	st := newTestStore(t)

	image, err := st.GetCurrentImage()
	require.NoError(t, err)
	assert.Equal(t, "", image)

	require.NoError(t, st.SetCurrentImage("img-001.png"))
	image, err = st.GetCurrentImage()
	require.NoError(t, err)
	assert.Equal(t, "img-001.png", image)
}

// ==================== Document Tests ====================

func TestStore_SaveAndGetDocument(t *testing.T) {
	st := newTestStore(t)

	doc := &models.Document{
		Image:       "img-001.png",
		Format:      models.FormatDetection,
		Annotations: json.RawMessage(`[{"label":"cat","id":0,"xmin":0,"ymin":0,"xmax":5,"ymax":5}]`),
	}
	require.NoError(t, st.SaveDocument(doc))
	assert.NotEmpty(t, doc.Revision)
	assert.False(t, doc.UpdatedAt.IsZero())

	got, err := st.GetDocument("img-001.png")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.Image, got.Image)
	assert.Equal(t, doc.Format, got.Format)
	assert.Equal(t, doc.Revision, got.Revision)
	assert.JSONEq(t, string(doc.Annotations), string(got.Annotations))
	assert.Equal(t, 1, got.Count())
}

func TestStore_SaveDocument_NewRevision(t *testing.T) {
	st := newTestStore(t)

	doc := &models.Document{Image: "a.png", Format: models.FormatDetection}
	require.NoError(t, st.SaveDocument(doc))
	first := doc.Revision
	assert.JSONEq(t, `[]`, string(doc.Annotations))

	require.NoError(t, st.SaveDocument(doc))
	assert.NotEqual(t, first, doc.Revision)
}

func TestStore_SaveDocument_NoImage(t *testing.T) {
	st := newTestStore(t)

	err := st.SaveDocument(&models.Document{})
	assert.Error(t, err)
}

func TestStore_GetDocument_NotFound(t *testing.T) {
	st := newTestStore(t)

	doc, err := st.GetDocument("missing.png")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestStore_ListDocuments_Sorted(t *testing.T) {
	st := newTestStore(t)

	for _, name := range []string{"c.png", "a.png", "b.png"} {
		require.NoError(t, st.SaveDocument(&models.Document{Image: name, Format: models.FormatSegmentation}))
	}

	docs, err := st.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a.png", docs[0].Image)
	assert.Equal(t, "b.png", docs[1].Image)
	assert.Equal(t, "c.png", docs[2].Image)
}

func TestStore_DeleteDocument(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveDocument(&models.Document{Image: "a.png", Format: models.FormatDetection}))

	require.NoError(t, st.DeleteDocument("a.png"))

	doc, err := st.GetDocument("a.png")
	require.NoError(t, err)
	assert.Nil(t, doc)

	assert.Error(t, st.DeleteDocument("a.png"))
}
