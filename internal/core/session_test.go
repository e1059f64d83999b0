package core

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kilupskalvis/annotate/internal/history"
	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/kilupskalvis/annotate/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a new bbolt store in a temp directory for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

const catsJSON = `{"annotations":[
	{"label":"cat","id":0,"xmin":0,"ymin":0,"xmax":10,"ymax":10},
	{"label":"cat","id":1,"xmin":20,"ymin":20,"xmax":30,"ymax":30}
]}`

func TestOpenSession_NewImage(t *testing.T) {
	st := newTestStore(t)

	s, err := OpenSession(st, "img.png", models.FormatDetection, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.History.Len())
	assert.Empty(t, s.Revision)
}

func TestOpenSession_NewImageWithoutFormat(t *testing.T) {
	st := newTestStore(t)

	_, err := OpenSession(st, "img.png", "", nil)
	assert.Error(t, err)
}

func TestImportJSON_ThenOpen(t *testing.T) {
	st := newTestStore(t)

	result, err := ImportJSON(st, "img.png", models.FormatDetection, []byte(catsJSON), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Replaced)
	assert.NotEmpty(t, result.Revision)

	s, err := OpenSession(st, "img.png", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.FormatDetection, s.Format)
	assert.Equal(t, result.Revision, s.Revision)
	require.Equal(t, 2, s.History.Len())

	// loaded items are ordinary undoable pushes
	assert.Len(t, s.History.Operations(), 2)
	next, err := s.History.NextInstanceID("cat")
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	current, err := st.GetCurrentImage()
	require.NoError(t, err)
	assert.Equal(t, "img.png", current)
}

func TestImportJSON_BareArrayReplaces(t *testing.T) {
	st := newTestStore(t)
	_, err := ImportJSON(st, "img.png", models.FormatDetection, []byte(catsJSON), nil)
	require.NoError(t, err)

	data := []byte(`[{"label":"dog","id":0,"xmin":1,"ymin":1,"xmax":2,"ymax":2}]`)
	result, err := ImportJSON(st, "img.png", models.FormatDetection, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Replaced)
}

func TestImportJSON_Malformed(t *testing.T) {
	st := newTestStore(t)

	_, err := ImportJSON(st, "img.png", models.FormatDetection, []byte(`{"images":[]}`), nil)
	assert.ErrorIs(t, err, history.ErrMalformedJSON)

	doc, err := st.GetDocument("img.png")
	require.NoError(t, err)
	assert.Nil(t, doc, "failed import must not store anything")
}

func TestOpenSession_FormatMismatch(t *testing.T) {
	st := newTestStore(t)
	_, err := ImportJSON(st, "img.png", models.FormatDetection, []byte(catsJSON), nil)
	require.NoError(t, err)

	_, err = OpenSession(st, "img.png", models.FormatSegmentation, nil)
	assert.Error(t, err)
}

func TestSession_EditAndSave(t *testing.T) {
	st := newTestStore(t)
	_, err := ImportJSON(st, "img.png", models.FormatDetection, []byte(catsJSON), nil)
	require.NoError(t, err)

	s, err := OpenSession(st, "img.png", "", nil)
	require.NoError(t, err)
	before := s.Revision

	_, err = ApplyScript(s.History, strings.NewReader("remove 0\nadd rect cat 50 50 60 60\n"))
	require.NoError(t, err)
	require.NoError(t, s.Save())
	assert.NotEqual(t, before, s.Revision)

	out, err := ExportJSON(st, "img.png")
	require.NoError(t, err)

	var root struct {
		Annotations []map[string]any `json:"annotations"`
	}
	require.NoError(t, json.Unmarshal(out, &root))
	require.Len(t, root.Annotations, 2)
	assert.EqualValues(t, 1, root.Annotations[0]["id"])
	assert.EqualValues(t, 2, root.Annotations[1]["id"])
}

func TestExportJSON_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := ExportJSON(st, "missing.png")
	assert.Error(t, err)
}
