// Package core connects the annotation history to stored documents and
// implements the edit operations driven by the command line.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kilupskalvis/annotate/internal/history"
	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/kilupskalvis/annotate/internal/store"
)

// Session is an editing session over the annotations of one image.
// The history lives only as long as the session.
type Session struct {
	Image    string
	Format   models.Format
	Revision string // revision the session was loaded from or last saved as
	History  *history.History

	store *store.Store
}

// OpenSession loads the stored annotations of image into a fresh history.
// An empty format takes the format of the stored document; an image with no
// document starts empty. Loaded items are pushed through the history like any
// other addition.
func OpenSession(st *store.Store, image string, format models.Format, logger *slog.Logger) (*Session, error) {
	doc, err := st.GetDocument(image)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Image:   image,
		Format:  format,
		History: history.New(history.WithLogger(logger)),
		store:   st,
	}

	if doc == nil {
		if s.Format == "" {
			return nil, fmt.Errorf("no annotations stored for '%s' and no format given", image)
		}
		return s, nil
	}

	if s.Format == "" {
		s.Format = doc.Format
	} else if s.Format != doc.Format {
		return nil, fmt.Errorf("'%s' holds %s annotations, not %s", image, doc.Format, s.Format)
	}
	s.Revision = doc.Revision

	root, err := json.Marshal(map[string]json.RawMessage{"annotations": doc.Annotations})
	if err != nil {
		return nil, fmt.Errorf("encode stored annotations: %w", err)
	}
	if err := s.History.FromJSONObject(root, s.Format); err != nil {
		return nil, fmt.Errorf("load annotations of '%s': %w", image, err)
	}
	return s, nil
}

// Save writes the current items back to the store and records the image as current.
func (s *Session) Save() error {
	data, err := s.History.ToJSONArray()
	if err != nil {
		return err
	}

	doc := &models.Document{
		Image:       s.Image,
		Format:      s.Format,
		Annotations: data,
	}
	if err := s.store.SaveDocument(doc); err != nil {
		return fmt.Errorf("save annotations of '%s': %w", s.Image, err)
	}
	s.Revision = doc.Revision

	return s.store.SetCurrentImage(s.Image)
}

// ImportResult contains the result of an import
type ImportResult struct {
	Image    string
	Imported int
	Replaced int // annotations that were stored before the import
	Revision string
}

// ImportJSON replaces the stored annotations of image with the contents of data.
// data is either an object with an "annotations" array or a bare array.
func ImportJSON(st *store.Store, image string, format models.Format, data []byte, logger *slog.Logger) (*ImportResult, error) {
	result := &ImportResult{Image: image}

	existing, err := st.GetDocument(image)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		result.Replaced = existing.Count()
	}

	s := &Session{
		Image:   image,
		Format:  format,
		History: history.New(history.WithLogger(logger)),
		store:   st,
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		err = s.History.FromJSONArray(data, format)
	} else {
		err = s.History.FromJSONObject(data, format)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Save(); err != nil {
		return nil, err
	}

	result.Imported = s.History.Len()
	result.Revision = s.Revision
	return result, nil
}

// ExportJSON returns the stored annotations of image as {"annotations": [...]}.
func ExportJSON(st *store.Store, image string) ([]byte, error) {
	doc, err := st.GetDocument(image)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("no annotations stored for '%s'", image)
	}
	return json.MarshalIndent(map[string]json.RawMessage{"annotations": doc.Annotations}, "", "  ")
}
