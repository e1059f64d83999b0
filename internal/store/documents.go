package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kilupskalvis/annotate/internal/models"
	bolt "go.etcd.io/bbolt"
)

// currentImageKey remembers the image most recently opened for editing.
const currentImageKey = "CURRENT_IMAGE"

// SaveDocument stores doc under its image name, replacing any previous version.
// It assigns a fresh revision id and update time.
func (s *Store) SaveDocument(doc *models.Document) error {
	if doc.Image == "" {
		return fmt.Errorf("document has no image name")
	}
	if len(doc.Annotations) == 0 {
		doc.Annotations = json.RawMessage("[]")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return fmt.Errorf("documents bucket not found")
		}

		doc.Revision = uuid.NewString()
		doc.UpdatedAt = time.Now()

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		return bucket.Put([]byte(doc.Image), data)
	})
}

// GetDocument retrieves the document for an image. Returns (nil, nil) if not found.
func (s *Store) GetDocument(image string) (*models.Document, error) {
	var doc *models.Document

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(image))
		if data == nil {
			return nil
		}

		doc = &models.Document{}
		return json.Unmarshal(data, doc)
	})

	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", image, err)
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by image name.
func (s *Store) ListDocuments() ([]*models.Document, error) {
	var docs []*models.Document

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return nil
		}

		// bbolt iterates keys in byte order
		return bucket.ForEach(func(k, v []byte) error {
			var doc models.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("unmarshal document %s: %w", k, err)
			}
			docs = append(docs, &doc)
			return nil
		})
	})

	return docs, err
}

// DeleteDocument removes the document for an image.
func (s *Store) DeleteDocument(image string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		if bucket == nil {
			return fmt.Errorf("documents bucket not found")
		}
		if bucket.Get([]byte(image)) == nil {
			return fmt.Errorf("document '%s' not found", image)
		}
		return bucket.Delete([]byte(image))
	})
}

// GetCurrentImage returns the image most recently opened for editing, or "".
func (s *Store) GetCurrentImage() (string, error) {
	return s.GetValue(currentImageKey)
}

// SetCurrentImage records the image most recently opened for editing.
func (s *Store) SetCurrentImage(image string) error {
	return s.SetValue(currentImageKey, image)
}
