package models

import (
	"encoding/json"
	"time"
)

// Document is the stored annotation set of one image.
// Annotations holds the JSON array encoding of the items in order.
type Document struct {
	Image       string          `json:"image"`
	Format      Format          `json:"format"`
	Revision    string          `json:"revision"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Annotations json.RawMessage `json:"annotations"`
}

// Count returns the number of annotations in the document.
func (d *Document) Count() int {
	var elems []json.RawMessage
	if err := json.Unmarshal(d.Annotations, &elems); err != nil {
		return 0
	}
	return len(elems)
}

// ShortRevision returns the first 8 characters of the revision id
func (d *Document) ShortRevision() string {
	if len(d.Revision) > 8 {
		return d.Revision[:8]
	}
	return d.Revision
}
