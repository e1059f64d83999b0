// Package models defines the data structures shared across the annotation tool:
// annotation items and their geometry, history operations, and stored documents.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxInstanceID is the largest instance id an annotation may carry.
const MaxInstanceID = 255

// ErrInvalidAnnotation is returned when a JSON object cannot be decoded into an annotation.
var ErrInvalidAnnotation = errors.New("invalid annotation")

// Kind identifies the geometry variant of an annotation item.
type Kind int

const (
	KindRect Kind = iota
	KindSegmentation
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindSegmentation:
		return "segmentation"
	default:
		return "unknown"
	}
}

// Meta holds the attributes every annotation carries.
type Meta struct {
	Label string `json:"label"`
	ID    int    `json:"id"`
}

// Identity returns the label and instance id.
func (m Meta) Identity() Meta {
	return m
}

// String formats the meta as "label#id".
func (m Meta) String() string {
	return fmt.Sprintf("%s#%d", m.Label, m.ID)
}

// Item is one labeled region of interest on an image.
// Items are values; once handed to a history they must not be mutated.
type Item interface {
	json.Marshaler

	// Identity returns the label and instance id of the item.
	Identity() Meta

	// Kind reports the geometry variant.
	Kind() Kind

	// WithIdentity returns a copy of the item carrying a different label and id.
	WithIdentity(m Meta) Item

	// Translate returns a copy of the item with its geometry shifted by d.
	Translate(d Point) Item
}

// RectAnnotation is a bounding-box annotation used for detection tasks.
type RectAnnotation struct {
	Meta
	Rect Rect
}

// NewRectAnnotation creates a rectangle annotation from two opposite corners.
func NewRectAnnotation(label string, id int, a, b Point) RectAnnotation {
	return RectAnnotation{Meta: Meta{Label: label, ID: id}, Rect: NewRect(a, b)}
}

func (RectAnnotation) Kind() Kind { return KindRect }

func (a RectAnnotation) WithIdentity(m Meta) Item {
	a.Meta = m
	return a
}

func (a RectAnnotation) Translate(d Point) Item {
	a.Rect = a.Rect.Translate(d)
	return a
}

type rectJSON struct {
	Label *string `json:"label"`
	ID    *int    `json:"id"`
	XMin  *int    `json:"xmin"`
	YMin  *int    `json:"ymin"`
	XMax  *int    `json:"xmax"`
	YMax  *int    `json:"ymax"`
}

// MarshalJSON encodes the annotation as {"label","id","xmin","ymin","xmax","ymax"}.
func (a RectAnnotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(rectJSON{
		Label: &a.Label,
		ID:    &a.ID,
		XMin:  &a.Rect.XMin,
		YMin:  &a.Rect.YMin,
		XMax:  &a.Rect.XMax,
		YMax:  &a.Rect.YMax,
	})
}

// DecodeRectAnnotation parses a rectangle annotation from its JSON object form.
func DecodeRectAnnotation(data []byte) (RectAnnotation, error) {
	var raw rectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return RectAnnotation{}, fmt.Errorf("%w: %v", ErrInvalidAnnotation, err)
	}
	meta, err := decodeMeta(raw.Label, raw.ID)
	if err != nil {
		return RectAnnotation{}, err
	}
	if raw.XMin == nil || raw.YMin == nil || raw.XMax == nil || raw.YMax == nil {
		return RectAnnotation{}, fmt.Errorf("%w: rectangle %s is missing bounds", ErrInvalidAnnotation, meta)
	}
	return RectAnnotation{
		Meta: meta,
		Rect: NewRect(Point{X: *raw.XMin, Y: *raw.YMin}, Point{X: *raw.XMax, Y: *raw.YMax}),
	}, nil
}

// SegmentationAnnotation is a polygon-mask annotation used for segmentation tasks.
type SegmentationAnnotation struct {
	Meta
	Polygons []Polygon
}

// NewSegmentationAnnotation creates a segmentation annotation from one or more contours.
func NewSegmentationAnnotation(label string, id int, polygons ...Polygon) SegmentationAnnotation {
	return SegmentationAnnotation{Meta: Meta{Label: label, ID: id}, Polygons: polygons}
}

func (SegmentationAnnotation) Kind() Kind { return KindSegmentation }

func (a SegmentationAnnotation) WithIdentity(m Meta) Item {
	a.Meta = m
	return a
}

func (a SegmentationAnnotation) Translate(d Point) Item {
	polys := make([]Polygon, len(a.Polygons))
	for i, p := range a.Polygons {
		polys[i] = p.Translate(d)
	}
	a.Polygons = polys
	return a
}

// Bounds returns the bounding box of all contours.
func (a SegmentationAnnotation) Bounds() Rect {
	var r Rect
	for i, p := range a.Polygons {
		b := p.Bounds()
		if i == 0 {
			r = b
			continue
		}
		r = NewRect(
			Point{X: min(r.XMin, b.XMin), Y: min(r.YMin, b.YMin)},
			Point{X: max(r.XMax, b.XMax), Y: max(r.YMax, b.YMax)},
		)
	}
	return r
}

type segmentationJSON struct {
	Label    *string   `json:"label"`
	ID       *int      `json:"id"`
	Polygons []Polygon `json:"polygons"`
}

// MarshalJSON encodes the annotation as {"label","id","polygons"}.
func (a SegmentationAnnotation) MarshalJSON() ([]byte, error) {
	polys := a.Polygons
	if polys == nil {
		polys = []Polygon{}
	}
	return json.Marshal(segmentationJSON{Label: &a.Label, ID: &a.ID, Polygons: polys})
}

// DecodeSegmentationAnnotation parses a segmentation annotation from its JSON object form.
func DecodeSegmentationAnnotation(data []byte) (SegmentationAnnotation, error) {
	var raw segmentationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return SegmentationAnnotation{}, fmt.Errorf("%w: %v", ErrInvalidAnnotation, err)
	}
	meta, err := decodeMeta(raw.Label, raw.ID)
	if err != nil {
		return SegmentationAnnotation{}, err
	}
	if raw.Polygons == nil {
		return SegmentationAnnotation{}, fmt.Errorf("%w: segmentation %s is missing polygons", ErrInvalidAnnotation, meta)
	}
	return SegmentationAnnotation{Meta: meta, Polygons: raw.Polygons}, nil
}

func decodeMeta(label *string, id *int) (Meta, error) {
	if label == nil || *label == "" {
		return Meta{}, fmt.Errorf("%w: missing label", ErrInvalidAnnotation)
	}
	if id == nil {
		return Meta{}, fmt.Errorf("%w: %q is missing an instance id", ErrInvalidAnnotation, *label)
	}
	if *id < 0 || *id > MaxInstanceID {
		return Meta{}, fmt.Errorf("%w: instance id %d of %q out of range [0,%d]", ErrInvalidAnnotation, *id, *label, MaxInstanceID)
	}
	return Meta{Label: *label, ID: *id}, nil
}

// DecodeItem parses one annotation object for the given format.
func DecodeItem(format Format, data []byte) (Item, error) {
	switch format {
	case FormatDetection:
		return DecodeRectAnnotation(data)
	case FormatSegmentation:
		return DecodeSegmentationAnnotation(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
