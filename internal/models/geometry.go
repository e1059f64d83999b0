package models

// Point is an integer pixel coordinate on the source image.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Rect is an axis-aligned box in pixel coordinates. Both corners are inclusive.
type Rect struct {
	XMin int `json:"xmin"`
	YMin int `json:"ymin"`
	XMax int `json:"xmax"`
	YMax int `json:"ymax"`
}

// NewRect creates a normalized Rect from two opposite corners.
func NewRect(a, b Point) Rect {
	return Rect{
		XMin: min(a.X, b.X),
		YMin: min(a.Y, b.Y),
		XMax: max(a.X, b.X),
		YMax: max(a.Y, b.Y),
	}
}

// Width returns the number of pixel columns covered.
func (r Rect) Width() int {
	return r.XMax - r.XMin + 1
}

// Height returns the number of pixel rows covered.
func (r Rect) Height() int {
	return r.YMax - r.YMin + 1
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax && p.Y >= r.YMin && p.Y <= r.YMax
}

// Translate returns the rectangle shifted by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{XMin: r.XMin + d.X, YMin: r.YMin + d.Y, XMax: r.XMax + d.X, YMax: r.YMax + d.Y}
}

// Polygon is a closed contour. The last vertex connects back to the first.
type Polygon []Point

// Bounds returns the bounding box of the polygon. An empty polygon has a zero Rect.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{XMin: p[0].X, YMin: p[0].Y, XMax: p[0].X, YMax: p[0].Y}
	for _, pt := range p[1:] {
		r.XMin = min(r.XMin, pt.X)
		r.YMin = min(r.YMin, pt.Y)
		r.XMax = max(r.XMax, pt.X)
		r.YMax = max(r.YMax, pt.Y)
	}
	return r
}

// Translate returns a copy of the polygon shifted by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}
