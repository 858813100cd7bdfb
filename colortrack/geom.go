package colortrack

import (
	"image"
	"math"
)

// Rectangle is an axis-aligned box in frame pixel coordinates.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

func NewRect(x, y, width, height int) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

func NewRectFrom(rect image.Rectangle) Rectangle {
	return Rectangle{
		X:      rect.Min.X,
		Y:      rect.Min.Y,
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}
}

// ToImage converts rectangle to standard library's representation
func (r Rectangle) ToImage() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether rectangle has no area
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns width*height (0 for empty rectangles)
func (r Rectangle) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Center returns geometric center of rectangle
func (r Rectangle) Center() Point {
	return Point{
		X: float64(r.X) + float64(r.Width)/2.0,
		Y: float64(r.Y) + float64(r.Height)/2.0,
	}
}

// Contains reports whether pixel (x, y) lies inside rectangle
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside r
func (r Rectangle) ContainsRect(other Rectangle) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Intersect returns the overlapping part of two rectangles (may be empty)
func (r Rectangle) Intersect(other Rectangle) Rectangle {
	return NewRectFrom(r.ToImage().Intersect(other.ToImage()))
}

// Expand grows rectangle by ratio of its size on every side
func (r Rectangle) Expand(ratio float64) Rectangle {
	dx := int(math.Round(float64(r.Width) * ratio))
	dy := int(math.Round(float64(r.Height) * ratio))
	return Rectangle{
		X:      r.X - dx,
		Y:      r.Y - dy,
		Width:  r.Width + 2*dx,
		Height: r.Height + 2*dy,
	}
}

// CenteredAt returns rectangle of the same size with its center moved to c.
// Coordinates are rounded to nearest integer.
func (r Rectangle) CenteredAt(c Point) Rectangle {
	return Rectangle{
		X:      int(math.Round(c.X - float64(r.Width)/2.0)),
		Y:      int(math.Round(c.Y - float64(r.Height)/2.0)),
		Width:  r.Width,
		Height: r.Height,
	}
}

// Fit keeps rectangle inside bounds with size at least minSize.
// Oversized rectangles are shrunk to bounds, misplaced ones are shifted (not cut),
// so the result always has positive size when bounds is not smaller than minSize.
func (r Rectangle) Fit(bounds Rectangle, minSize int) Rectangle {
	w := clampInt(r.Width, minInt(minSize, bounds.Width), bounds.Width)
	h := clampInt(r.Height, minInt(minSize, bounds.Height), bounds.Height)
	x := clampInt(r.X, bounds.X, bounds.X+bounds.Width-w)
	y := clampInt(r.Y, bounds.Y, bounds.Y+bounds.Height-h)
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// Clip cuts rectangle to bounds. When nothing is left (or less than minSize)
// the result is grown back to minSize around the nearest point inside bounds.
func (r Rectangle) Clip(bounds Rectangle, minSize int) Rectangle {
	inter := r.Intersect(bounds)
	if inter.Empty() {
		inter = Rectangle{
			X: clampInt(r.X, bounds.X, bounds.X+bounds.Width-1),
			Y: clampInt(r.Y, bounds.Y, bounds.Y+bounds.Height-1),
		}
	}
	return inter.Fit(bounds, minSize)
}

// Flatten appends x,y,w,h to dst
func (r Rectangle) Flatten(dst []int) []int {
	return append(dst, r.X, r.Y, r.Width, r.Height)
}

// RectsFromFlat decodes flattened x,y,w,h quadruples. Length must be a multiple of 4.
func RectsFromFlat(flat []int) []Rectangle {
	rects := make([]Rectangle, 0, len(flat)/4)
	for i := 0; i+3 < len(flat); i += 4 {
		rects = append(rects, NewRect(flat[i], flat[i+1], flat[i+2], flat[i+3]))
	}
	return rects
}

// FlattenRects encodes rectangles as x,y,w,h quadruples
func FlattenRects(rects []Rectangle) []int {
	flat := make([]int, 0, len(rects)*4)
	for _, r := range rects {
		flat = r.Flatten(flat)
	}
	return flat
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func NewPointFrom(point image.Point) Point {
	return Point{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

// ToImage rounds point to nearest pixel
func (p Point) ToImage() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

// IoU calculates Intersection over Union between two rectangles.
func IoU(r1, r2 Rectangle) float64 {
	interArea := r1.Intersect(r2).Area()
	if interArea == 0 {
		return 0.0
	}
	return float64(interArea) / float64(r1.Area()+r2.Area()-interArea)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampFloat64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
