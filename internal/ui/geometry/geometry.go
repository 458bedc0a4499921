// Package geometry provides integer pixel geometry for video surface
// placement: points, sizes, rectangles, aspect-ratio helpers, and the
// gravity model used to keep overlays anchored across resizes.
package geometry

import "math"

// Aspect ratio of video surfaces (4:3).
const (
	aspectNum = 4
	aspectDen = 3
)

// Point is a position in pixel coordinates.
type Point struct {
	X, Y int
}

// Add returns the point translated by p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the point translated by -p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// IsValid reports whether both dimensions are positive.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect is an axis-aligned rectangle. Unlike Qt rectangles, Right and
// Bottom are exclusive: Right() == X+Width.
type Rect struct {
	X, Y, Width, Height int
}

// RectAt builds a rect from an origin and a size.
func RectAt(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rect's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Center returns the rect's center, rounded towards the origin.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Translated returns the rect moved by (dx, dy).
func (r Rect) Translated(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// MovedTo returns the rect with its top-left placed at origin.
func (r Rect) MovedTo(origin Point) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: r.Width, Height: r.Height}
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Scaled returns the rect with origin and size multiplied by factor,
// rounded to the nearest pixel.
func (r Rect) Scaled(factor float64) Rect {
	return Rect{
		X:      int(math.Round(float64(r.X) * factor)),
		Y:      int(math.Round(float64(r.Y) * factor)),
		Width:  int(math.Round(float64(r.Width) * factor)),
		Height: int(math.Round(float64(r.Height) * factor)),
	}
}

// ClampInto returns the rect moved to lie fully inside host. The right
// and bottom edges are pulled in first, then the origin is floored at
// the host origin, so oversized rects keep their host-origin corner.
func (r Rect) ClampInto(host Rect) Rect {
	out := r
	if out.Right() > host.Right() {
		out.X = host.Right() - out.Width
	}
	if out.Bottom() > host.Bottom() {
		out.Y = host.Bottom() - out.Height
	}
	if out.X < host.X {
		out.X = host.X
	}
	if out.Y < host.Y {
		out.Y = host.Y
	}
	return out
}

// AspectWidthForHeight returns the 4:3 width matching the given height.
func AspectWidthForHeight(height int) int {
	return int(math.Round(float64(height) * aspectNum / aspectDen))
}

// AspectHeightForWidth returns the 4:3 height matching the given width.
func AspectHeightForWidth(width int) int {
	return int(math.Round(float64(width) * aspectDen / aspectNum))
}
