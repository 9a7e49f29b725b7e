// Package geo implements the 2-D polygon and line algebra behind the
// dungeon layout engine: boolean operations, lofting, grid snapping,
// edge-segment search and junction construction.
//
// Geometry values are immutable by convention; every operation returns
// new values. Boolean set operations are delegated to a computational
// geometry backend behind the narrow PolygonOps interface so it can be
// swapped without touching the rest of the system.
//
// Coordinates are in plan units (feet). X increases east, Y increases
// north. Polygon rings are stored counterclockwise, without an explicit
// closing point; clockwise rings inside a MultiPolygon are holes.
package geo

import (
	"fmt"
	"math"
)

// Tolerance is the coordinate tolerance used for equality and
// degeneracy tests throughout the package.
const Tolerance = 1e-6

// ErrInvalidGeometry is wrapped by errors reporting an operation that
// produced (and could not repair) a self-intersecting or otherwise
// invalid shape.
var ErrInvalidGeometry = fmt.Errorf("invalid geometry")

// Point is an (x, y) pair in plan units.
type Point struct {
	X, Y float64
}

// Line is an ordered sequence of at least two points.
type Line []Point

// MultiLine is a set of disjoint lines.
type MultiLine []Line

// Polygon is a single closed ring of points. The first point is not
// repeated at the end.
type Polygon []Point

// MultiPolygon is a set of rings. Counterclockwise rings are shells;
// clockwise rings are holes in the shell that contains them.
type MultiPolygon []Polygon

// Empty is the zero geometry.
type Empty struct{}

// Geometry is the closed set of geometric value types produced by the
// algebra operations.
type Geometry interface {
	Bounds() Bounds
	geometry()
}

func (Point) geometry()        {}
func (Line) geometry()         {}
func (MultiLine) geometry()    {}
func (Polygon) geometry()      {}
func (MultiPolygon) geometry() {}
func (Empty) geometry()        {}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// emptyBounds is a box that extends any point or box merged into it.
func emptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the box contains no points.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width returns the east-west extent of the box.
func (b Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the north-south extent of the box.
func (b Bounds) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// ExtendPoint grows the box to include p.
func (b Bounds) ExtendPoint(p Point) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X), MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X), MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Extend grows the box to include another box.
func (b Bounds) Extend(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX), MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX), MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Intersects reports whether the two boxes overlap or touch.
func (b Bounds) Intersects(o Bounds) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

func pointsBounds(pts []Point) Bounds {
	b := emptyBounds()
	for _, p := range pts {
		b = b.ExtendPoint(p)
	}
	return b
}

// Bounds returns a degenerate box covering the point.
func (p Point) Bounds() Bounds {
	return Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// Bounds returns the bounding box of the line.
func (l Line) Bounds() Bounds { return pointsBounds(l) }

// Bounds returns the bounding box of all lines.
func (ml MultiLine) Bounds() Bounds {
	b := emptyBounds()
	for _, l := range ml {
		b = b.Extend(l.Bounds())
	}
	return b
}

// Bounds returns the bounding box of the ring.
func (p Polygon) Bounds() Bounds { return pointsBounds(p) }

// Bounds returns the bounding box of all rings.
func (mp MultiPolygon) Bounds() Bounds {
	b := emptyBounds()
	for _, p := range mp {
		b = b.Extend(p.Bounds())
	}
	return b
}

// Bounds of the empty geometry is the empty box.
func (Empty) Bounds() Bounds { return emptyBounds() }

// Translate returns the point moved by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < Tolerance && math.Abs(a.Y-b.Y) < Tolerance
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Translate returns the line moved by (dx, dy).
func (l Line) Translate(dx, dy float64) Line {
	out := make(Line, len(l))
	for i, p := range l {
		out[i] = p.Translate(dx, dy)
	}
	return out
}

// Reverse returns the line with its points in the opposite order.
func (l Line) Reverse() Line {
	out := make(Line, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// Start returns the first point of the line.
func (l Line) Start() Point { return l[0] }

// End returns the last point of the line.
func (l Line) End() Point { return l[len(l)-1] }

// Length returns the total Euclidean length of the line.
func (l Line) Length() float64 {
	var sum float64
	for i := 1; i < len(l); i++ {
		sum += dist(l[i-1], l[i])
	}
	return sum
}

// Midpoint returns the point halfway between the line's endpoints.
func (l Line) Midpoint() Point {
	s, e := l.Start(), l.End()
	return Point{X: (s.X + e.X) / 2, Y: (s.Y + e.Y) / 2}
}

// Translate returns the ring moved by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Translate(dx, dy)
	}
	return out
}

// Translate returns all rings moved by (dx, dy).
func (mp MultiPolygon) Translate(dx, dy float64) MultiPolygon {
	out := make(MultiPolygon, len(mp))
	for i, p := range mp {
		out[i] = p.Translate(dx, dy)
	}
	return out
}

// SignedArea returns the shoelace area of the ring: positive for
// counterclockwise rings, negative for clockwise ones.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Area returns the absolute area of the ring.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Area returns the net area of the rings, treating clockwise rings as
// holes.
func (mp MultiPolygon) Area() float64 {
	var sum float64
	for _, p := range mp {
		sum += p.SignedArea()
	}
	return math.Abs(sum)
}

// Perimeter returns the length of the ring's boundary.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += dist(p[i], p[j])
	}
	return sum
}

// Perimeter returns the total boundary length of all rings.
func (mp MultiPolygon) Perimeter() float64 {
	var sum float64
	for _, p := range mp {
		sum += p.Perimeter()
	}
	return sum
}

// Ring returns the boundary of the polygon as a closed line.
func (p Polygon) Ring() Line {
	out := make(Line, 0, len(p)+1)
	out = append(out, p...)
	if len(p) > 0 {
		out = append(out, p[0])
	}
	return out
}

// Orient returns the ring in counterclockwise order.
func (p Polygon) Orient() Polygon {
	if p.SignedArea() < 0 {
		out := make(Polygon, len(p))
		for i, pt := range p {
			out[len(p)-1-i] = pt
		}
		return out
	}
	return p
}

// Simplify removes duplicate and collinear vertices from the ring.
func (p Polygon) Simplify() Polygon {
	if len(p) < 3 {
		return p
	}
	out := make(Polygon, 0, len(p))
	for _, pt := range p {
		if len(out) > 0 && samePoint(out[len(out)-1], pt) {
			continue
		}
		out = append(out, pt)
	}
	if len(out) > 1 && samePoint(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	// Drop collinear vertices.
	for {
		changed := false
		for i := 0; i < len(out) && len(out) > 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if math.Abs(cross(prev, out[i], next)) < Tolerance &&
				dot(prev, out[i], next) <= Tolerance {
				out = append(out[:i], out[i+1:]...)
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// dot returns (a-b) . (c-b), negative when b lies between a and c.
func dot(a, b, c Point) float64 {
	return (a.X-b.X)*(c.X-b.X) + (a.Y-b.Y)*(c.Y-b.Y)
}

// Contains reports whether the point lies strictly inside the ring.
// Points on the boundary are not contained.
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}
	if p.onBoundary(pt) {
		return false
	}
	inside := false
	for i := range p {
		j := (i + 1) % len(p)
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if x > pt.X {
				inside = !inside
			}
		}
	}
	return inside
}

func (p Polygon) onBoundary(pt Point) bool {
	for i := range p {
		j := (i + 1) % len(p)
		if pointSegDist(pt, p[i], p[j]) < Tolerance {
			return true
		}
	}
	return false
}

// IsValid reports whether the ring is closed, non-degenerate and free
// of self-intersections.
func (p Polygon) IsValid() bool {
	if len(p) < 3 || p.Area() < Tolerance {
		return false
	}
	n := len(p)
	for i := 0; i < n; i++ {
		a1 := p[i]
		a2 := p[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges; they share an endpoint by design.
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := p[j]
			b2 := p[(j+1)%n]
			if hit, _ := segIntersect(a1, a2, b1, b2); hit {
				return false
			}
		}
	}
	return true
}

// Validate returns an error describing why the ring is invalid, or nil.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return fmt.Errorf("%w: ring has %d points", ErrInvalidGeometry, len(p))
	}
	if p.Area() < Tolerance {
		return fmt.Errorf("%w: ring has zero area", ErrInvalidGeometry)
	}
	if !p.IsValid() {
		return fmt.Errorf("%w: ring is self-intersecting", ErrInvalidGeometry)
	}
	return nil
}

// HasHoles reports whether any ring of the set is a hole.
func (mp MultiPolygon) HasHoles() bool {
	for _, p := range mp {
		if p.SignedArea() < 0 {
			return true
		}
	}
	return false
}

// String renders a point with trimmed precision, for logs.
func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", numstr(p.X), numstr(p.Y))
}

func numstr(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
