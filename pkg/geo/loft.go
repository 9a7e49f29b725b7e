package geo

import (
	"fmt"
	"math"

	"github.com/glennmatthews/aagen/pkg/direction"
)

// Loft constructs a polygon skinning consecutive cross-section lines.
// Degenerate cases are handled in priority order: a line containing
// the other yields the container as a zero-area ring, lines sharing an
// endpoint merge into a single ring, otherwise the endpoint pairing
// that yields a valid ring wins, with the convex hull of all points as
// the last resort. Cross-sections that cross each other are a caller
// error.
func Loft(lines ...Line) (Geometry, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("loft: need at least two lines, got %d", len(lines))
	}
	var acc Geometry = Empty{}
	for i := 1; i < len(lines); i++ {
		p, err := loftPair(lines[i-1], lines[i])
		if err != nil {
			return nil, err
		}
		if p.Area() < Tolerance {
			// Degenerate panel; contributes no area.
			if _, empty := acc.(Empty); empty {
				acc = p
			}
			continue
		}
		u, err := Union(acc, p)
		if err != nil {
			return nil, fmt.Errorf("loft: %w", err)
		}
		acc = u
	}
	return acc, nil
}

func loftPair(a, b Line) (Polygon, error) {
	if linesCross(a, b) {
		return nil, fmt.Errorf("%w: loft cross-sections cross each other", ErrInvalidGeometry)
	}

	// One line containing the other collapses to the container.
	if lineContains(a, b) {
		return Polygon(a), nil
	}
	if lineContains(b, a) {
		return Polygon(b), nil
	}

	// A shared endpoint merges the lines into one ring.
	if ring, ok := mergedRing(a, b); ok {
		return ring, nil
	}

	// Try both endpoint pairings and keep the first valid ring.
	for _, cand := range []Line{b.Reverse(), b} {
		ring := make(Polygon, 0, len(a)+len(cand))
		ring = append(ring, a...)
		ring = append(ring, cand...)
		ring = ring.Simplify()
		if ring.IsValid() {
			return ring.Orient(), nil
		}
	}

	pts := make([]Point, 0, len(a)+len(b))
	pts = append(pts, a...)
	pts = append(pts, b...)
	return ConvexHull(pts), nil
}

// linesCross reports whether the lines properly cross (intersect away
// from both lines' endpoints).
func linesCross(a, b Line) bool {
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			a1, a2 := a[i-1], a[i]
			b1, b2 := b[j-1], b[j]
			d1 := cross(b1, b2, a1)
			d2 := cross(b1, b2, a2)
			d3 := cross(a1, a2, b1)
			d4 := cross(a1, a2, b2)
			if ((d1 > Tolerance && d2 < -Tolerance) || (d1 < -Tolerance && d2 > Tolerance)) &&
				((d3 > Tolerance && d4 < -Tolerance) || (d3 < -Tolerance && d4 > Tolerance)) {
				return true
			}
		}
	}
	return false
}

// lineContains reports whether every point of inner lies on outer.
func lineContains(outer, inner Line) bool {
	for _, p := range inner {
		on := false
		for i := 1; i < len(outer); i++ {
			if pointSegDist(p, outer[i-1], outer[i]) < Tolerance {
				on = true
				break
			}
		}
		if !on {
			return false
		}
	}
	return true
}

// mergedRing joins two lines sharing exactly one endpoint into a ring.
func mergedRing(a, b Line) (Polygon, bool) {
	switch {
	case samePoint(a.End(), b.Start()):
		return ringOf(a, b[1:]), true
	case samePoint(a.End(), b.End()):
		return ringOf(a, b.Reverse()[1:]), true
	case samePoint(a.Start(), b.Start()):
		return ringOf(a.Reverse(), b[1:]), true
	case samePoint(a.Start(), b.End()):
		return ringOf(b, a[1:]), true
	}
	return nil, false
}

func ringOf(parts ...Line) Polygon {
	var ring Polygon
	for _, l := range parts {
		ring = append(ring, l...)
	}
	return ring.Simplify().Orient()
}

// SweepLine translates the line by distance in the given compass
// direction, with each offset component rounded to the direction's
// grid step, and returns the swept polygon plus the line's final
// position.
func SweepLine(l Line, d direction.Direction, distance float64) (Geometry, Line, error) {
	dx, dy := d.Vector()
	step := d.GridStep()
	tx := roundTo(dx*distance, step)
	ty := roundTo(dy*distance, step)
	moved := l.Translate(tx, ty)
	poly, err := Loft(l, moved)
	if err != nil {
		return nil, nil, fmt.Errorf("sweep %v by %v: %w", d, distance, err)
	}
	return poly, moved, nil
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

// SweepToward sweeps the line along a compass direction and returns
// the convex hull of the line and its image. The translation is
// rounded to the direction's grid step, as in SweepLine, so diagonal
// sweeps land on the 5-unit subgrid.
func SweepToward(l Line, d direction.Direction, distance float64) Polygon {
	dx, dy := d.Vector()
	step := d.GridStep()
	pts := make([]Point, 0, 2*len(l))
	pts = append(pts, l...)
	pts = append(pts, l.Translate(roundTo(dx*distance, step), roundTo(dy*distance, step))...)
	return ConvexHull(pts)
}

// LoftToGrid snaps an arbitrary line to the nearest grid-aligned line
// of the given width perpendicular to the direction, lofting the input
// to its aligned position. Of the two nearest candidate alignments it
// returns whichever produces the smaller lofted polygon, breaking ties
// by shorter perimeter. Diagonal directions delegate to the dominant
// cardinal component, matching how diagonal corridors carry cardinal
// mouths.
func LoftToGrid(l Line, d direction.Direction, width float64) (Line, Geometry, error) {
	if d.IsDiagonal() {
		return LoftToGrid(l, dominantComponent(l, d), width)
	}

	b := l.Bounds()
	const step = 10

	// Axis coordinate runs along the direction; the cross coordinate
	// runs along the aligned line.
	var axisHi, crossLo, crossHi float64
	switch d {
	case direction.North:
		axisHi, crossLo, crossHi = b.MaxY, b.MinX, b.MaxX
	case direction.South:
		axisHi, crossLo, crossHi = -b.MinY, b.MinX, b.MaxX
	case direction.East:
		axisHi, crossLo, crossHi = b.MaxX, b.MinY, b.MaxY
	case direction.West:
		axisHi, crossLo, crossHi = -b.MinX, b.MinY, b.MaxY
	default:
		return nil, nil, fmt.Errorf("loft to grid: unsupported direction %v", d)
	}

	// Candidate positions along the axis: the grid lines either side
	// of the line's outward extent.
	axisA := math.Floor(axisHi/step) * step
	axisB := math.Ceil(axisHi/step) * step

	// Candidate cross intervals: width-wide spans hung off either
	// outward-rounded end of the line's cross extent.
	c0 := math.Floor(crossLo/step) * step
	c1 := math.Ceil(crossHi/step) * step
	crossCands := [][2]float64{{c0, c0 + width}}
	if math.Abs((c1-width)-c0) > Tolerance {
		crossCands = append(crossCands, [2]float64{c1 - width, c1})
	}

	var (
		bestLine Line
		bestPoly Geometry
		bestArea  = math.Inf(1)
		bestPerim = math.Inf(1)
	)
	for _, axis := range dedupFloats(axisA, axisB) {
		for _, cc := range crossCands {
			cand := alignedLine(d, axis, cc[0], cc[1])
			poly, err := Loft(l, cand)
			if err != nil {
				continue
			}
			area, perim := polyMeasure(poly)
			if area < bestArea-Tolerance ||
				(math.Abs(area-bestArea) < Tolerance && perim < bestPerim-Tolerance) {
				bestLine, bestPoly, bestArea, bestPerim = cand, poly, area, perim
			}
		}
	}
	if bestLine == nil {
		return nil, nil, fmt.Errorf("%w: no grid alignment lofts cleanly from %v", ErrInvalidGeometry, l)
	}
	return bestLine, bestPoly, nil
}

// alignedLine builds the grid line at the given signed axis position
// with the given cross-coordinate interval, oriented so that the
// direction is its outward normal.
func alignedLine(d direction.Direction, axis, cross0, cross1 float64) Line {
	switch d {
	case direction.North:
		return Line{{X: cross1, Y: axis}, {X: cross0, Y: axis}}
	case direction.South:
		return Line{{X: cross0, Y: -axis}, {X: cross1, Y: -axis}}
	case direction.East:
		return Line{{X: axis, Y: cross0}, {X: axis, Y: cross1}}
	default: // West
		return Line{{X: -axis, Y: cross1}, {X: -axis, Y: cross0}}
	}
}

// dominantComponent picks the cardinal component of a diagonal
// direction that best matches the line's orientation: a line taller
// than wide snaps east or west, otherwise north or south.
func dominantComponent(l Line, d direction.Direction) direction.Direction {
	b := l.Bounds()
	left := d.Rotate(45)
	right := d.Rotate(-45)
	for _, c := range []direction.Direction{left, right} {
		ew := c == direction.East || c == direction.West
		if ew && b.Height() >= b.Width() {
			return c
		}
		if !ew && b.Width() >= b.Height() {
			return c
		}
	}
	return right
}

func dedupFloats(vals ...float64) []float64 {
	var out []float64
	for _, v := range vals {
		dup := false
		for _, o := range out {
			if math.Abs(v-o) < Tolerance {
				dup = true
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func polyMeasure(g Geometry) (area, perim float64) {
	switch v := g.(type) {
	case Polygon:
		return v.Area(), v.Perimeter()
	case MultiPolygon:
		return v.Area(), v.Perimeter()
	default:
		return 0, 0
	}
}
