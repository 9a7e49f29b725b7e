package geo

import (
	"fmt"
	"log"
	"math"
)

// Union returns the union of the given polygonal geometries.
// Non-polygonal inputs are rejected with an error.
func Union(gs ...Geometry) (Geometry, error) {
	var acc MultiPolygon
	for _, g := range gs {
		mp, ok := asMulti(g)
		if !ok {
			return nil, fmt.Errorf("union: cannot union %T", g)
		}
		if len(mp) == 0 {
			continue
		}
		if len(acc) == 0 {
			acc = mp
			continue
		}
		acc = ops.Union(acc, mp)
	}
	return collapse(acc), nil
}

// Intersect returns the intersection of two geometries. The result
// type depends on the operands: two polygons intersect to a polygonal
// geometry, a line against a polygon clips to the portions of the line
// inside it, and two lines intersect to their crossing point or shared
// segment. Fragmented line results are merged into the fewest
// continuous lines.
func Intersect(a, b Geometry) (Geometry, error) {
	if _, ok := a.(Empty); ok {
		return Empty{}, nil
	}
	if _, ok := b.(Empty); ok {
		return Empty{}, nil
	}

	am, aPoly := asMulti(a)
	bm, bPoly := asMulti(b)
	if aPoly && bPoly {
		return collapse(ops.Intersection(am, bm)), nil
	}

	// Keep the polygonal operand on the right.
	if aPoly {
		return Intersect(b, a)
	}

	switch av := a.(type) {
	case Line:
		if bPoly {
			return collapseLines(clipLine(av, bm)), nil
		}
		switch bv := b.(type) {
		case Line:
			return intersectLines(av, bv), nil
		case MultiLine:
			var pieces []Line
			for _, l := range bv {
				g := intersectLines(av, l)
				if seg, ok := g.(Line); ok {
					pieces = append(pieces, seg)
				}
			}
			if len(pieces) > 0 {
				return collapseLines(MergeLines(pieces)), nil
			}
			return intersectLineMulti(av, bv), nil
		}
	case MultiLine:
		if bPoly {
			var pieces []Line
			for _, l := range av {
				pieces = append(pieces, clipLine(l, bm)...)
			}
			return collapseLines(MergeLines(pieces)), nil
		}
	case Point:
		if bPoly {
			if bm.containsPoint(av) {
				return av, nil
			}
			return Empty{}, nil
		}
	}
	return nil, fmt.Errorf("intersect: unsupported operands %T and %T", a, b)
}

// intersectLines intersects two lines segment by segment. Collinear
// overlaps yield the shared segment; a single crossing yields a point.
func intersectLines(a, b Line) Geometry {
	var pts []Point
	var segs []Line
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			a1, a2 := a[i-1], a[i]
			b1, b2 := b[j-1], b[j]
			if math.Abs(cross(a1, a2, b1)) < Tolerance && math.Abs(cross(a1, a2, b2)) < Tolerance {
				if seg, ok := overlapSegment(a1, a2, b1, b2); ok {
					segs = append(segs, seg)
				}
				continue
			}
			if hit, p := segIntersect(a1, a2, b1, b2); hit {
				pts = append(pts, p)
			}
		}
	}
	if len(segs) > 0 {
		return collapseLines(MergeLines(segs))
	}
	if len(pts) > 0 {
		return pts[0]
	}
	return Empty{}
}

func intersectLineMulti(a Line, b MultiLine) Geometry {
	for _, l := range b {
		g := intersectLines(a, l)
		if _, empty := g.(Empty); !empty {
			return g
		}
	}
	return Empty{}
}

// overlapSegment returns the overlapping portion of two collinear
// segments, if it has nonzero length.
func overlapSegment(a1, a2, b1, b2 Point) (Line, bool) {
	t1 := segParam(a1, a2, b1)
	t2 := segParam(a1, a2, b2)
	lo := math.Max(0, math.Min(t1, t2))
	hi := math.Min(1, math.Max(t1, t2))
	if hi-lo < Tolerance {
		return nil, false
	}
	return Line{lerp(a1, a2, lo), lerp(a1, a2, hi)}, true
}

func collapseLines(ml MultiLine) Geometry {
	switch len(ml) {
	case 0:
		return Empty{}
	case 1:
		return ml[0]
	default:
		return ml
	}
}

// Differ subtracts b from a. If the raw difference is invalid it is
// repaired by re-unioning it with itself; a result that still fails
// validation is reported as an ErrInvalidGeometry error.
func Differ(a, b Geometry) (Geometry, error) {
	am, ok := asMulti(a)
	if !ok {
		return nil, fmt.Errorf("differ: cannot subtract from %T", a)
	}
	bm, ok := asMulti(b)
	if !ok {
		return nil, fmt.Errorf("differ: cannot subtract %T", b)
	}
	out := ops.Difference(am, bm)
	if err := validRings(out); err != nil {
		out = ops.Union(out, out)
		if err := validRings(out); err != nil {
			return nil, fmt.Errorf("differ: result unrepairable: %w", err)
		}
	}
	return collapse(out), nil
}

func validRings(mp MultiPolygon) error {
	for _, ring := range mp {
		if err := absRing(ring).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Trim subtracts obstacle from shape and keeps only the connected
// piece that touches anchor. It returns Empty when no piece survives.
func Trim(shape, obstacle, anchor Geometry) (Geometry, error) {
	diff, err := Differ(shape, obstacle)
	if err != nil {
		return nil, fmt.Errorf("trim: %w", err)
	}
	dm, _ := asMulti(diff)
	if len(dm) == 0 {
		return Empty{}, nil
	}
	for _, group := range groupShells(dm) {
		hit, err := Intersect(anchor, collapse(group))
		if err != nil {
			return nil, fmt.Errorf("trim: %w", err)
		}
		if _, empty := hit.(Empty); !empty {
			if group.HasHoles() {
				log.Printf("trim: anchored piece has holes, discarding")
				return Empty{}, nil
			}
			return collapse(group), nil
		}
	}
	return Empty{}, nil
}

// groupShells splits a polygon set into connected pieces, each a shell
// with the holes nested inside it.
func groupShells(mp MultiPolygon) []MultiPolygon {
	var groups []MultiPolygon
	var holes []Polygon
	for _, ring := range mp {
		if ring.SignedArea() >= 0 {
			groups = append(groups, MultiPolygon{ring})
		} else {
			holes = append(holes, ring)
		}
	}
	for _, hole := range holes {
		probe := ringInteriorPoint(hole)
		for i, g := range groups {
			if g[0].Contains(probe) {
				groups[i] = append(groups[i], hole)
				break
			}
		}
	}
	return groups
}

