package geo

import (
	"math"

	ctgeom "github.com/ctessum/geom"
)

// PolygonOps is the boolean-operation backend. The rest of the package
// builds its algebra on these three primitives, so swapping the
// computational geometry library means providing another
// implementation of this interface.
type PolygonOps interface {
	Union(a, b MultiPolygon) MultiPolygon
	Intersection(a, b MultiPolygon) MultiPolygon
	Difference(a, b MultiPolygon) MultiPolygon
}

var ops PolygonOps = ctessumOps{}

// SetOps replaces the boolean-operation backend. Intended for tests
// and for experimenting with alternative geometry libraries.
func SetOps(o PolygonOps) {
	ops = o
}

// ctessumOps implements PolygonOps on github.com/ctessum/geom.
type ctessumOps struct{}

func (ctessumOps) Union(a, b MultiPolygon) MultiPolygon {
	return fromCtessum(toCtessum(a).Union(toCtessum(b)))
}

func (ctessumOps) Intersection(a, b MultiPolygon) MultiPolygon {
	return fromCtessum(toCtessum(a).Intersection(toCtessum(b)))
}

func (ctessumOps) Difference(a, b MultiPolygon) MultiPolygon {
	return fromCtessum(toCtessum(a).Difference(toCtessum(b)))
}

func toCtessum(mp MultiPolygon) ctgeom.Polygon {
	out := make(ctgeom.Polygon, 0, len(mp))
	for _, ring := range mp {
		r := make([]ctgeom.Point, len(ring))
		for i, p := range ring {
			r[i] = ctgeom.Point{X: p.X, Y: p.Y}
		}
		out = append(out, r)
	}
	return out
}

func fromCtessum(result ctgeom.Polygonal) MultiPolygon {
	var rings MultiPolygon
	if result == nil {
		return rings
	}
	for _, cp := range result.Polygons() {
		for _, r := range cp {
			ring := make(Polygon, 0, len(r))
			for _, p := range r {
				if len(ring) > 0 && samePoint(ring[len(ring)-1], Point{X: p.X, Y: p.Y}) {
					continue
				}
				ring = append(ring, Point{X: p.X, Y: p.Y})
			}
			if len(ring) > 1 && samePoint(ring[0], ring[len(ring)-1]) {
				ring = ring[:len(ring)-1]
			}
			ring = ring.Simplify()
			if len(ring) >= 3 && ring.Area() > Tolerance {
				rings = append(rings, ring)
			}
		}
	}
	return orientRings(rings)
}

// orientRings classifies rings as shells or holes by nesting parity
// and orients them counterclockwise and clockwise respectively.
func orientRings(rings MultiPolygon) MultiPolygon {
	out := make(MultiPolygon, 0, len(rings))
	for i, ring := range rings {
		depth := 0
		probe := ringInteriorPoint(ring)
		for j, other := range rings {
			if i == j {
				continue
			}
			if absRing(other).Contains(probe) {
				depth++
			}
		}
		ccw := ring.SignedArea() > 0
		hole := depth%2 == 1
		if hole == ccw {
			ring = reverseRing(ring)
		}
		out = append(out, ring)
	}
	return out
}

// absRing returns the ring in counterclockwise order regardless of its
// stored orientation, for containment tests.
func absRing(p Polygon) Polygon {
	if p.SignedArea() < 0 {
		return reverseRing(p)
	}
	return p
}

func reverseRing(p Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// ringInteriorPoint returns a point strictly inside the ring. It walks
// candidate offsets from the midpoint of the first edge until one
// tests inside.
func ringInteriorPoint(p Polygon) Point {
	abs := absRing(p)
	if len(abs) < 3 {
		if len(abs) > 0 {
			return abs[0]
		}
		return Point{}
	}
	mid := Point{X: (abs[0].X + abs[1].X) / 2, Y: (abs[0].Y + abs[1].Y) / 2}
	// Inward normal of the first edge of a counterclockwise ring.
	nx := -(abs[1].Y - abs[0].Y)
	ny := abs[1].X - abs[0].X
	n := math.Hypot(nx, ny)
	if n < Tolerance {
		return mid
	}
	nx, ny = nx/n, ny/n
	for _, step := range []float64{1e-3, 1e-2, 0.1, 1} {
		cand := Point{X: mid.X + nx*step, Y: mid.Y + ny*step}
		if abs.Contains(cand) {
			return cand
		}
	}
	return mid
}

// asMulti normalizes a polygonal geometry to a MultiPolygon.
func asMulti(g Geometry) (MultiPolygon, bool) {
	switch v := g.(type) {
	case Polygon:
		return MultiPolygon{v.Orient()}, true
	case MultiPolygon:
		return v, true
	case Empty:
		return nil, true
	default:
		return nil, false
	}
}

// collapse reduces a MultiPolygon to the simplest geometry that
// represents it.
func collapse(mp MultiPolygon) Geometry {
	switch len(mp) {
	case 0:
		return Empty{}
	case 1:
		return mp[0].Orient().Simplify()
	default:
		return mp
	}
}
