package geo

import (
	"fmt"
	"math"

	"github.com/glennmatthews/aagen/pkg/direction"
)

// widthTolerance is how far a candidate edge segment's cross-width may
// deviate from the requested width and still count as a match.
const widthTolerance = 0.1

// frame maps plan coordinates into a working frame where X runs along
// the search direction and Y runs across it. Cardinal frames are
// rotations; diagonal frames use the (x+y, y-x) skew so that grid
// steps stay whole numbers.
type frame struct {
	to   func(Point) Point
	from func(Point) Point
}

func frameFor(d direction.Direction) (frame, error) {
	switch d {
	case direction.East:
		return frame{
			to:   func(p Point) Point { return p },
			from: func(p Point) Point { return p },
		}, nil
	case direction.West:
		return frame{
			to:   func(p Point) Point { return Point{X: -p.X, Y: p.Y} },
			from: func(p Point) Point { return Point{X: -p.X, Y: p.Y} },
		}, nil
	case direction.North:
		return frame{
			to:   func(p Point) Point { return Point{X: p.Y, Y: p.X} },
			from: func(p Point) Point { return Point{X: p.Y, Y: p.X} },
		}, nil
	case direction.South:
		return frame{
			to:   func(p Point) Point { return Point{X: -p.Y, Y: p.X} },
			from: func(p Point) Point { return Point{X: p.Y, Y: -p.X} },
		}, nil
	case direction.Northeast:
		return frame{
			to:   func(p Point) Point { return Point{X: p.X + p.Y, Y: p.Y - p.X} },
			from: func(p Point) Point { return Point{X: (p.X - p.Y) / 2, Y: (p.X + p.Y) / 2} },
		}, nil
	case direction.Southwest:
		return frame{
			to:   func(p Point) Point { return Point{X: -(p.X + p.Y), Y: p.Y - p.X} },
			from: func(p Point) Point { return Point{X: (-p.X - p.Y) / 2, Y: (-p.X + p.Y) / 2} },
		}, nil
	case direction.Northwest:
		return frame{
			to:   func(p Point) Point { return Point{X: p.Y - p.X, Y: p.X + p.Y} },
			from: func(p Point) Point { return Point{X: (p.Y - p.X) / 2, Y: (p.Y + p.X) / 2} },
		}, nil
	case direction.Southeast:
		return frame{
			to:   func(p Point) Point { return Point{X: p.X - p.Y, Y: p.X + p.Y} },
			from: func(p Point) Point { return Point{X: (p.X + p.Y) / 2, Y: (p.Y - p.X) / 2} },
		}, nil
	}
	return frame{}, fmt.Errorf("edge segments: unknown direction %v", d)
}

func (f frame) toLine(l Line) Line {
	out := make(Line, len(l))
	for i, p := range l {
		out[i] = f.to(p)
	}
	return out
}

func (f frame) fromLine(l Line) Line {
	out := make(Line, len(l))
	for i, p := range l {
		out[i] = f.from(p)
	}
	return out
}

// FindEdgeSegments sweeps a width-wide probe across the polygon's
// bounding box perpendicular to the given direction, in steps of 10
// units, and returns the maximal boundary segments facing that
// direction whose cross-width matches the requested width. When a
// probe position yields several matching segments the one farthest
// outward along the direction wins. The sweep starts one step before
// the bounding box and runs past its far side so extreme segments are
// not missed.
func FindEdgeSegments(poly Geometry, width float64, d direction.Direction) ([]Line, error) {
	mp, ok := asMulti(poly)
	if !ok {
		return nil, fmt.Errorf("edge segments: need a polygon, got %T", poly)
	}
	if len(mp) == 0 {
		return nil, nil
	}
	f, err := frameFor(d)
	if err != nil {
		return nil, err
	}

	// Work entirely in the frame: rings, bounds and probes.
	framed := make(MultiPolygon, 0, len(mp))
	for _, ring := range mp {
		framed = append(framed, Polygon(f.toLine(Line(ring))).Orient())
	}
	b := framed.Bounds()

	const step = 10
	var segments []Line
	for c := math.Floor(b.MinY/step)*step - step; c <= b.MaxY; c += step {
		probe := MultiPolygon{{
			{X: b.MinX - 1, Y: c},
			{X: b.MaxX + 1, Y: c},
			{X: b.MaxX + 1, Y: c + width},
			{X: b.MinX - 1, Y: c + width},
		}}
		var pieces []Line
		for _, ring := range framed {
			pieces = append(pieces, clipLine(ring.Ring(), probe)...)
		}

		// A merged piece can carry the facing wall together with its
		// returns or even the opposite wall when the probe is tangent
		// to the boundary, so reduce each piece to the sub-chains that
		// still span the full cross-width before judging fit.
		var best Line
		for _, piece := range MergeLines(pieces) {
			for _, cand := range widthSubChains(piece, width) {
				if !segmentFits(cand, width) || !facesOutward(cand, framed) {
					continue
				}
				if best == nil || maxAlong(cand) > maxAlong(best) {
					best = cand
				}
			}
		}
		if best != nil {
			segments = append(segments, f.fromLine(best))
		}
	}
	return dedupSegments(segments), nil
}

// widthSubChains returns every contiguous sub-chain of the line that
// spans the full cross-width.
func widthSubChains(l Line, width float64) []Line {
	var out []Line
	for i := 0; i < len(l)-1; i++ {
		for j := i + 1; j < len(l); j++ {
			sub := l[i : j+1]
			if math.Abs(sub.Bounds().Height()-width) < widthTolerance {
				out = append(out, sub)
			}
		}
	}
	return out
}

// facesOutward reports whether the framed segment is an outward wall:
// just beyond its chord midpoint along the direction must be outside
// the polygon, just behind must be inside.
func facesOutward(l Line, framed MultiPolygon) bool {
	s, e := l.Start(), l.End()
	mid := Point{X: (s.X + e.X) / 2, Y: (s.Y + e.Y) / 2}
	const eps = 0.1
	ahead := Point{X: mid.X + eps, Y: mid.Y}
	behind := Point{X: mid.X - eps, Y: mid.Y}
	return !framed.containsPoint(ahead) && framed.containsPoint(behind)
}

// segmentFits reports whether the framed segment spans the requested
// cross-width and does not run deeper along the direction than it is
// wide.
func segmentFits(l Line, width float64) bool {
	b := l.Bounds()
	return math.Abs(b.Height()-width) < widthTolerance && b.Width() < width
}

func maxAlong(l Line) float64 {
	return l.Bounds().MaxX
}

func dedupSegments(segs []Line) []Line {
	var out []Line
	for _, s := range segs {
		dup := false
		for _, o := range out {
			if sameSegment(s, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

func sameSegment(a, b Line) bool {
	return (samePoint(a.Start(), b.Start()) && samePoint(a.End(), b.End())) ||
		(samePoint(a.Start(), b.End()) && samePoint(a.End(), b.Start()))
}
