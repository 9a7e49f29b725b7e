package geo

import (
	"fmt"
	"math"

	"github.com/glennmatthews/aagen/pkg/direction"
)

// junctionFrame maps chamber-local coordinates to plan coordinates.
// The origin sits at the left end of the base line (as seen facing the
// base direction), r runs along the base toward its right end and h
// runs forward along the base direction. Diagonal base directions use
// the Manhattan-scaled direction vectors, so grid distances stay whole
// numbers in both frames.
type junctionFrame struct {
	origin Point
	fx, fy float64 // forward axis
	rx, ry float64 // rightward axis
}

func (jf junctionFrame) abs(r, h float64) Point {
	return Point{
		X: jf.origin.X + r*jf.rx + h*jf.fx,
		Y: jf.origin.Y + r*jf.ry + h*jf.fy,
	}
}

func (jf junctionFrame) absLine(pts ...[2]float64) Line {
	out := make(Line, len(pts))
	for i, p := range pts {
		out[i] = jf.abs(p[0], p[1])
	}
	return out
}

func (jf junctionFrame) absRing(pts ...[2]float64) Polygon {
	out := make(Polygon, len(pts))
	for i, p := range pts {
		out[i] = jf.abs(p[0], p[1])
	}
	return out
}

// ConstructIntersection builds the junction chamber grown forward from
// the base line, with one exit mouth per requested direction. Each
// exit is classified by its angular offset from the base direction:
// straight ahead, a 45° or 90° branch, or a 135° turnback; at most one
// exit per side per magnitude is allowed and no exit may point straight
// back. The returned map carries one mouth line per exit direction,
// each ordered so the exit direction is its outward normal.
func ConstructIntersection(base Line, baseDir direction.Direction, exits []direction.Direction, width float64) (Geometry, map[direction.Direction]Line, error) {
	if len(base) < 2 {
		return nil, nil, fmt.Errorf("construct intersection: base line needs two points")
	}
	if len(exits) == 0 {
		return nil, nil, fmt.Errorf("construct intersection: no exit directions requested")
	}
	if width <= 0 {
		return nil, nil, fmt.Errorf("construct intersection: width %v out of range", width)
	}

	b0, b1 := base.Start(), base.End()
	normal, err := direction.FromBaseline(b0.X, b0.Y, b1.X, b1.Y)
	if err != nil {
		return nil, nil, fmt.Errorf("construct intersection: %w", err)
	}
	switch normal {
	case baseDir:
		// Right end first already.
	case baseDir.Opposite():
		b0, b1 = b1, b0
	default:
		return nil, nil, fmt.Errorf("construct intersection: %v is not normal to base %v-%v", baseDir, base.Start(), base.End())
	}

	fx, fy := baseDir.Vector()
	jf := junctionFrame{origin: b1, fx: fx, fy: fy, rx: fy, ry: -fx}

	// Base width in the frame's own metric.
	rlen := jf.rx*jf.rx + jf.ry*jf.ry
	baseW := ((b0.X-b1.X)*jf.rx + (b0.Y-b1.Y)*jf.ry) / rlen
	if baseW < Tolerance {
		return nil, nil, fmt.Errorf("construct intersection: degenerate base line %v-%v", base.Start(), base.End())
	}

	offsets := make(map[int]direction.Direction, len(exits))
	for _, exit := range exits {
		off := int(math.Round(exit.AngleTo(baseDir)))
		if off == 180 || off == -180 {
			return nil, nil, fmt.Errorf("construct intersection: exit %v points back through the base", exit)
		}
		if prev, dup := offsets[off]; dup {
			return nil, nil, fmt.Errorf("construct intersection: exits %v and %v branch the same way", prev, exit)
		}
		offsets[off] = exit
	}
	has := func(off int) bool {
		_, ok := offsets[off]
		return ok
	}

	w := width
	// Stack the side mouths above the turnback stubs, then push the
	// chamber deep enough that the 45° stubs clear everything below.
	sR, sL := 0.0, 0.0
	if has(-135) {
		sR = w
	}
	if has(135) {
		sL = w
	}
	hR, hL := 0.0, 0.0
	if has(-135) {
		hR = w / 2
	}
	if has(135) {
		hL = w / 2
	}
	if has(-90) {
		hR = sR + w
	}
	if has(90) {
		hL = sL + w
	}
	// Each 45° branch hangs its diamond at the lowest grid height that
	// clears everything below it on its side; the chamber must reach at
	// least that far.
	dR := math.Ceil((hR + w/2) / 10) * 10
	dL := math.Ceil((hL + w/2) / 10) * 10
	depth := w
	if has(-90) {
		depth = math.Max(depth, sR+w)
	}
	if has(90) {
		depth = math.Max(depth, sL+w)
	}
	if has(-45) {
		depth = math.Max(depth, dR)
	}
	if has(45) {
		depth = math.Max(depth, dL)
	}
	if has(0) {
		// A straight continuation sweeps twice as far whenever diagonal
		// branches join it, so passages grown from adjacent mouths do
		// not share a corner. Opposed 135/-45 turns need room for the
		// extra bend on top of that.
		forward := w
		if has(-45) || has(45) || has(-135) || has(135) {
			forward = 2 * w
		}
		if (has(135) && has(-45)) || (has(-135) && has(45)) {
			forward += baseW
		}
		depth = math.Max(depth, forward)
	}

	mouths := make(map[direction.Direction]Line, len(offsets))
	pieces := []Geometry{jf.absRing([2]float64{0, 0}, [2]float64{baseW, 0}, [2]float64{baseW, depth}, [2]float64{0, depth})}

	for off, exit := range offsets {
		var mouth Line
		switch off {
		case 0:
			mouth = jf.absLine([2]float64{baseW, depth}, [2]float64{0, depth})
		case -90:
			mouth = jf.absLine([2]float64{baseW, sR}, [2]float64{baseW, sR + w})
		case 90:
			mouth = jf.absLine([2]float64{0, sL + w}, [2]float64{0, sL})
		case -135:
			mouth = jf.absLine([2]float64{baseW, 0}, [2]float64{baseW + w/2, w / 2})
			pieces = append(pieces, jf.absRing(
				[2]float64{baseW, 0}, [2]float64{baseW + w/2, w / 2},
				[2]float64{baseW, w}, [2]float64{baseW - w/2, w / 2}))
		case 135:
			mouth = jf.absLine([2]float64{-w / 2, w / 2}, [2]float64{0, 0})
			pieces = append(pieces, jf.absRing(
				[2]float64{-w / 2, w / 2}, [2]float64{0, 0},
				[2]float64{w / 2, w / 2}, [2]float64{0, w}))
		case -45:
			mouth = jf.absLine([2]float64{baseW + w/2, dR - w/2}, [2]float64{baseW, dR})
			pieces = append(pieces, jf.absRing(
				[2]float64{baseW + w/2, dR - w/2}, [2]float64{baseW, dR},
				[2]float64{baseW - w/2, dR - w/2}, [2]float64{baseW, dR - w}))
		case 45:
			mouth = jf.absLine([2]float64{0, dL}, [2]float64{-w / 2, dL - w/2})
			pieces = append(pieces, jf.absRing(
				[2]float64{0, dL}, [2]float64{-w / 2, dL - w/2},
				[2]float64{0, dL - w}, [2]float64{w / 2, dL - w/2}))
		default:
			return nil, nil, fmt.Errorf("construct intersection: exit %v sits at unsupported offset %d from %v", exit, off, baseDir)
		}
		mouths[exit] = mouth
	}

	chamber, err := Union(pieces...)
	if err != nil {
		return nil, nil, fmt.Errorf("construct intersection: %w", err)
	}
	ring, ok := chamber.(Polygon)
	if !ok {
		return nil, nil, fmt.Errorf("%w: junction chamber fragmented", ErrInvalidGeometry)
	}
	if err := ring.Validate(); err != nil {
		return nil, nil, fmt.Errorf("construct intersection: %w", err)
	}

	// Every mouth must lie on the chamber boundary or the exits would
	// open into solid wall.
	for exit, mouth := range mouths {
		if !lineOnRing(mouth, ring) {
			return nil, nil, fmt.Errorf("%w: exit %v mouth %v-%v not on chamber boundary", ErrInvalidGeometry, exit, mouth.Start(), mouth.End())
		}
	}
	return ring, mouths, nil
}

// lineOnRing reports whether every point of the line lies on the
// ring's boundary.
func lineOnRing(l Line, ring Polygon) bool {
	for i := 1; i < len(l); i++ {
		mid := Point{X: (l[i-1].X + l[i].X) / 2, Y: (l[i-1].Y + l[i].Y) / 2}
		for _, p := range []Point{l[i-1], l[i], mid} {
			if !ring.onBoundary(p) {
				return false
			}
		}
	}
	return true
}
