package geo

import (
	"math"
	"sort"
)

// segIntersect reports whether the closed segments a1-a2 and b1-b2
// intersect, and if they cross at a single point, that point.
func segIntersect(a1, a2, b1, b2 Point) (bool, Point) {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	if ((d1 > Tolerance && d2 < -Tolerance) || (d1 < -Tolerance && d2 > Tolerance)) &&
		((d3 > Tolerance && d4 < -Tolerance) || (d3 < -Tolerance && d4 > Tolerance)) {
		t := d1 / (d1 - d2)
		return true, Point{
			X: a1.X + t*(a2.X-a1.X),
			Y: a1.Y + t*(a2.Y-a1.Y),
		}
	}

	// Collinear or endpoint touches.
	if math.Abs(d1) < Tolerance && onSegment(b1, b2, a1) {
		return true, a1
	}
	if math.Abs(d2) < Tolerance && onSegment(b1, b2, a2) {
		return true, a2
	}
	if math.Abs(d3) < Tolerance && onSegment(a1, a2, b1) {
		return true, b1
	}
	if math.Abs(d4) < Tolerance && onSegment(a1, a2, b2) {
		return true, b2
	}
	return false, Point{}
}

// onSegment reports whether p lies on the closed segment a-b, assuming
// p is already known to be collinear with it.
func onSegment(a, b, p Point) bool {
	return p.X >= math.Min(a.X, b.X)-Tolerance && p.X <= math.Max(a.X, b.X)+Tolerance &&
		p.Y >= math.Min(a.Y, b.Y)-Tolerance && p.Y <= math.Max(a.Y, b.Y)+Tolerance
}

// pointSegDist returns the distance from p to the closed segment a-b.
func pointSegDist(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 < Tolerance*Tolerance {
		return dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return dist(p, Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// lineLineIntersect intersects the infinite lines through a1-a2 and
// b1-b2. It reports false when they are parallel.
func lineLineIntersect(a1, a2, b1, b2 Point) (Point, bool) {
	adx, ady := a2.X-a1.X, a2.Y-a1.Y
	bdx, bdy := b2.X-b1.X, b2.Y-b1.Y
	den := adx*bdy - ady*bdx
	if math.Abs(den) < Tolerance {
		return Point{}, false
	}
	t := ((b1.X-a1.X)*bdy - (b1.Y-a1.Y)*bdx) / den
	return Point{X: a1.X + t*adx, Y: a1.Y + t*ady}, true
}

// containsPoint reports whether the point is inside the polygon set,
// honoring holes, with the boundary counting as inside.
func (mp MultiPolygon) containsPoint(pt Point) bool {
	crossings := 0
	for _, ring := range mp {
		if ring.onBoundary(pt) {
			return true
		}
		if ring.Contains(pt) {
			crossings++
		}
	}
	// A point inside an odd number of rings is in a shell but not in
	// any hole carved out of it.
	return crossings%2 == 1
}

// clipSegment returns the portions of the segment a-b that lie inside
// the polygon set (boundary included), as parameter intervals merged
// into sub-lines.
func clipSegment(a, b Point, mp MultiPolygon) []Line {
	params := []float64{0, 1}
	for _, ring := range mp {
		n := len(ring)
		for i := 0; i < n; i++ {
			e1, e2 := ring[i], ring[(i+1)%n]
			if hit, p := segIntersect(a, b, e1, e2); hit {
				params = append(params, segParam(a, b, p))
			}
			// Collinear overlap contributes the edge endpoints as
			// interval breaks.
			if math.Abs(cross(a, b, e1)) < Tolerance && onSegment(a, b, e1) {
				params = append(params, segParam(a, b, e1))
			}
			if math.Abs(cross(a, b, e2)) < Tolerance && onSegment(a, b, e2) {
				params = append(params, segParam(a, b, e2))
			}
		}
	}
	sort.Float64s(params)

	var out []Line
	for i := 1; i < len(params); i++ {
		t0, t1 := params[i-1], params[i]
		if t1-t0 < Tolerance {
			continue
		}
		mid := lerp(a, b, (t0+t1)/2)
		if !mp.containsPoint(mid) {
			continue
		}
		p0, p1 := lerp(a, b, t0), lerp(a, b, t1)
		if len(out) > 0 && samePoint(out[len(out)-1].End(), p0) {
			out[len(out)-1] = append(out[len(out)-1], p1)
		} else {
			out = append(out, Line{p0, p1})
		}
	}
	return out
}

// segParam returns the parameter of p along the segment a-b.
func segParam(a, b Point, p Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if math.Abs(dx) < Tolerance {
			return 0
		}
		return (p.X - a.X) / dx
	}
	return (p.Y - a.Y) / dy
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

// clipLine returns the portions of the multi-segment line that lie
// inside the polygon set.
func clipLine(l Line, mp MultiPolygon) MultiLine {
	var pieces []Line
	for i := 1; i < len(l); i++ {
		pieces = append(pieces, clipSegment(l[i-1], l[i], mp)...)
	}
	return MergeLines(pieces)
}

// MergeLines joins lines that share endpoints into the fewest possible
// continuous lines. Lines may be reversed as needed to chain.
func MergeLines(lines []Line) MultiLine {
	pool := make([]Line, 0, len(lines))
	for _, l := range lines {
		if len(l) >= 2 && l.Length() > Tolerance {
			pool = append(pool, l)
		}
	}
	var out MultiLine
	for len(pool) > 0 {
		cur := pool[0]
		pool = pool[1:]
		for {
			extended := false
			for i, cand := range pool {
				switch {
				case samePoint(cur.End(), cand.Start()):
					cur = append(cur, cand[1:]...)
				case samePoint(cur.End(), cand.End()):
					cur = append(cur, cand.Reverse()[1:]...)
				case samePoint(cur.Start(), cand.End()):
					cur = append(cand, cur[1:]...)
				case samePoint(cur.Start(), cand.Start()):
					cur = append(cand.Reverse(), cur[1:]...)
				default:
					continue
				}
				pool = append(pool[:i], pool[i+1:]...)
				extended = true
				break
			}
			if !extended {
				break
			}
		}
		out = append(out, dedupLine(cur))
	}
	return out
}

// dedupLine removes consecutive duplicate and collinear interior
// points from a line.
func dedupLine(l Line) Line {
	out := make(Line, 0, len(l))
	for _, p := range l {
		if len(out) > 0 && samePoint(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for i := 1; i < len(out)-1; {
		if math.Abs(cross(out[i-1], out[i], out[i+1])) < Tolerance &&
			dot(out[i-1], out[i], out[i+1]) <= Tolerance {
			out = append(out[:i], out[i+1:]...)
		} else {
			i++
		}
	}
	return out
}

// SubtractLine removes from l any portion lying along cut, returning
// the remaining pieces. Portions of cut not collinear with l are
// ignored.
func SubtractLine(l Line, cut Line) MultiLine {
	var out MultiLine
	var cur Line
	push := func(p Point) {
		if len(cur) == 0 || !samePoint(cur[len(cur)-1], p) {
			cur = append(cur, p)
		}
	}
	flush := func() {
		if len(cur) >= 2 && cur.Length() > Tolerance {
			out = append(out, dedupLine(cur))
		}
		cur = nil
	}
	for i := 1; i < len(l); i++ {
		a, b := l[i-1], l[i]
		t := 0.0
		for _, iv := range coveredIntervals(a, b, cut) {
			if iv[0]-t > Tolerance {
				push(lerp(a, b, t))
				push(lerp(a, b, iv[0]))
			}
			flush()
			if iv[1] > t {
				t = iv[1]
			}
		}
		if 1-t > Tolerance {
			push(lerp(a, b, t))
			push(lerp(a, b, 1))
		}
	}
	flush()
	return out
}

// coveredIntervals returns the sorted, merged parameter intervals of
// the segment a-b that are covered by collinear edges of cut.
func coveredIntervals(a, b Point, cut Line) [][2]float64 {
	var ivs [][2]float64
	for i := 1; i < len(cut); i++ {
		c0, c1 := cut[i-1], cut[i]
		if math.Abs(cross(a, b, c0)) > Tolerance || math.Abs(cross(a, b, c1)) > Tolerance {
			continue
		}
		t0, t1 := segParam(a, b, c0), segParam(a, b, c1)
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		t0, t1 = math.Max(t0, 0), math.Min(t1, 1)
		if t1-t0 > Tolerance {
			ivs = append(ivs, [2]float64{t0, t1})
		}
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i][0] < ivs[j][0] })
	merged := ivs[:0]
	for _, iv := range ivs {
		if n := len(merged); n > 0 && iv[0] <= merged[n-1][1]+Tolerance {
			if iv[1] > merged[n-1][1] {
				merged[n-1][1] = iv[1]
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// ConvexHull returns the convex hull of the points as a
// counterclockwise ring.
func ConvexHull(pts []Point) Polygon {
	if len(pts) < 3 {
		return Polygon(pts)
	}
	sorted := make([]Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var lower, upper []Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= Tolerance {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= Tolerance {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return Polygon(hull).Simplify()
}
