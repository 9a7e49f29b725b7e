package geo

import (
	"log"
	"math"
)

// Shape catalog: families of grid-friendly polygons with approximately
// a requested area, used as placement candidates for rooms and
// chambers. Each list function returns one polygon per plausible
// orientation; the caller translates them into position, so all shapes
// are built near the origin.

// Box constructs an axis-aligned rectangle within the given bounds.
func Box(xmin, ymin, xmax, ymax float64) Polygon {
	return Polygon{
		{X: xmin, Y: ymin}, {X: xmax, Y: ymin},
		{X: xmax, Y: ymax}, {X: xmin, Y: ymax},
	}
}

// RectangleList returns the one or two grid orientations of a
// width-by-height rectangle.
func RectangleList(width, height float64) []Polygon {
	rect := Box(0, 0, width, height)
	if width == height {
		return []Polygon{rect}
	}
	return []Polygon{rect, rotate90(rect, 1)}
}

const circleSegments = 32

// Circle constructs an approximately circular polygon with
// approximately the requested area and a grid-friendly center: even
// radii center on a grid intersection, odd ones on a cell center.
func Circle(area float64) Polygon {
	radius := math.Sqrt(area / math.Pi)
	radius = math.Max(5, 5*math.Round(radius/5))
	log.Printf("circle: area %v -> radius %v", area, radius)
	cx, cy := 0.0, 0.0
	if math.Mod(radius, 10) != 0 {
		cx, cy = 5, 5
	}
	// Slightly undersized so a circle inscribed in grid cells does not
	// collide with neighbors it only grazes.
	r := radius - 0.1
	ring := make(Polygon, circleSegments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / circleSegments
		ring[i] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return ring
}

// CircleList returns the single orientation of a circle.
func CircleList(area float64) []Polygon {
	return []Polygon{Circle(area)}
}

// IsoscelesRightTriangle constructs a grid-sized isosceles right
// triangle with approximately the requested area.
func IsoscelesRightTriangle(area float64) Polygon {
	size := math.Round(math.Sqrt(area*2)/10) * 10
	return Polygon{{X: 0, Y: 0}, {X: size, Y: 0}, {X: 0, Y: size}}
}

// TriangleList returns the four orientations of an isosceles right
// triangle with approximately the requested area.
func TriangleList(area float64) []Polygon {
	t := IsoscelesRightTriangle(area)
	return []Polygon{t, rotate90(t, 1), rotate90(t, 2), rotate90(t, 3)}
}

// TrapezoidList returns 45-degree trapezoids of various aspect ratios
// and orientations with approximately the requested area. One-sided
// trapezoids (one square corner) come in eight orientations,
// symmetrical ones in four. The range of aspect ratios is hand-tuned
// for plausible room proportions.
func TrapezoidList(area float64) []Polygon {
	var out []Polygon
	hLo := 10 * math.Ceil(math.Sqrt(area/2)/10)
	hHi := 10 * math.Ceil(math.Sqrt(area*3/2)/10)
	for h := hLo; h < hHi; h += 10 {
		w1 := math.Round((area/h-h/2)/10) * 10
		w2 := math.Round((area/h-h)/10) * 10
		if w1 < 10 {
			break
		}
		oneSided := Polygon{
			{X: 0, Y: 0}, {X: w1, Y: 0}, {X: w1 + h, Y: h}, {X: 0, Y: h},
		}
		mirrored := mirrorX(oneSided)
		for i := 0; i < 4; i++ {
			out = append(out, rotate90(oneSided, i), rotate90(mirrored, i))
		}
		if w2 >= 10 {
			twoSided := Polygon{
				{X: 0, Y: 0}, {X: h + w2 + h, Y: 0},
				{X: h + w2, Y: h}, {X: h, Y: h},
			}
			for i := 0; i < 4; i++ {
				out = append(out, rotate90(twoSided, i))
			}
		}
	}
	return out
}

// OvalList returns capsule-shaped rooms (a rectangle with semicircular
// ends) of varying proportions with approximately the requested area,
// in two orientations each.
func OvalList(area float64) []Polygon {
	var out []Polygon
	hLo := 10 * math.Ceil(math.Sqrt(area/4)/10)
	hHi := 10 * math.Ceil(math.Sqrt(area)/10)
	for h := hLo; h < hHi; h += 10 {
		w := math.Round((area/h-math.Pi/4*h)/10) * 10
		if w < 10 {
			continue
		}
		offset := 5.0
		if math.Mod(h, 20) == 0 {
			offset = 0
		}
		capsule := stadium(Point{X: offset, Y: offset}, Point{X: offset, Y: w + offset}, h/2)
		out = append(out, capsule, rotate90(capsule, 1))
	}
	return out
}

// stadium buffers the segment a-b into a capsule of the given radius.
func stadium(a, b Point, radius float64) Polygon {
	ang := math.Atan2(b.Y-a.Y, b.X-a.X)
	const segs = 16
	ring := make(Polygon, 0, 2*segs+2)
	// Semicircle around b, then around a.
	for i := 0; i <= segs; i++ {
		t := ang - math.Pi/2 + math.Pi*float64(i)/segs
		ring = append(ring, Point{X: b.X + radius*math.Cos(t), Y: b.Y + radius*math.Sin(t)})
	}
	for i := 0; i <= segs; i++ {
		t := ang + math.Pi/2 + math.Pi*float64(i)/segs
		ring = append(ring, Point{X: a.X + radius*math.Cos(t), Y: a.Y + radius*math.Sin(t)})
	}
	return ring.Simplify()
}

// HexagonList returns 45-degree hexagons of varying proportions with
// approximately the requested area, in two orientations each.
func HexagonList(area float64) []Polygon {
	var out []Polygon
	hLo := 10 * math.Ceil(math.Sqrt(area*2/3)/10)
	hHi := 10 * math.Ceil(math.Sqrt(area*3/2)/10)
	for h := hLo; h < hHi; h += 10 {
		w := math.Round((area/h-h/2)/10) * 10
		if w < 10 {
			break
		}
		offset := 5.0
		if math.Mod(h, 20) == 0 {
			offset = 0
		}
		hex := Polygon{
			{X: h/2 + offset, Y: 0}, {X: offset, Y: h / 2},
			{X: h/2 + offset, Y: h}, {X: h/2 + w + offset, Y: h},
			{X: h + w + offset, Y: h / 2}, {X: h/2 + w + offset, Y: 0},
		}.Orient()
		out = append(out, hex, rotate90(hex, 1))
	}
	return out
}

// OctagonList returns a single near-regular 45-degree octagon with
// approximately the requested area.
func OctagonList(area float64) []Polygon {
	size := math.Round(math.Sqrt(area*9/7)/10) * 10
	corner := 10 * math.Floor(size/30)
	return []Polygon{{
		{X: 0, Y: corner}, {X: 0, Y: size - corner},
		{X: corner, Y: size}, {X: size - corner, Y: size},
		{X: size, Y: size - corner}, {X: size, Y: corner},
		{X: size - corner, Y: 0}, {X: corner, Y: 0},
	}}
}

// rotate90 rotates the ring by quarter turns about the origin, keeping
// coordinates exact.
func rotate90(p Polygon, quarters int) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		q := pt
		for k := 0; k < ((quarters % 4) + 4) % 4; k++ {
			q = Point{X: -q.Y, Y: q.X}
		}
		out[i] = q
	}
	return out.Orient()
}

// mirrorX reflects the ring across the Y axis.
func mirrorX(p Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: -pt.X, Y: pt.Y}
	}
	return out.Orient()
}
