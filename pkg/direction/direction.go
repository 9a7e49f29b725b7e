// Package direction defines the compass directions used throughout the
// dungeon layout engine. There are exactly eight valid directions, at
// 45-degree increments; they are small values, not pooled objects.
//
// To keep diagonal passages aligned with the 5-foot sub-grid, direction
// vectors use Manhattan scaling rather than Euclidean: the diagonal
// components are 0.5, so translating by Vector()*distance moves a
// diagonal line by (distance/2, distance/2).
package direction

import (
	"fmt"
	"log"
	"math"
)

// Direction is one of the eight compass directions.
type Direction int

const (
	North Direction = iota
	Northwest
	West
	Southwest
	South
	Southeast
	East
	Northeast
)

// snapTolerance is the maximum deviation (in degrees) from a 45-degree
// grid angle that will be silently constrained; anything beyond half a
// step is a caller error.
const snapTolerance = 22.5

var names = map[Direction]string{
	North:     "north",
	Northwest: "northwest",
	West:      "west",
	Southwest: "southwest",
	South:     "south",
	Southeast: "southeast",
	East:      "east",
	Northeast: "northeast",
}

var vectors = map[Direction][2]float64{
	North:     {0, 1},
	Northwest: {-0.5, 0.5},
	West:      {-1, 0},
	Southwest: {-0.5, -0.5},
	South:     {0, -1},
	Southeast: {0.5, -0.5},
	East:      {1, 0},
	Northeast: {0.5, 0.5},
}

var degrees = map[Direction]float64{
	North:     90,
	Northwest: 135,
	West:      180,
	Southwest: -135,
	South:     -90,
	Southeast: -45,
	East:      0,
	Northeast: 45,
}

// All returns every direction in a fixed, deterministic order.
func All() []Direction {
	return []Direction{North, Northwest, West, Southwest,
		South, Southeast, East, Northeast}
}

// Cardinal returns the four cardinal directions.
func Cardinal() []Direction {
	return []Direction{North, West, South, East}
}

func (d Direction) String() string {
	if name, ok := names[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Parse returns the direction with the given compass name.
func Parse(name string) (Direction, error) {
	for d, n := range names {
		if n == name {
			return d, nil
		}
	}
	return North, fmt.Errorf("no direction named %q", name)
}

// Vector returns the Manhattan-scaled unit vector for the direction.
func (d Direction) Vector() (dx, dy float64) {
	v := vectors[d]
	return v[0], v[1]
}

// Degrees returns the angle of the direction, with east at 0 and angles
// in the range (-180, 180].
func (d Direction) Degrees() float64 {
	return degrees[d]
}

// IsCardinal reports whether the direction is north, south, east or west.
func (d Direction) IsCardinal() bool {
	dx, dy := d.Vector()
	return dx == 0 || dy == 0
}

// IsDiagonal reports whether the direction is one of the four diagonals.
func (d Direction) IsDiagonal() bool {
	return !d.IsCardinal()
}

// GridStep returns the grid spacing for lines perpendicular to this
// direction: 10 feet on the cardinal grid, 5 feet on the diagonal
// sub-grid.
func (d Direction) GridStep() float64 {
	if d.IsCardinal() {
		return 10
	}
	return 5
}

// FromDegrees returns the grid direction closest to the given angle,
// logging a warning if the angle had to be constrained to the grid by
// a nonzero amount. Angles more than half a 45-degree step from any
// grid direction cannot occur after normalization.
func FromDegrees(deg float64) Direction {
	norm := math.Mod(deg, 360)
	if norm > 180 {
		norm -= 360
	} else if norm <= -180 {
		norm += 360
	}
	for _, d := range All() {
		diff := math.Abs(d.Degrees() - norm)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff < 1e-9 {
			return d
		}
	}
	for _, d := range All() {
		diff := math.Abs(d.Degrees() - norm)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff < snapTolerance {
			log.Printf("direction: constraining angle %v to grid -> %v", deg, d)
			return d
		}
	}
	// Exactly between two grid angles; take the counterclockwise one.
	d := FromDegrees(norm + 1)
	log.Printf("direction: constraining angle %v to grid -> %v", deg, d)
	return d
}

// FromVector returns the grid direction closest to the vector (x, y).
func FromVector(x, y float64) (Direction, error) {
	if x == 0 && y == 0 {
		return North, fmt.Errorf("zero vector has no direction")
	}
	return FromDegrees(math.Atan2(y, x) * 180 / math.Pi), nil
}

// FromBaseline returns the direction normal to a line running from
// (x0, y0) to (x1, y1). Of the two normals, the one to the right of
// travel is returned; callers needing the other side rotate by 180.
func FromBaseline(x0, y0, x1, y1 float64) (Direction, error) {
	return FromVector(y1-y0, x0-x1)
}

// Rotate returns the direction the given number of degrees
// counterclockwise from d, snapped to the 45-degree grid.
func (d Direction) Rotate(deg float64) Direction {
	return FromDegrees(d.Degrees() + deg)
}

// Opposite returns the direction 180 degrees from d.
func (d Direction) Opposite() Direction {
	return d.Rotate(180)
}

// AngleFrom returns the magnitude of the angle between two directions,
// in the range [0, 180].
func (d Direction) AngleFrom(other Direction) float64 {
	angle := math.Abs(d.Degrees() - other.Degrees())
	if angle > 180 {
		angle = 360 - angle
	}
	return angle
}

// AngleTo returns the signed counterclockwise angle from other to d,
// in the range (-180, 180].
func (d Direction) AngleTo(other Direction) float64 {
	angle := math.Mod(d.Degrees()-other.Degrees(), 360)
	if angle > 180 {
		angle -= 360
	} else if angle <= -180 {
		angle += 360
	}
	return angle
}
