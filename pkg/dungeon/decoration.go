package dungeon

import (
	"fmt"
	"math"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// DecorationKind tags a map furnishing.
type DecorationKind string

const (
	Stairs DecorationKind = "Stairs"
)

func (k DecorationKind) valid() bool {
	return k == Stairs
}

// Decoration is drawn on the map but is not part of its physical
// geometry. Decorations are owned by a region.
type Decoration struct {
	ID          DecorationID
	Kind        DecorationKind
	Polygon     geo.Polygon
	Orientation direction.Direction
}

// NewStairs builds a stairs decoration: an isosceles triangle of the
// given width and length, pointing in the ascent direction, centered
// at (x, y).
func NewStairs(x, y, width, length float64, orientation direction.Direction) (*Decoration, error) {
	if width <= 0 || length <= 0 {
		return nil, fmt.Errorf("stairs must have positive size, got %g x %g", width, length)
	}
	base := geo.Polygon{
		{X: length / 2, Y: 0},
		{X: -length / 2, Y: width / 2},
		{X: -length / 2, Y: -width / 2},
	}
	rad := orientation.Degrees() * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	rotated := make(geo.Polygon, len(base))
	for i, p := range base {
		rotated[i] = geo.Point{
			X: x + p.X*cos - p.Y*sin,
			Y: y + p.X*sin + p.Y*cos,
		}
	}
	return &Decoration{
		ID:          -1,
		Kind:        Stairs,
		Polygon:     rotated.Orient(),
		Orientation: orientation,
	}, nil
}

func (d *Decoration) String() string {
	b := d.Polygon.Bounds()
	return fmt.Sprintf("<Decoration %d: %s oriented %v at (%.0f, %.0f)-(%.0f, %.0f)>",
		d.ID, d.Kind, d.Orientation, b.MinX, b.MinY, b.MaxX, b.MaxY)
}
