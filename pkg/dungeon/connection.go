package dungeon

import (
	"fmt"
	"log"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// ConnectionKind tags how two regions join.
type ConnectionKind string

const (
	Open   ConnectionKind = "Open"
	Door   ConnectionKind = "Door"
	Secret ConnectionKind = "Secret Door"
	OneWay ConnectionKind = "One-Way Door"
	Arch   ConnectionKind = "Arch"
)

func (k ConnectionKind) valid() bool {
	switch k {
	case Open, Door, Secret, OneWay, Arch:
		return true
	}
	return false
}

// influenceDepth is how far past its baseline a connection claims
// space for the next region.
const influenceDepth = 10.0

// Connection is a shared wall section between two regions, such as a
// door or archway. A connection attached to fewer than two regions is
// incomplete and marks a point where the plan can still grow.
type Connection struct {
	ID   ConnectionID
	Kind ConnectionKind

	// Line is the baseline along the shared wall. BaseDirection is its
	// outward normal, GrowDirection the direction a new region should
	// extend; the two never differ by more than 45 degrees.
	Line          geo.Line
	BaseDirection direction.Direction
	GrowDirection direction.Direction

	// Influence is the space just beyond the baseline: the minimal
	// area a new region must cover to fully adjoin this connection.
	Influence geo.Polygon

	regions mapset.Set[RegionID]
}

// NewConnection builds an unattached connection along the given
// baseline. Its growth direction is the baseline's normal.
func NewConnection(kind ConnectionKind, line geo.Line) (*Connection, error) {
	base, err := direction.FromBaseline(line.Start().X, line.Start().Y,
		line.End().X, line.End().Y)
	if err != nil {
		return nil, fmt.Errorf("connection baseline: %w", err)
	}
	return NewConnectionToward(kind, line, base)
}

// NewConnectionToward builds an unattached connection that should grow
// in the given direction. The baseline's normal is flipped if needed
// so it agrees with the growth direction.
func NewConnectionToward(kind ConnectionKind, line geo.Line, grow direction.Direction) (*Connection, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown connection kind %q", kind)
	}
	if len(line) < 2 || line.Length() <= 0 {
		return nil, fmt.Errorf("connection baseline must have nonzero length")
	}
	base, err := direction.FromBaseline(line.Start().X, line.Start().Y,
		line.End().X, line.End().Y)
	if err != nil {
		return nil, fmt.Errorf("connection baseline: %w", err)
	}
	if base.AngleFrom(grow) > 90 {
		base = base.Opposite()
	}
	if base.AngleFrom(grow) > 45 {
		log.Printf("dungeon: warning: connection base %v and grow %v directions differ by %.0f degrees",
			base, grow, base.AngleFrom(grow))
	}

	c := &Connection{
		ID:            -1,
		Kind:          kind,
		Line:          line,
		BaseDirection: base,
		GrowDirection: grow,
		regions:       mapset.New[RegionID](),
	}
	c.Influence, err = influencePolygon(line, base)
	if err != nil {
		return nil, err
	}
	log.Printf("dungeon: created %v", c)
	return c, nil
}

// influencePolygon extrudes the baseline by influenceDepth along its
// normal and 45 degrees to either side, and intersects the three
// sweeps. The result narrows toward the baseline's ends so a region
// covering it is guaranteed to span the full connection.
func influencePolygon(line geo.Line, base direction.Direction) (geo.Polygon, error) {
	sweepBy := func(d direction.Direction) geo.Polygon {
		return geo.SweepToward(line, d, influenceDepth)
	}
	influence := sweepBy(base)
	for _, skew := range []direction.Direction{base.Rotate(-45), base.Rotate(45)} {
		side := sweepBy(skew)
		if side.Area() <= 0 {
			continue
		}
		hit, err := geo.Intersect(influence, side)
		if err != nil {
			return nil, fmt.Errorf("influence polygon: %w", err)
		}
		influence = geo.ConvexHull(polygonPoints(hit))
	}
	if influence.Area() <= 0 {
		return nil, fmt.Errorf("influence polygon for %v is degenerate", line)
	}
	return influence.Orient().Simplify(), nil
}

// polygonPoints flattens any polygonal geometry into its vertices.
func polygonPoints(g geo.Geometry) []geo.Point {
	switch v := g.(type) {
	case geo.Polygon:
		return v
	case geo.MultiPolygon:
		var pts []geo.Point
		for _, p := range v {
			pts = append(pts, p...)
		}
		return pts
	case geo.Line:
		return v
	default:
		return nil
	}
}

func (c *Connection) String() string {
	b := c.Line.Bounds()
	return fmt.Sprintf("<Connection %d: %s at (%.0f, %.0f)-(%.0f, %.0f) to %v/%v>",
		c.ID, c.Kind, b.MinX, b.MinY, b.MaxX, b.MaxY,
		c.BaseDirection, c.GrowDirection)
}

// Width is the baseline length.
func (c *Connection) Width() float64 {
	return c.Line.Length()
}

// Regions returns the attached region IDs in ascending order.
func (c *Connection) Regions() []RegionID {
	out := make([]RegionID, 0, c.regions.Size())
	c.regions.Each(func(id RegionID) {
		out = append(out, id)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasRegion reports whether the region is attached to the connection.
func (c *Connection) HasRegion(id RegionID) bool {
	return c.regions.Has(id)
}

// IsIncomplete reports whether the connection still wants another
// region.
func (c *Connection) IsIncomplete() bool {
	return c.regions.Size() < 2
}

// IsComplete reports whether the connection joins two regions.
func (c *Connection) IsComplete() bool {
	return c.regions.Size() == 2
}

// Move relocates an uncommitted connection. A connection that already
// has regions is anchored by them and cannot move.
func (c *Connection) Move(dx, dy float64) error {
	if c.regions.Size() > 0 {
		return fmt.Errorf("cannot move %v: it has regions", c)
	}
	c.Line = c.Line.Translate(dx, dy)
	c.Influence = c.Influence.Translate(dx, dy)
	return nil
}

func (c *Connection) attachRegion(id RegionID) {
	if c.regions.Has(id) {
		return
	}
	c.regions.Put(id)
	if c.regions.Size() > 2 {
		log.Printf("dungeon: warning: too many regions for %v", c)
	}
}

func (c *Connection) detachRegion(id RegionID) {
	c.regions.Remove(id)
}
