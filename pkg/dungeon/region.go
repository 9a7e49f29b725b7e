// Package dungeon implements the floor-plan model: regions,
// connections and decorations owned by a Map, the conglomerate-polygon
// invariant, and the candidate search used to grow the plan.
//
// The Map is the sole owner of all entities. Regions and connections
// refer to each other only by index, so there are no reference cycles
// and entities reconstructed from persisted state behave exactly like
// freshly built ones.
package dungeon

import (
	"fmt"
	"log"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/glennmatthews/aagen/pkg/geo"
)

// RegionID indexes a region within its Map. IDs are handed out by the
// Map in insertion order and are never reused.
type RegionID int

// ConnectionID indexes a connection within its Map.
type ConnectionID int

// DecorationID indexes a decoration within its Map.
type DecorationID int

// RegionKind tags what a region represents.
type RegionKind string

const (
	Room    RegionKind = "Room"
	Chamber RegionKind = "Chamber"
	Passage RegionKind = "Passage"
)

func (k RegionKind) valid() bool {
	switch k {
	case Room, Chamber, Passage:
		return true
	}
	return false
}

// Region is a single contiguous area of the plan. A region may carry
// any number of connections to other regions and decorations within
// its own area.
type Region struct {
	ID      RegionID
	Kind    RegionKind
	Polygon geo.Polygon

	connections mapset.Set[ConnectionID]
	decorations mapset.Set[DecorationID]
}

// NewRegion builds an unattached region from a polygon. The region has
// no ID until it is committed to a Map.
func NewRegion(kind RegionKind, ring geo.Polygon) (*Region, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown region kind %q", kind)
	}
	ring = ring.Orient().Simplify()
	if err := ring.Validate(); err != nil {
		return nil, fmt.Errorf("region polygon: %w", err)
	}
	return &Region{
		ID:          -1,
		Kind:        kind,
		Polygon:     ring,
		connections: mapset.New[ConnectionID](),
		decorations: mapset.New[DecorationID](),
	}, nil
}

func (r *Region) String() string {
	b := r.Polygon.Bounds()
	return fmt.Sprintf("<Region %d: %s (%.0f, %.0f)-(%.0f, %.0f) area %.0f, %d connections>",
		r.ID, r.Kind, b.MinX, b.MinY, b.MaxX, b.MaxY, r.Polygon.Area(), r.connections.Size())
}

// Connections returns the IDs of the region's connections in
// ascending order.
func (r *Region) Connections() []ConnectionID {
	out := make([]ConnectionID, 0, r.connections.Size())
	r.connections.Each(func(id ConnectionID) {
		out = append(out, id)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Decorations returns the IDs of the region's decorations in
// ascending order.
func (r *Region) Decorations() []DecorationID {
	out := make([]DecorationID, 0, r.decorations.Size())
	r.decorations.Each(func(id DecorationID) {
		out = append(out, id)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasConnection reports whether the connection is attached to the
// region.
func (r *Region) HasConnection(id ConnectionID) bool {
	return r.connections.Has(id)
}

// AddDecoration attaches a decoration to the region.
func (r *Region) AddDecoration(id DecorationID) {
	r.decorations.Put(id)
}

// Move relocates an uncommitted region. A region that already has
// connections is anchored by them and cannot move.
func (r *Region) Move(dx, dy float64) error {
	if r.connections.Size() > 0 {
		return fmt.Errorf("cannot move %v: it has connections", r)
	}
	r.Polygon = r.Polygon.Translate(dx, dy)
	return nil
}

func (r *Region) attachConnection(id ConnectionID) {
	if r.connections.Has(id) {
		return
	}
	r.connections.Put(id)
	log.Printf("dungeon: attached connection %d to %v", id, r)
}

func (r *Region) detachConnection(id ConnectionID) {
	r.connections.Remove(id)
}

// WallLines returns the region's boundary with the sections owned by
// its connections cut out: the walls still available for new
// connections. The connection lookup resolves IDs to baselines.
func (r *Region) WallLines(baseline func(ConnectionID) geo.Line) geo.MultiLine {
	walls := geo.MultiLine{r.Polygon.Ring()}
	for _, id := range r.Connections() {
		line := baseline(id)
		if len(line) < 2 {
			continue
		}
		var next geo.MultiLine
		for _, wall := range walls {
			next = append(next, geo.SubtractLine(wall, line)...)
		}
		walls = next
	}
	return walls
}
