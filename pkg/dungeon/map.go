package dungeon

import (
	"fmt"
	"log"
	"sort"

	"github.com/glennmatthews/aagen/pkg/config"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// Map is the master model: the sole owner of all regions, connections
// and decorations, handing out their IDs and maintaining the
// conglomerate polygon.
//
// The conglomerate polygon is the union of every committed region
// polygon; it is recomputed on every mutation, so no caller can ever
// observe a region inserted but not yet merged. All mutation must be
// sequential.
type Map struct {
	tuning config.Tuning

	regions     map[RegionID]*Region
	connections map[ConnectionID]*Connection
	decorations map[DecorationID]*Decoration

	nextRegion     RegionID
	nextConnection ConnectionID
	nextDecoration DecorationID

	conglomerate geo.Geometry
}

// NewMap creates an empty map with default tuning.
func NewMap() *Map {
	return NewMapWithTuning(config.Default())
}

// NewMapWithTuning creates an empty map with the given tuning.
func NewMapWithTuning(t config.Tuning) *Map {
	return &Map{
		tuning:       t,
		regions:      make(map[RegionID]*Region),
		connections:  make(map[ConnectionID]*Connection),
		decorations:  make(map[DecorationID]*Decoration),
		conglomerate: geo.Empty{},
	}
}

func (m *Map) String() string {
	return fmt.Sprintf("<Map: %d regions, %d connections (%d incomplete), %d decorations, total %.0f square feet>",
		len(m.regions), len(m.connections), len(m.IncompleteConnections()),
		len(m.decorations), m.Area())
}

// Conglomerate returns the union of all committed region polygons.
func (m *Map) Conglomerate() geo.Geometry {
	return m.conglomerate
}

// Area is the total floor area of the plan.
func (m *Map) Area() float64 {
	switch v := m.conglomerate.(type) {
	case geo.Polygon:
		return v.Area()
	case geo.MultiPolygon:
		return v.Area()
	}
	return 0
}

// Bounds returns the extent of the plan.
func (m *Map) Bounds() geo.Bounds {
	return m.conglomerate.Bounds()
}

// Regions returns all regions in ascending ID order.
func (m *Map) Regions() []*Region {
	ids := make([]int, 0, len(m.regions))
	for id := range m.regions {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]*Region, len(ids))
	for i, id := range ids {
		out[i] = m.regions[RegionID(id)]
	}
	return out
}

// Connections returns all connections in ascending ID order.
func (m *Map) Connections() []*Connection {
	ids := make([]int, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]*Connection, len(ids))
	for i, id := range ids {
		out[i] = m.connections[ConnectionID(id)]
	}
	return out
}

// Decorations returns all decorations in ascending ID order.
func (m *Map) Decorations() []*Decoration {
	ids := make([]int, 0, len(m.decorations))
	for id := range m.decorations {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]*Decoration, len(ids))
	for i, id := range ids {
		out[i] = m.decorations[DecorationID(id)]
	}
	return out
}

// IncompleteConnections returns the connections still waiting for a
// second region, in ascending ID order.
func (m *Map) IncompleteConnections() []*Connection {
	var out []*Connection
	for _, c := range m.Connections() {
		if c.IsIncomplete() {
			out = append(out, c)
		}
	}
	return out
}

// Region looks up a region by ID.
func (m *Map) Region(id RegionID) (*Region, bool) {
	r, ok := m.regions[id]
	return r, ok
}

// Connection looks up a connection by ID.
func (m *Map) Connection(id ConnectionID) (*Connection, bool) {
	c, ok := m.connections[id]
	return c, ok
}

// Decoration looks up a decoration by ID.
func (m *Map) Decoration(id DecorationID) (*Decoration, bool) {
	d, ok := m.decorations[id]
	return d, ok
}

// AddRegion commits a region to the map, assigns its ID, recomputes
// the conglomerate polygon, and attaches the region to any incomplete
// connection whose influence polygon it overlaps.
//
// A region that overlaps the existing plan with positive area is
// rejected; a correctly trimmed candidate can never do so, so this is
// a consistency check rather than a normal outcome. Touching at a
// point or along an edge is legal.
func (m *Map) AddRegion(r *Region) error {
	if r.ID >= 0 {
		if _, ok := m.regions[r.ID]; ok {
			return nil
		}
		return fmt.Errorf("region %d belongs to another map", r.ID)
	}
	if overlap := areaOverlap(r.Polygon, m.conglomerate); overlap > geo.Tolerance {
		err := fmt.Errorf("%v overlaps the existing plan by %.1f square feet", r, overlap)
		log.Printf("dungeon: error: %v", err)
		return err
	}
	r.ID = m.nextRegion
	m.nextRegion++
	m.regions[r.ID] = r
	log.Printf("dungeon: adding %v to %v", r, m)
	if err := m.RefreshConglomerate(); err != nil {
		delete(m.regions, r.ID)
		r.ID = -1
		m.nextRegion--
		return err
	}

	// A freshly reachable incomplete connection claims the region.
	for _, c := range m.IncompleteConnections() {
		if c.HasRegion(r.ID) {
			continue
		}
		if areaOverlap(c.Influence, r.Polygon) > geo.Tolerance {
			m.attach(c, r)
		}
	}
	return nil
}

// AddConnection commits a connection to the map, assigns its ID, and
// attaches it to any existing region whose polygon overlaps its
// influence polygon.
func (m *Map) AddConnection(c *Connection) error {
	if c.ID >= 0 {
		if _, ok := m.connections[c.ID]; ok {
			return nil
		}
		return fmt.Errorf("connection %d belongs to another map", c.ID)
	}
	c.ID = m.nextConnection
	m.nextConnection++
	m.connections[c.ID] = c
	log.Printf("dungeon: adding %v to %v", c, m)

	for _, r := range m.Regions() {
		if c.HasRegion(r.ID) || c.IsComplete() {
			continue
		}
		if areaOverlap(c.Influence, r.Polygon) > geo.Tolerance {
			m.attach(c, r)
		}
	}
	return nil
}

// Attach links an existing connection and region explicitly, for
// placements the influence-overlap scan cannot infer.
func (m *Map) Attach(cid ConnectionID, rid RegionID) error {
	c, ok := m.connections[cid]
	if !ok {
		return fmt.Errorf("no connection %d", cid)
	}
	r, ok := m.regions[rid]
	if !ok {
		return fmt.Errorf("no region %d", rid)
	}
	m.attach(c, r)
	return nil
}

func (m *Map) attach(c *Connection, r *Region) {
	c.attachRegion(r.ID)
	r.attachConnection(c.ID)
}

// AddDecoration commits a decoration owned by the given region.
func (m *Map) AddDecoration(rid RegionID, d *Decoration) error {
	r, ok := m.regions[rid]
	if !ok {
		return fmt.Errorf("no region %d", rid)
	}
	if d.ID >= 0 {
		if _, ok := m.decorations[d.ID]; ok {
			return nil
		}
		return fmt.Errorf("decoration %d belongs to another map", d.ID)
	}
	d.ID = m.nextDecoration
	m.nextDecoration++
	m.decorations[d.ID] = d
	r.AddDecoration(d.ID)
	log.Printf("dungeon: adding %v to %v", d, m)
	return nil
}

// RemoveConnection detaches and deletes a connection. This reverts an
// unconfirmed growth step; a connection inside a finished plan stays.
func (m *Map) RemoveConnection(id ConnectionID) error {
	c, ok := m.connections[id]
	if !ok {
		return fmt.Errorf("no connection %d", id)
	}
	log.Printf("dungeon: removing %v from %v", c, m)
	for _, rid := range c.Regions() {
		if r, ok := m.regions[rid]; ok {
			r.detachConnection(id)
		}
	}
	delete(m.connections, id)
	return nil
}

// RemoveRegion detaches and deletes a region, recomputing the
// conglomerate polygon. Like RemoveConnection it exists to revert an
// unconfirmed step.
func (m *Map) RemoveRegion(id RegionID) error {
	r, ok := m.regions[id]
	if !ok {
		return fmt.Errorf("no region %d", id)
	}
	log.Printf("dungeon: removing %v from %v", r, m)
	for _, cid := range r.Connections() {
		if c, ok := m.connections[cid]; ok {
			c.detachRegion(id)
		}
	}
	delete(m.regions, id)
	return m.RefreshConglomerate()
}

// RefreshConglomerate recomputes the union of all region polygons.
func (m *Map) RefreshConglomerate() error {
	polys := make([]geo.Geometry, 0, len(m.regions))
	for _, r := range m.Regions() {
		polys = append(polys, r.Polygon)
	}
	if len(polys) == 0 {
		m.conglomerate = geo.Empty{}
		return nil
	}
	merged, err := geo.Union(polys...)
	if err != nil {
		return fmt.Errorf("conglomerate polygon: %w", err)
	}
	m.conglomerate = merged
	return nil
}

// ObjectAt returns the decoration, connection or region containing the
// given point, checked in that order, or nil.
func (m *Map) ObjectAt(pt geo.Point) interface{} {
	for _, d := range m.Decorations() {
		if d.Polygon.Contains(pt) {
			return d
		}
	}
	for _, c := range m.Connections() {
		if c.Influence.Contains(pt) {
			return c
		}
	}
	for _, r := range m.Regions() {
		if r.Polygon.Contains(pt) {
			return r
		}
	}
	return nil
}

// WallLines returns the region's walls not already claimed by its
// connections.
func (m *Map) WallLines(rid RegionID) (geo.MultiLine, error) {
	r, ok := m.regions[rid]
	if !ok {
		return nil, fmt.Errorf("no region %d", rid)
	}
	return r.WallLines(func(id ConnectionID) geo.Line {
		if c, ok := m.connections[id]; ok {
			return c.Line
		}
		return nil
	}), nil
}

// areaOverlap returns the overlapping area of two geometries, or 0 if
// they only touch.
func areaOverlap(a, b geo.Geometry) float64 {
	if _, ok := a.(geo.Empty); ok {
		return 0
	}
	if _, ok := b.(geo.Empty); ok {
		return 0
	}
	hit, err := geo.Intersect(a, b)
	if err != nil {
		log.Printf("dungeon: overlap test failed: %v", err)
		return 0
	}
	switch v := hit.(type) {
	case geo.Polygon:
		return v.Area()
	case geo.MultiPolygon:
		return v.Area()
	}
	return 0
}
