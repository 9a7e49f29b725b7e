package dungeon

import (
	"fmt"
	"log"
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// adjacency describes how to probe placements of a new shape against
// an anchor: an initial grid offset, a sideways step between candidate
// positions, and a shift toward the anchor applied within each
// position.
type adjacency struct {
	x0, y0         float64
	posX, posY     float64
	shiftX, shiftY float64
}

func snapUp(v float64) float64   { return 10 * math.Ceil(v/10) }
func snapDown(v float64) float64 { return 10 * math.Floor(v/10) }

// adjacencyOptions positions a new shape so its bounding box abuts the
// anchor's bounding box on the side the direction names, snapped to
// the grid, and reports how to walk the remaining placements.
func adjacencyOptions(anchor, shape geo.Bounds, d direction.Direction) (adjacency, error) {
	dx, dy := d.Vector()
	var a adjacency
	switch {
	case dy > 0 && dx == 0: // grow north: shape above anchor, shift south
		a.x0 = snapUp(math.Min(anchor.MinX-shape.MinX, anchor.MaxX-shape.MaxX))
		a.y0 = snapDown(anchor.MaxY - shape.MinY)
		a.posX, a.posY = 10, 0
		a.shiftX, a.shiftY = 0, -10
	case dy < 0 && dx == 0: // grow south: shape below anchor, shift north
		a.x0 = snapUp(math.Min(anchor.MinX-shape.MinX, anchor.MaxX-shape.MaxX))
		a.y0 = snapUp(anchor.MinY - shape.MaxY)
		a.posX, a.posY = 10, 0
		a.shiftX, a.shiftY = 0, 10
	case dx > 0 && dy == 0: // grow east: shape right of anchor, shift west
		a.x0 = snapDown(anchor.MaxX - shape.MinX)
		a.y0 = snapUp(math.Min(anchor.MinY-shape.MinY, anchor.MaxY-shape.MaxY))
		a.posX, a.posY = 0, 10
		a.shiftX, a.shiftY = -10, 0
	case dx < 0 && dy == 0: // grow west: shape left of anchor, shift east
		a.x0 = snapUp(anchor.MinX - shape.MaxX)
		a.y0 = snapUp(math.Min(anchor.MinY-shape.MinY, anchor.MaxY-shape.MaxY))
		a.posX, a.posY = 0, 10
		a.shiftX, a.shiftY = 10, 0
	default:
		return a, fmt.Errorf("only cardinal directions are supported, not %v", d)
	}
	return a, nil
}

// FindOptionsForRegion finds every valid placement of each candidate
// shape adjacent to the given connection. Shapes are probed across a
// grid of positions abutting the connection's influence polygon; each
// position where the shape overlaps the influence polygon is trimmed
// against the plan and scored.
func (m *Map) FindOptionsForRegion(shapes []geo.Polygon, c *Connection) []*CandidateRegion {
	var d direction.Direction
	switch {
	case c.GrowDirection.IsCardinal():
		d = c.GrowDirection
	case c.BaseDirection.IsCardinal():
		d = c.BaseDirection
	default:
		return nil
	}
	log.Printf("dungeon: looking for placements of %d shapes adjacent to %v toward %v",
		len(shapes), c, d)

	dirX, dirY := d.Vector()
	anchorB := c.Influence.Bounds()
	var candidates []*CandidateRegion
	inspected := 0
	for _, shape := range shapes {
		shapeB := shape.Bounds()
		adj, err := adjacencyOptions(anchorB, shapeB, d)
		if err != nil {
			log.Printf("dungeon: %v", err)
			return nil
		}

		// Walk sideways across candidate positions until the bounding
		// boxes separate or we pass the anchor.
		for px, py := 0.0, 0.0; ; px, py = px+adj.posX, py+adj.posY {
			at := shiftBounds(shapeB, adj.x0+px, adj.y0+py)
			if !at.Intersects(anchorB) {
				break
			}
			if dirY != 0 && shapeB.MinX+adj.x0+px > anchorB.MinX {
				break
			}
			if dirX != 0 && shapeB.MinY+adj.y0+py > anchorB.MinY {
				break
			}
			// Shift toward the anchor until the shape truly overlaps
			// the influence polygon, then keep going until it stops.
			hit := false
			for sx, sy := 0.0, 0.0; ; sx, sy = sx+adj.shiftX, sy+adj.shiftY {
				dx, dy := adj.x0+px+sx, adj.y0+py+sy
				if !shiftBounds(shapeB, dx, dy).Intersects(anchorB) {
					break
				}
				inspected++
				placed := shape.Translate(dx, dy)
				if areaOverlap(placed, c.Influence) <= geo.Tolerance {
					if hit {
						break
					}
					continue
				}
				hit = true
				merged, err := geo.Union(placed, c.Influence)
				if err != nil {
					log.Printf("dungeon: placement union failed: %v", err)
					continue
				}
				trimmed, ok := m.trimToFit(merged, c.Influence)
				if !ok {
					// Fully subsumed here; closer positions only get worse.
					break
				}
				if cr := m.makeCandidate(dx, dy, merged, trimmed); cr != nil {
					log.Printf("dungeon: found a match at (%.0f, %.0f)", dx, dy)
					candidates = append(candidates, cr)
				}
			}
		}
	}
	log.Printf("dungeon: %d candidate placements identified after inspecting %d possibilities",
		len(candidates), inspected)
	return candidates
}

// TryRegionAsCandidate scores a single pre-positioned shape against
// the plan, anchored at the given connection. Returns nil if the shape
// is trimmed to nothing or shares too little wall.
func (m *Map) TryRegionAsCandidate(shape geo.Polygon, c *Connection) *CandidateRegion {
	trimmed, ok := m.trimToFit(shape, c.Influence)
	if !ok {
		log.Printf("dungeon: %v trimmed to nothing", shape.Bounds())
		return nil
	}
	return m.makeCandidate(0, 0, shape, trimmed)
}

// trimToFit trims a placement against the plan, keeping the piece
// anchored at the given geometry. Reports false if nothing survives.
func (m *Map) trimToFit(shape, anchor geo.Geometry) (geo.Polygon, bool) {
	if _, ok := m.conglomerate.(geo.Empty); ok {
		if p, ok := shape.(geo.Polygon); ok {
			return p, true
		}
	}
	trimmed, err := geo.Trim(shape, m.conglomerate, anchor)
	if err != nil {
		log.Printf("dungeon: trim failed: %v", err)
		return nil, false
	}
	p, ok := trimmed.(geo.Polygon)
	if !ok || p.Area() <= 0 {
		return nil, false
	}
	return p, true
}

// makeCandidate scores a trimmed placement. Candidates sharing less
// wall with the plan than the tuned minimum are geometrically
// insignificant (a point-touch rather than a placement) and dropped.
func (m *Map) makeCandidate(dx, dy float64, base geo.Geometry, trimmed geo.Polygon) *CandidateRegion {
	conns := mapset.New[ConnectionID]()
	for _, c := range m.IncompleteConnections() {
		hit, err := geo.Intersect(c.Influence, trimmed)
		if err != nil {
			continue
		}
		if _, empty := hit.(geo.Empty); !empty {
			conns.Put(c.ID)
		}
	}
	baseArea, _ := polyMeasureOf(base)
	truncated := baseArea - trimmed.Area()

	shared := 0.0
	if len(m.regions) > 0 {
		_, beforePerim := polyMeasureOf(m.conglomerate)
		merged, err := geo.Union(m.conglomerate, trimmed)
		if err != nil {
			log.Printf("dungeon: shared-wall union failed: %v", err)
			return nil
		}
		_, afterPerim := polyMeasureOf(merged)
		shared = (trimmed.Perimeter() + (beforePerim - afterPerim)) / 2
		if shared < m.tuning.MinSharedWall {
			log.Printf("dungeon: candidate only shares %.1f feet of walls, not valid", shared)
			return nil
		}
	}
	return &CandidateRegion{
		OffsetX:     dx,
		OffsetY:     dy,
		Polygon:     trimmed,
		Connections: conns,
		Truncated:   truncated,
		SharedWalls: shared,
	}
}

// FindOptionsForConnection finds baselines where a new connection of
// the given width could be placed on the region's wall facing the
// given direction. Baselines are snapped to the grid; a snap that
// would bleed into other regions disqualifies the wall. When newOnly
// is set, walls leading back into already-placed space are skipped.
//
// Cardinal searches also offer the two neighboring diagonal
// directions.
func (m *Map) FindOptionsForConnection(width float64, rid RegionID, d direction.Direction, newOnly bool) ([]geo.Line, error) {
	r, ok := m.regions[rid]
	if !ok {
		return nil, fmt.Errorf("no region %d", rid)
	}
	log.Printf("dungeon: finding options for a connection (width %.0f) on %v toward %v",
		width, r, d)

	options := m.connectionOptions(width, r, d, newOnly)
	if d.IsCardinal() {
		for _, diag := range []direction.Direction{d.Rotate(-45), d.Rotate(45)} {
			options = append(options, m.connectionOptions(width, r, diag, newOnly)...)
		}
	}
	log.Printf("dungeon: %d candidate baselines identified", len(options))
	return options, nil
}

func (m *Map) connectionOptions(width float64, r *Region, d direction.Direction, newOnly bool) []geo.Line {
	segments, err := geo.FindEdgeSegments(r.Polygon, width, d)
	if err != nil {
		log.Printf("dungeon: edge search failed: %v", err)
		return nil
	}
	var options []geo.Line
	for _, seg := range segments {
		line := seg
		if !onGridLine(line, d) {
			aligned, stub, err := geo.LoftToGrid(line, d, width)
			if err != nil {
				log.Printf("dungeon: cannot snap %v to grid: %v", line, err)
				continue
			}
			if m.stubBleeds(stub, r.ID) {
				log.Printf("dungeon: snapping %v would bleed into placed space", line)
				continue
			}
			line = aligned
		}
		if m.conflictsWithConnections(line, r) {
			continue
		}
		if newOnly && m.crossesOtherRegions(line, r.ID) {
			continue
		}
		options = append(options, line)
	}
	return options
}

// stubBleeds reports whether a grid-snap stub overlaps any region
// other than the one being searched.
func (m *Map) stubBleeds(stub geo.Geometry, rid RegionID) bool {
	for _, other := range m.Regions() {
		if other.ID == rid {
			continue
		}
		if areaOverlap(stub, other.Polygon) > geo.Tolerance {
			return true
		}
	}
	return false
}

// conflictsWithConnections reports whether the baseline overlaps an
// existing connection on the region, either along the wall or by
// reaching into its influence polygon.
func (m *Map) conflictsWithConnections(line geo.Line, r *Region) bool {
	for _, cid := range r.Connections() {
		c, ok := m.connections[cid]
		if !ok {
			continue
		}
		hit, err := geo.Intersect(line, c.Line)
		if err == nil {
			switch hit.(type) {
			case geo.Line, geo.MultiLine:
				log.Printf("dungeon: %v conflicts with existing %v", line, c)
				return true
			}
		}
		if c.Influence.Contains(line.Midpoint()) {
			log.Printf("dungeon: %v reaches into %v", line, c)
			return true
		}
	}
	return false
}

// crossesOtherRegions reports whether the baseline runs along or into
// any region other than the one being searched. Touching another
// region at a single point is fine.
func (m *Map) crossesOtherRegions(line geo.Line, rid RegionID) bool {
	for _, other := range m.Regions() {
		if other.ID == rid {
			continue
		}
		hit, err := geo.Intersect(line, other.Polygon)
		if err != nil {
			continue
		}
		switch hit.(type) {
		case geo.Line, geo.MultiLine:
			log.Printf("dungeon: %v conflicts with existing %v", line, other)
			return true
		}
	}
	return false
}

// onGridLine reports whether both baseline endpoints sit on the
// coordinate grid for the given direction.
func onGridLine(l geo.Line, d direction.Direction) bool {
	step := d.GridStep()
	for _, p := range []geo.Point{l.Start(), l.End()} {
		for _, v := range []float64{p.X, p.Y} {
			r := math.Abs(math.Mod(v, step))
			if r > geo.Tolerance && step-r > geo.Tolerance {
				return false
			}
		}
	}
	return true
}

func shiftBounds(b geo.Bounds, dx, dy float64) geo.Bounds {
	return geo.Bounds{
		MinX: b.MinX + dx,
		MinY: b.MinY + dy,
		MaxX: b.MaxX + dx,
		MaxY: b.MaxY + dy,
	}
}

// polyMeasureOf returns the area and perimeter of any polygonal
// geometry, or zeros.
func polyMeasureOf(g geo.Geometry) (area, perim float64) {
	switch v := g.(type) {
	case geo.Polygon:
		return v.Area(), v.Perimeter()
	case geo.MultiPolygon:
		return v.Area(), v.Perimeter()
	}
	return 0, 0
}
