package dungeon

import (
	"fmt"
	"log"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// BuildIntersection grows the plan through an incomplete connection by
// constructing a junction chamber behind it, with one open connection
// spawned per exit direction. The commit is atomic: if any exit cannot
// be placed the map is restored and an error returned.
func (m *Map) BuildIntersection(cid ConnectionID, exits []direction.Direction, width float64) (RegionID, []ConnectionID, error) {
	c, ok := m.connections[cid]
	if !ok {
		return -1, nil, fmt.Errorf("no connection %d", cid)
	}
	poly, mouths, err := geo.ConstructIntersection(c.Line, c.BaseDirection, exits, width)
	if err != nil {
		return -1, nil, fmt.Errorf("intersection at %v: %w", c, err)
	}
	ring, ok := poly.(geo.Polygon)
	if !ok {
		return -1, nil, fmt.Errorf("intersection at %v did not resolve to a single polygon", c)
	}
	if overlap := areaOverlap(ring, m.conglomerate); overlap > geo.Tolerance {
		return -1, nil, fmt.Errorf("intersection at %v would overlap the plan by %.1f square feet", c, overlap)
	}

	region, err := NewRegion(Passage, ring)
	if err != nil {
		return -1, nil, fmt.Errorf("intersection at %v: %w", c, err)
	}
	if err := m.AddRegion(region); err != nil {
		return -1, nil, err
	}
	m.attach(c, region)

	var spawned []ConnectionID
	revert := func() {
		for _, id := range spawned {
			if err := m.RemoveConnection(id); err != nil {
				log.Printf("dungeon: revert: %v", err)
			}
		}
		if err := m.RemoveRegion(region.ID); err != nil {
			log.Printf("dungeon: revert: %v", err)
		}
	}
	for _, exit := range exits {
		mouth, ok := mouths[exit]
		if !ok {
			revert()
			return -1, nil, fmt.Errorf("intersection at %v has no mouth toward %v", c, exit)
		}
		out, err := NewConnectionToward(Open, mouth, exit)
		if err != nil {
			revert()
			return -1, nil, fmt.Errorf("intersection exit toward %v: %w", exit, err)
		}
		if err := m.AddConnection(out); err != nil {
			revert()
			return -1, nil, err
		}
		m.attach(out, region)
		spawned = append(spawned, out.ID)
	}
	log.Printf("dungeon: built intersection %v with %d exits", region, len(spawned))
	return region.ID, spawned, nil
}
