package dungeon

import (
	"testing"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

func corridorMap(t *testing.T) (*Map, *Connection) {
	t.Helper()
	m := NewMap()
	r := mustRegion(t, Passage, geo.Box(0, 0, 10, 10))
	if err := m.AddRegion(r); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}
	c := mustConnection(t, Open, geo.Line{{X: 0, Y: 10}, {X: 10, Y: 10}}, direction.North)
	if err := m.AddConnection(c); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if err := m.Attach(c.ID, r.ID); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return m, c
}

func TestBuildIntersection(t *testing.T) {
	m, c := corridorMap(t)
	rid, spawned, err := m.BuildIntersection(c.ID, []direction.Direction{direction.North, direction.East}, 10)
	if err != nil {
		t.Fatalf("BuildIntersection: %v", err)
	}
	junction, ok := m.Region(rid)
	if !ok {
		t.Fatal("junction region missing from the map")
	}
	if junction.Kind != Passage {
		t.Errorf("junction kind = %v, want Passage", junction.Kind)
	}
	if !almostEqual(junction.Polygon.Area(), 100) {
		t.Errorf("junction area = %v, want the 100-foot cell", junction.Polygon.Area())
	}
	if !c.IsComplete() {
		t.Errorf("anchor connection not completed: regions %v", c.Regions())
	}
	if len(spawned) != 2 {
		t.Fatalf("spawned %d connections, want 2", len(spawned))
	}
	for i, dir := range []direction.Direction{direction.North, direction.East} {
		out, ok := m.Connection(spawned[i])
		if !ok {
			t.Fatalf("spawned connection %d missing", spawned[i])
		}
		if out.Kind != Open {
			t.Errorf("exit %v kind = %v, want Open", dir, out.Kind)
		}
		if out.GrowDirection != dir {
			t.Errorf("exit grow direction = %v, want %v", out.GrowDirection, dir)
		}
		if !out.IsIncomplete() {
			t.Errorf("exit %v should be incomplete, regions %v", dir, out.Regions())
		}
		if !out.HasRegion(rid) {
			t.Errorf("exit %v not attached to the junction", dir)
		}
	}
	if errs := Validate(m); len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("validation: %v", e)
		}
	}
}

func TestBuildIntersectionBlockedIsAtomic(t *testing.T) {
	m, c := corridorMap(t)
	// Occupy the space the junction would need.
	if err := m.AddRegion(mustRegion(t, Room, geo.Box(0, 10, 10, 20))); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}
	regions, conns := len(m.Regions()), len(m.Connections())

	if _, _, err := m.BuildIntersection(c.ID, []direction.Direction{direction.North}, 10); err == nil {
		t.Fatal("expected an error building into occupied space")
	}
	if len(m.Regions()) != regions || len(m.Connections()) != conns {
		t.Errorf("map changed by failed build: %d regions, %d connections", len(m.Regions()), len(m.Connections()))
	}
}

func TestBuildIntersectionRejectsBadExits(t *testing.T) {
	m, c := corridorMap(t)
	// South points back through the anchor; no junction can exit there.
	if _, _, err := m.BuildIntersection(c.ID, []direction.Direction{direction.South}, 10); err == nil {
		t.Error("expected an error for a backward exit")
	}
	if _, _, err := m.BuildIntersection(ConnectionID(99), []direction.Direction{direction.North}, 10); err == nil {
		t.Error("expected an error for a missing connection")
	}
}
