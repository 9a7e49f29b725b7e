package dungeon

import (
	"testing"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// boxedInMap builds a plan where the space north of the anchor
// connection is walled in on the west and east: a bottom room spanning
// the full width with flanking towers, leaving only the 10-foot notch
// between x=10 and x=20 open.
func boxedInMap(t *testing.T) (*Map, *Connection) {
	t.Helper()
	m := NewMap()
	bottom := mustRegion(t, Room, geo.Box(0, 0, 30, 10))
	for _, r := range []*Region{
		bottom,
		mustRegion(t, Room, geo.Box(0, 10, 10, 30)),
		mustRegion(t, Room, geo.Box(20, 10, 30, 30)),
	} {
		if err := m.AddRegion(r); err != nil {
			t.Fatalf("AddRegion: %v", err)
		}
	}
	c := mustConnection(t, Open, geo.Line{{X: 10, Y: 10}, {X: 20, Y: 10}}, direction.North)
	if err := m.AddConnection(c); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if err := m.Attach(c.ID, bottom.ID); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return m, c
}

func TestFindOptionsForRegionBoxedIn(t *testing.T) {
	m, c := boxedInMap(t)
	shapes := []geo.Polygon{
		geo.Box(0, 0, 10, 10),
		geo.Box(0, 0, 10, 20),
	}
	candidates := m.FindOptionsForRegion(shapes, c)
	if len(candidates) == 0 {
		t.Fatal("no candidates found for the open notch")
	}
	exactFits := 0
	for _, cr := range candidates {
		// No candidate may cross into already-placed space.
		if overlap := areaOverlap(cr.Polygon, m.Conglomerate()); overlap > geo.Tolerance {
			t.Errorf("candidate %v overlaps the plan by %v", cr, overlap)
		}
		b := cr.Polygon.Bounds()
		if b.MinX < 10-geo.Tolerance || b.MaxX > 20+geo.Tolerance {
			t.Errorf("candidate %v escapes the notch", cr)
		}
		if almostEqual(cr.Truncated, 0) {
			exactFits++
		}
		if cr.Resolved() < 1 {
			t.Errorf("candidate %v does not resolve the anchor connection", cr)
		}
	}
	if exactFits == 0 {
		t.Error("no candidate fit exactly with zero truncation")
	}
}

func TestFindOptionsForRegionRanking(t *testing.T) {
	m, c := boxedInMap(t)
	candidates := m.FindOptionsForRegion([]geo.Polygon{
		geo.Box(0, 0, 10, 10),
		geo.Box(0, 0, 10, 20),
	}, c)
	ranked := m.RankRegionCandidates(candidates)
	if len(ranked) == 0 {
		t.Fatal("ranking discarded every candidate")
	}
	// The 10x20 rectangle fills the notch completely, sharing walls on
	// three sides; it must rank ahead of the half-height square.
	if !almostEqual(ranked[0].Polygon.Area(), 200) {
		t.Errorf("best candidate area = %v, want the full 200-foot notch", ranked[0].Polygon.Area())
	}
	min := ranked[0].Truncated
	for _, cr := range ranked {
		if cr.Truncated < min {
			min = cr.Truncated
		}
	}
	for _, cr := range ranked {
		if cr.Truncated > min+m.tuning.TruncationEpsilon {
			t.Errorf("ranking kept %v despite truncation %v (min %v)", cr, cr.Truncated, min)
		}
	}
}

func TestTryRegionAsCandidate(t *testing.T) {
	m, c := boxedInMap(t)
	cr := m.TryRegionAsCandidate(geo.Box(10, 10, 20, 20), c)
	if cr == nil {
		t.Fatal("pre-positioned exact fit was rejected")
	}
	if !almostEqual(cr.Truncated, 0) {
		t.Errorf("Truncated = %v, want 0", cr.Truncated)
	}
	if cr.SharedWalls < 30-1e-6 {
		t.Errorf("SharedWalls = %v, want at least 30 (three shared sides)", cr.SharedWalls)
	}

	// A shape wholly inside the plan trims to nothing.
	if cr := m.TryRegionAsCandidate(geo.Box(0, 0, 10, 10), c); cr != nil {
		t.Errorf("fully subsumed shape produced candidate %v", cr)
	}
}

func TestFindOptionsForConnectionLShape(t *testing.T) {
	m := NewMap()
	l := mustRegion(t, Passage, geo.Polygon{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 20},
	})
	if err := m.AddRegion(l); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}
	options, err := m.FindOptionsForConnection(10, l.ID, direction.East, true)
	if err != nil {
		t.Fatalf("FindOptionsForConnection: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("got %d options %v, want the two east walls", len(options), options)
	}
	for _, line := range options {
		if !almostEqual(line.Length(), 10) {
			t.Errorf("option %v has length %v, want 10", line, line.Length())
		}
		if line.Start().X != line.End().X {
			t.Errorf("option %v is not a vertical east wall", line)
		}
	}
}

func TestFindOptionsForConnectionNewOnly(t *testing.T) {
	m := NewMap()
	l := mustRegion(t, Passage, geo.Polygon{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 20},
	})
	if err := m.AddRegion(l); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}
	// A neighbor already sits beyond the lower east wall.
	if err := m.AddRegion(mustRegion(t, Room, geo.Box(20, 0, 30, 10))); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}

	options, err := m.FindOptionsForConnection(10, l.ID, direction.East, true)
	if err != nil {
		t.Fatalf("FindOptionsForConnection: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("got %d options %v, want only the upper east wall", len(options), options)
	}
	if options[0].Start().X != 10 {
		t.Errorf("surviving option %v is not on the upper east wall", options[0])
	}

	// Without newOnly the shared wall is offered again.
	options, err = m.FindOptionsForConnection(10, l.ID, direction.East, false)
	if err != nil {
		t.Fatalf("FindOptionsForConnection: %v", err)
	}
	if len(options) != 2 {
		t.Errorf("got %d options %v, want both east walls", len(options), options)
	}
}

func TestFindOptionsForConnectionSkipsExisting(t *testing.T) {
	m := NewMap()
	room := mustRegion(t, Room, geo.Box(0, 0, 10, 10))
	if err := m.AddRegion(room); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}
	c := mustConnection(t, Door, geo.Line{{X: 10, Y: 0}, {X: 10, Y: 10}}, direction.East)
	if err := m.AddConnection(c); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if err := m.Attach(c.ID, room.ID); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	options, err := m.FindOptionsForConnection(10, room.ID, direction.East, true)
	if err != nil {
		t.Fatalf("FindOptionsForConnection: %v", err)
	}
	for _, line := range options {
		if line.Start().X == 10 && line.End().X == 10 {
			t.Errorf("option %v re-offers the wall already claimed by the door", line)
		}
	}
}

func TestRankConnectionOptions(t *testing.T) {
	m := NewMap()
	onGrid := geo.Line{{X: 20, Y: 0}, {X: 20, Y: 10}}
	offGrid := geo.Line{{X: 18, Y: 0}, {X: 18, Y: 10}}
	ranked := m.RankConnectionOptions([]geo.Line{offGrid, onGrid}, direction.East, 10)
	if len(ranked) != 2 {
		t.Fatalf("got %d options, want 2", len(ranked))
	}
	if ranked[0].Start().X != 20 {
		t.Errorf("grid-native baseline should rank first, got %v", ranked[0])
	}
}

func TestAdjacencyOptionsRejectsDiagonal(t *testing.T) {
	_, err := adjacencyOptions(geo.Bounds{MaxX: 10, MaxY: 10}, geo.Bounds{MaxX: 10, MaxY: 10}, direction.Northeast)
	if err == nil {
		t.Error("expected an error for a diagonal adjacency direction")
	}
}
