package geo

import (
	"errors"
	"testing"
)

func TestUnionAdjacentCells(t *testing.T) {
	got, err := Union(Box(0, 0, 10, 10), Box(10, 0, 20, 10))
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("union of adjacent cells should be a single polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 200) {
		t.Errorf("area = %f, want 200", ring.Area())
	}
}

func TestUnionDisjointCells(t *testing.T) {
	got, err := Union(Box(0, 0, 10, 10), Box(30, 0, 40, 10))
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	mp, ok := got.(MultiPolygon)
	if !ok {
		t.Fatalf("union of disjoint cells should be a multipolygon, got %T", got)
	}
	if len(mp) != 2 {
		t.Errorf("got %d rings, want 2", len(mp))
	}
	if !almostEqual(mp.Area(), 200) {
		t.Errorf("area = %f, want 200", mp.Area())
	}
}

func TestUnionOfEmptyIsEmpty(t *testing.T) {
	got, err := Union(Empty{}, Empty{})
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	if _, ok := got.(Empty); !ok {
		t.Errorf("union of empties = %T, want Empty", got)
	}
}

func TestIntersectPolygons(t *testing.T) {
	got, err := Intersect(Box(0, 0, 20, 20), Box(10, 10, 30, 30))
	if err != nil {
		t.Fatalf("intersect failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("intersection should be a polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 100) {
		t.Errorf("area = %f, want 100", ring.Area())
	}
}

func TestIntersectLineWithPolygon(t *testing.T) {
	line := Line{{-5, 5}, {25, 5}}
	got, err := Intersect(line, Box(0, 0, 20, 10))
	if err != nil {
		t.Fatalf("intersect failed: %v", err)
	}
	clipped, ok := got.(Line)
	if !ok {
		t.Fatalf("clipped line should be a Line, got %T", got)
	}
	if !almostEqual(clipped.Length(), 20) {
		t.Errorf("clipped length = %f, want 20", clipped.Length())
	}
}

func TestIntersectMergesFragments(t *testing.T) {
	// The boundary of the left cell lies partly on the right cell's
	// boundary; clipping the shared wall against both cells must come
	// back as one line, not a stack of fragments.
	wall := Line{{10, -5}, {10, 15}}
	got, err := Intersect(wall, Box(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("intersect failed: %v", err)
	}
	clipped, ok := got.(Line)
	if !ok {
		t.Fatalf("want a single merged Line, got %T", got)
	}
	if !almostEqual(clipped.Length(), 10) {
		t.Errorf("length = %f, want 10", clipped.Length())
	}
}

func TestIntersectLines(t *testing.T) {
	got, err := Intersect(Line{{0, 0}, {10, 10}}, Line{{0, 10}, {10, 0}})
	if err != nil {
		t.Fatalf("intersect failed: %v", err)
	}
	pt, ok := got.(Point)
	if !ok {
		t.Fatalf("crossing lines should intersect in a Point, got %T", got)
	}
	if !samePoint(pt, Point{5, 5}) {
		t.Errorf("crossing at %v, want (5, 5)", pt)
	}

	got, err = Intersect(Line{{0, 0}, {10, 0}}, Line{{5, 0}, {20, 0}})
	if err != nil {
		t.Fatalf("intersect failed: %v", err)
	}
	seg, ok := got.(Line)
	if !ok {
		t.Fatalf("collinear overlap should be a Line, got %T", got)
	}
	if !almostEqual(seg.Length(), 5) {
		t.Errorf("overlap length = %f, want 5", seg.Length())
	}
}

func TestDiffer(t *testing.T) {
	got, err := Differ(Box(0, 0, 20, 10), Box(10, 0, 20, 10))
	if err != nil {
		t.Fatalf("differ failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("difference should be a polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 100) {
		t.Errorf("area = %f, want 100", ring.Area())
	}
	b := ring.Bounds()
	if b.MinX != 0 || b.MaxX != 10 {
		t.Errorf("difference bounds %+v, want the left cell", b)
	}
}

func TestDifferToEmpty(t *testing.T) {
	got, err := Differ(Box(0, 0, 10, 10), Box(-10, -10, 20, 20))
	if err != nil {
		t.Fatalf("differ failed: %v", err)
	}
	if _, ok := got.(Empty); !ok {
		t.Errorf("fully covered difference = %T, want Empty", got)
	}
}

func TestTrimKeepsAnchoredPiece(t *testing.T) {
	// A 20x20 square with its left half covered, anchored on the
	// right half, trims to exactly the right 10x20 rectangle.
	shape := Box(0, 0, 20, 20)
	obstacle := Box(0, 0, 10, 20)
	anchor := Box(15, 5, 18, 15)
	got, err := Trim(shape, obstacle, anchor)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("trim should return a polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 200) {
		t.Errorf("area = %f, want 200", ring.Area())
	}
	b := ring.Bounds()
	if b.MinX != 10 || b.MaxX != 20 || b.MinY != 0 || b.MaxY != 20 {
		t.Errorf("trim bounds %+v, want the right half", b)
	}
}

func TestTrimDiscardsUnanchoredPieces(t *testing.T) {
	// The obstacle splits the shape in two; only the piece touching
	// the anchor survives.
	shape := Box(0, 0, 30, 10)
	obstacle := Box(10, -5, 20, 15)
	anchor := Box(0, 0, 5, 5)
	got, err := Trim(shape, obstacle, anchor)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("trim should return a polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 100) {
		t.Errorf("area = %f, want 100", ring.Area())
	}
	if b := ring.Bounds(); b.MaxX > 10+Tolerance {
		t.Errorf("kept the wrong piece: bounds %+v", b)
	}
}

func TestTrimFullySubsumed(t *testing.T) {
	got, err := Trim(Box(0, 0, 10, 10), Box(-10, -10, 20, 20), Box(0, 0, 5, 5))
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if _, ok := got.(Empty); !ok {
		t.Errorf("fully subsumed trim = %T, want Empty", got)
	}
}

func TestTrimNeverGrows(t *testing.T) {
	shape := Box(0, 0, 20, 20)
	obstacles := []Polygon{
		Box(0, 0, 10, 20),
		Box(-5, -5, 5, 5),
		Box(100, 100, 110, 110),
	}
	anchor := Box(15, 15, 20, 20)
	for _, obstacle := range obstacles {
		got, err := Trim(shape, obstacle, anchor)
		if err != nil {
			t.Fatalf("trim failed: %v", err)
		}
		area, _ := polyMeasure(got)
		if area > shape.Area()+Tolerance {
			t.Errorf("trim against %v grew the shape: %f > %f", obstacle.Bounds(), area, shape.Area())
		}
	}
}

func TestUnionRejectsLines(t *testing.T) {
	_, err := Union(Box(0, 0, 10, 10), Line{{0, 0}, {10, 10}})
	if err == nil {
		t.Fatal("union with a line should fail")
	}
	if errors.Is(err, ErrInvalidGeometry) {
		t.Error("type mismatch should not be reported as invalid geometry")
	}
}
