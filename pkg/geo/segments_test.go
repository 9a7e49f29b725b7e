package geo

import (
	"testing"

	"github.com/glennmatthews/aagen/pkg/direction"
)

// lShape is a 20x20 square with its northeast quadrant removed, so it
// has two east-facing walls at different depths.
func lShape() Polygon {
	return Polygon{
		{0, 0}, {20, 0}, {20, 10}, {10, 10}, {10, 20}, {0, 20},
	}
}

func hasSegment(segs []Line, a, b Point) bool {
	for _, s := range segs {
		if (samePoint(s.Start(), a) && samePoint(s.End(), b)) ||
			(samePoint(s.Start(), b) && samePoint(s.End(), a)) {
			return true
		}
	}
	return false
}

func TestFindEdgeSegmentsLShape(t *testing.T) {
	segs, err := FindEdgeSegments(lShape(), 10, direction.East)
	if err != nil {
		t.Fatalf("edge segment search failed: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %v", len(segs), segs)
	}
	if !hasSegment(segs, Point{20, 0}, Point{20, 10}) {
		t.Errorf("missing the outer east wall: %v", segs)
	}
	if !hasSegment(segs, Point{10, 10}, Point{10, 20}) {
		t.Errorf("missing the inner east wall: %v", segs)
	}
}

func TestFindEdgeSegmentsNorth(t *testing.T) {
	segs, err := FindEdgeSegments(lShape(), 10, direction.North)
	if err != nil {
		t.Fatalf("edge segment search failed: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %v", len(segs), segs)
	}
	if !hasSegment(segs, Point{0, 20}, Point{10, 20}) {
		t.Errorf("missing the upper north wall: %v", segs)
	}
	if !hasSegment(segs, Point{10, 10}, Point{20, 10}) {
		t.Errorf("missing the lower north wall: %v", segs)
	}
}

func TestFindEdgeSegmentsSquare(t *testing.T) {
	// Every cardinal search on a cell finds exactly its facing wall.
	cell := Box(0, 0, 10, 10)
	for _, d := range direction.Cardinal() {
		segs, err := FindEdgeSegments(cell, 10, d)
		if err != nil {
			t.Fatalf("%v: %v", d, err)
		}
		if len(segs) != 1 {
			t.Errorf("%v: got %d segments, want 1", d, len(segs))
		}
	}
}

func TestFindEdgeSegmentsWidthMismatch(t *testing.T) {
	// A 10-unit-tall region has no 20-unit east wall.
	segs, err := FindEdgeSegments(Box(0, 0, 30, 10), 20, direction.East)
	if err != nil {
		t.Fatalf("edge segment search failed: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("got %v, want none", segs)
	}
}

func TestFindEdgeSegmentsDiagonal(t *testing.T) {
	// The diamond's northeast wall spans two probe positions, so the
	// sweep reports it as two width-sized pieces.
	diamond := Polygon{{10, 0}, {20, 10}, {10, 20}, {0, 10}}
	segs, err := FindEdgeSegments(diamond, 10, direction.Northeast)
	if err != nil {
		t.Fatalf("edge segment search failed: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %v", len(segs), segs)
	}
	if !hasSegment(segs, Point{20, 10}, Point{15, 15}) ||
		!hasSegment(segs, Point{15, 15}, Point{10, 20}) {
		t.Errorf("wrong northeast wall pieces: %v", segs)
	}
}
