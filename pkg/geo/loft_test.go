package geo

import (
	"math"
	"testing"

	"github.com/glennmatthews/aagen/pkg/direction"
)

func TestLoftParallelLines(t *testing.T) {
	got, err := Loft(Line{{0, 0}, {10, 0}}, Line{{0, 10}, {10, 10}})
	if err != nil {
		t.Fatalf("loft failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("loft should return a polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 100) {
		t.Errorf("area = %f, want 100", ring.Area())
	}
}

func TestLoftSameLineIsDegenerate(t *testing.T) {
	l := Line{{0, 0}, {10, 0}}
	got, err := Loft(l, l)
	if err != nil {
		t.Fatalf("lofting a line onto itself should not fail: %v", err)
	}
	area, _ := polyMeasure(got)
	if !almostEqual(area, 0) {
		t.Errorf("degenerate loft has area %f, want 0", area)
	}
}

func TestLoftSharedEndpoint(t *testing.T) {
	got, err := Loft(Line{{0, 0}, {10, 0}}, Line{{10, 0}, {10, 10}})
	if err != nil {
		t.Fatalf("loft failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("loft should return a polygon, got %T", got)
	}
	if !almostEqual(ring.Area(), 50) {
		t.Errorf("area = %f, want 50", ring.Area())
	}
}

func TestLoftSkewedLines(t *testing.T) {
	// The naive head-to-head pairing self-intersects; loft must find
	// the reversed pairing instead.
	got, err := Loft(Line{{0, 0}, {10, 0}}, Line{{10, 10}, {0, 10}})
	if err != nil {
		t.Fatalf("loft failed: %v", err)
	}
	ring, ok := got.(Polygon)
	if !ok {
		t.Fatalf("loft should return a polygon, got %T", got)
	}
	if !ring.IsValid() {
		t.Fatal("lofted ring is self-intersecting")
	}
	if !almostEqual(ring.Area(), 100) {
		t.Errorf("area = %f, want 100", ring.Area())
	}
}

func TestLoftCrossingLinesFails(t *testing.T) {
	_, err := Loft(Line{{0, 0}, {10, 10}}, Line{{0, 10}, {10, 0}})
	if err == nil {
		t.Fatal("lofting crossing lines should fail")
	}
}

func TestSweepLine(t *testing.T) {
	poly, moved, err := SweepLine(Line{{0, 0}, {10, 0}}, direction.North, 30)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	area, _ := polyMeasure(poly)
	if !almostEqual(area, 300) {
		t.Errorf("swept area = %f, want 300", area)
	}
	if !samePoint(moved.Start(), Point{0, 30}) || !samePoint(moved.End(), Point{10, 30}) {
		t.Errorf("moved line = %v", moved)
	}
}

func onGrid(v, step float64) bool {
	m := math.Abs(math.Mod(v, step))
	return m < 1e-6 || m > step-1e-6
}

func TestSweepLineDiagonalStaysOnGrid(t *testing.T) {
	_, moved, err := SweepLine(Line{{0, 0}, {10, 0}}, direction.Northeast, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	for _, p := range moved {
		if !onGrid(p.X, 5) || !onGrid(p.Y, 5) {
			t.Errorf("diagonal sweep endpoint %v is off the 5-unit grid", p)
		}
	}
}

func TestLoftToGridSnapsOutward(t *testing.T) {
	// A line just shy of the grid snaps to whichever grid line lofts
	// the smaller polygon.
	aligned, poly, err := LoftToGrid(Line{{0, 18}, {10, 18}}, direction.North, 10)
	if err != nil {
		t.Fatalf("loft to grid failed: %v", err)
	}
	if !almostEqual(aligned.Start().Y, 20) || !almostEqual(aligned.End().Y, 20) {
		t.Errorf("aligned line %v, want y=20", aligned)
	}
	area, _ := polyMeasure(poly)
	if !almostEqual(area, 20) {
		t.Errorf("stub area = %f, want 20", area)
	}
}

func TestLoftToGridAlreadyAligned(t *testing.T) {
	aligned, poly, err := LoftToGrid(Line{{10, 0}, {10, 10}}, direction.East, 10)
	if err != nil {
		t.Fatalf("loft to grid failed: %v", err)
	}
	if !almostEqual(aligned.Start().X, 10) || !almostEqual(aligned.End().X, 10) {
		t.Errorf("aligned line %v, want x=10", aligned)
	}
	area, _ := polyMeasure(poly)
	if !almostEqual(area, 0) {
		t.Errorf("aligned input should loft a degenerate stub, got area %f", area)
	}
}

func TestLoftToGridGridContract(t *testing.T) {
	for _, d := range direction.Cardinal() {
		aligned, _, err := LoftToGrid(Line{{3, 7}, {3, 16}}, d, 10)
		if err != nil {
			t.Fatalf("loft to grid %v failed: %v", d, err)
		}
		for _, p := range aligned {
			if !onGrid(p.X, 10) || !onGrid(p.Y, 10) {
				t.Errorf("%v: endpoint %v off the 10-unit grid", d, p)
			}
		}
	}
}
