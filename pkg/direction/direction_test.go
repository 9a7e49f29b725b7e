package direction

import (
	"math"
	"testing"
)

func TestVectorsAreManhattan(t *testing.T) {
	tests := []struct {
		d      Direction
		dx, dy float64
	}{
		{North, 0, 1},
		{South, 0, -1},
		{East, 1, 0},
		{West, -1, 0},
		{Northeast, 0.5, 0.5},
		{Northwest, -0.5, 0.5},
		{Southeast, 0.5, -0.5},
		{Southwest, -0.5, -0.5},
	}
	for _, tt := range tests {
		dx, dy := tt.d.Vector()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%v vector = (%v, %v), want (%v, %v)", tt.d, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestParseRoundTrips(t *testing.T) {
	for _, d := range All() {
		got, err := Parse(d.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", d.String(), err)
		}
		if got != d {
			t.Errorf("Parse(%q) = %v, want %v", d.String(), got, d)
		}
	}
	if _, err := Parse("upward"); err == nil {
		t.Error("Parse of nonsense should fail")
	}
}

func TestFromDegreesSnapsToGrid(t *testing.T) {
	tests := []struct {
		deg  float64
		want Direction
	}{
		{0, East},
		{90, North},
		{-90, South},
		{180, West},
		{270, South},
		{47, Northeast},
		{100, North},
		{-130, Southwest},
	}
	for _, tt := range tests {
		if got := FromDegrees(tt.deg); got != tt.want {
			t.Errorf("FromDegrees(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestRotate(t *testing.T) {
	if got := North.Rotate(45); got != Northwest {
		t.Errorf("North + 45 = %v, want Northwest", got)
	}
	if got := North.Rotate(-45); got != Northeast {
		t.Errorf("North - 45 = %v, want Northeast", got)
	}
	if got := West.Rotate(90); got != South {
		t.Errorf("West + 90 = %v, want South", got)
	}
	for _, d := range All() {
		if d.Opposite().Opposite() != d {
			t.Errorf("double opposite of %v is %v", d, d.Opposite().Opposite())
		}
	}
}

func TestFromBaseline(t *testing.T) {
	tests := []struct {
		x0, y0, x1, y1 float64
		want           Direction
	}{
		{10, 0, 0, 0, North},
		{0, 0, 10, 0, South},
		{10, 0, 10, 10, East},
		{10, 10, 10, 0, West},
		{10, 0, 15, 5, Southeast},
		{15, 5, 10, 10, Northeast},
	}
	for _, tt := range tests {
		got, err := FromBaseline(tt.x0, tt.y0, tt.x1, tt.y1)
		if err != nil {
			t.Fatalf("FromBaseline failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("FromBaseline(%v,%v -> %v,%v) = %v, want %v",
				tt.x0, tt.y0, tt.x1, tt.y1, got, tt.want)
		}
	}
}

func TestAngles(t *testing.T) {
	if got := Northwest.AngleTo(North); got != 45 {
		t.Errorf("Northwest from North = %v, want 45", got)
	}
	if got := Northeast.AngleTo(North); got != -45 {
		t.Errorf("Northeast from North = %v, want -45", got)
	}
	if got := South.AngleFrom(North); got != 180 {
		t.Errorf("South to North magnitude = %v, want 180", got)
	}
	if got := West.AngleFrom(Southeast); got != 135 {
		t.Errorf("West to Southeast magnitude = %v, want 135", got)
	}
}

func TestGridStep(t *testing.T) {
	for _, d := range All() {
		want := 10.0
		if d.IsDiagonal() {
			want = 5
		}
		if d.GridStep() != want {
			t.Errorf("%v grid step = %v, want %v", d, d.GridStep(), want)
		}
	}
}

func TestDegreesMatchVectors(t *testing.T) {
	for _, d := range All() {
		dx, dy := d.Vector()
		deg := math.Atan2(dy, dx) * 180 / math.Pi
		if FromDegrees(deg) != d {
			t.Errorf("%v: vector angle %v does not map back", d, deg)
		}
	}
}
