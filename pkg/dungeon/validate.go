package dungeon

import (
	"fmt"
	"math"

	"github.com/glennmatthews/aagen/pkg/geo"
)

// ValidationSeverity indicates whether a validation finding is a
// broken invariant or merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // broken invariant
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // which entity has the problem (empty if map-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// Validate checks every map invariant: region polygons must not
// overlap, committed baselines must sit on the grid, the conglomerate
// polygon must equal the union of all regions, and all
// cross-references must resolve both ways. An empty slice means the
// map is consistent. Validate is read-only.
func Validate(m *Map) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOverlap(m)...)
	errs = append(errs, validateGrid(m)...)
	errs = append(errs, validateConglomerate(m)...)
	errs = append(errs, validateReferences(m)...)
	errs = append(errs, validateDecorations(m)...)
	return errs
}

// validateOverlap checks that no two committed regions share positive
// area. Touching at a point or along an edge is legal.
func validateOverlap(m *Map) []ValidationError {
	var errs []ValidationError
	regions := m.Regions()
	for i, a := range regions {
		for _, b := range regions[i+1:] {
			if !a.Polygon.Bounds().Intersects(b.Polygon.Bounds()) {
				continue
			}
			if overlap := areaOverlap(a.Polygon, b.Polygon); overlap > geo.Tolerance {
				errs = append(errs, ValidationError{
					Subject:  fmt.Sprintf("region %d", a.ID),
					Message:  fmt.Sprintf("overlaps region %d by %.1f square feet", b.ID, overlap),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateGrid checks that every connection baseline lands on the
// coordinate grid for its direction.
func validateGrid(m *Map) []ValidationError {
	var errs []ValidationError
	for _, c := range m.Connections() {
		if !onGridLine(c.Line, c.BaseDirection) {
			errs = append(errs, ValidationError{
				Subject: fmt.Sprintf("connection %d", c.ID),
				Message: fmt.Sprintf("baseline %v-%v is off the %g-foot grid",
					c.Line.Start(), c.Line.End(), c.BaseDirection.GridStep()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateConglomerate recomputes the union of all region polygons and
// checks it matches the stored conglomerate.
func validateConglomerate(m *Map) []ValidationError {
	polys := make([]geo.Geometry, 0, len(m.regions))
	for _, r := range m.Regions() {
		polys = append(polys, r.Polygon)
	}
	if len(polys) == 0 {
		if _, ok := m.conglomerate.(geo.Empty); !ok {
			return []ValidationError{{
				Message:  "conglomerate polygon is nonempty on an empty map",
				Severity: SeverityError,
			}}
		}
		return nil
	}
	merged, err := geo.Union(polys...)
	if err != nil {
		return []ValidationError{{
			Message:  fmt.Sprintf("conglomerate polygon cannot be recomputed: %v", err),
			Severity: SeverityError,
		}}
	}
	wantArea, wantPerim := polyMeasureOf(merged)
	gotArea, gotPerim := polyMeasureOf(m.conglomerate)
	wantB, gotB := merged.Bounds(), m.conglomerate.Bounds()
	if math.Abs(wantArea-gotArea) > geo.Tolerance ||
		math.Abs(wantPerim-gotPerim) > geo.Tolerance ||
		math.Abs(wantB.MinX-gotB.MinX) > geo.Tolerance ||
		math.Abs(wantB.MinY-gotB.MinY) > geo.Tolerance ||
		math.Abs(wantB.MaxX-gotB.MaxX) > geo.Tolerance ||
		math.Abs(wantB.MaxY-gotB.MaxY) > geo.Tolerance {
		return []ValidationError{{
			Message: fmt.Sprintf("conglomerate polygon is stale: stored %.1f sq ft / %.1f ft, recomputed %.1f sq ft / %.1f ft",
				gotArea, gotPerim, wantArea, wantPerim),
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateReferences checks that region/connection cross-references
// resolve and are mutual, and flags connections left with no region.
func validateReferences(m *Map) []ValidationError {
	var errs []ValidationError
	for _, r := range m.Regions() {
		for _, cid := range r.Connections() {
			c, ok := m.connections[cid]
			if !ok {
				errs = append(errs, ValidationError{
					Subject:  fmt.Sprintf("region %d", r.ID),
					Message:  fmt.Sprintf("references missing connection %d", cid),
					Severity: SeverityError,
				})
				continue
			}
			if !c.HasRegion(r.ID) {
				errs = append(errs, ValidationError{
					Subject:  fmt.Sprintf("region %d", r.ID),
					Message:  fmt.Sprintf("references connection %d which does not reference it back", cid),
					Severity: SeverityError,
				})
			}
		}
		for _, did := range r.Decorations() {
			if _, ok := m.decorations[did]; !ok {
				errs = append(errs, ValidationError{
					Subject:  fmt.Sprintf("region %d", r.ID),
					Message:  fmt.Sprintf("references missing decoration %d", did),
					Severity: SeverityError,
				})
			}
		}
	}
	for _, c := range m.Connections() {
		for _, rid := range c.Regions() {
			r, ok := m.regions[rid]
			if !ok {
				errs = append(errs, ValidationError{
					Subject:  fmt.Sprintf("connection %d", c.ID),
					Message:  fmt.Sprintf("references missing region %d", rid),
					Severity: SeverityError,
				})
				continue
			}
			if !r.HasConnection(c.ID) {
				errs = append(errs, ValidationError{
					Subject:  fmt.Sprintf("connection %d", c.ID),
					Message:  fmt.Sprintf("references region %d which does not reference it back", rid),
					Severity: SeverityError,
				})
			}
		}
		if len(c.Regions()) == 0 {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("connection %d", c.ID),
				Message:  "is attached to no region",
				Severity: SeverityWarning,
			})
		}
		if len(c.Regions()) > 2 {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("connection %d", c.ID),
				Message:  fmt.Sprintf("is attached to %d regions", len(c.Regions())),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDecorations warns about decorations that poke outside the
// plan; a staircase drawn in the void is probably a bug upstream.
func validateDecorations(m *Map) []ValidationError {
	var errs []ValidationError
	for _, d := range m.Decorations() {
		inside := areaOverlap(d.Polygon, m.conglomerate)
		if d.Polygon.Area()-inside > geo.Tolerance {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("decoration %d", d.ID),
				Message:  "extends outside the mapped area",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
