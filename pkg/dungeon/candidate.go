package dungeon

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/glennmatthews/aagen/pkg/geo"
)

// CandidateRegion is a scored potential placement for a new region.
// Candidates are transient: they are produced by the search functions,
// ranked, and at most one of them is committed.
type CandidateRegion struct {
	// OffsetX, OffsetY is the translation applied to the requested
	// shape to reach this placement.
	OffsetX, OffsetY float64

	// Polygon is the placed shape after trimming against the plan.
	Polygon geo.Polygon

	// Connections holds the incomplete connections this placement
	// would resolve.
	Connections mapset.Set[ConnectionID]

	// Truncated is how much of the requested area the trim removed.
	Truncated float64

	// SharedWalls is the wall length the placement shares with the
	// existing plan.
	SharedWalls float64
}

func (cr *CandidateRegion) String() string {
	b := cr.Polygon.Bounds()
	return fmt.Sprintf("<CandidateRegion: offset (%.0f, %.0f), poly (%.0f, %.0f)-(%.0f, %.0f), %d conns, trunc %.0f, shared %.0f>",
		cr.OffsetX, cr.OffsetY, b.MinX, b.MinY, b.MaxX, b.MaxY,
		cr.Connections.Size(), cr.Truncated, cr.SharedWalls)
}

// Resolved is how many incomplete connections the placement would
// complete.
func (cr *CandidateRegion) Resolved() int {
	return cr.Connections.Size()
}

// ConnectionIDs returns the resolved connection IDs in ascending
// order.
func (cr *CandidateRegion) ConnectionIDs() []ConnectionID {
	out := make([]ConnectionID, 0, cr.Connections.Size())
	cr.Connections.Each(func(id ConnectionID) {
		out = append(out, id)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
