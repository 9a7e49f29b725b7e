package dungeon

import (
	"sort"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// RankRegionCandidates orders candidate placements by desirability and
// prunes the also-rans:
//
//  1. more incomplete connections resolved is better;
//  2. more shared wall with the existing plan is better;
//  3. only candidates within the tuned epsilon of the least truncation
//     survive.
//
// Any ties left after that are aesthetically equivalent; the caller
// picks among them however it likes.
func (m *Map) RankRegionCandidates(candidates []*CandidateRegion) []*CandidateRegion {
	if len(candidates) == 0 {
		return nil
	}
	ranked := make([]*CandidateRegion, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Resolved() != ranked[j].Resolved() {
			return ranked[i].Resolved() > ranked[j].Resolved()
		}
		return ranked[i].SharedWalls > ranked[j].SharedWalls
	})

	minTruncated := ranked[0].Truncated
	for _, cr := range ranked[1:] {
		if cr.Truncated < minTruncated {
			minTruncated = cr.Truncated
		}
	}
	kept := ranked[:0]
	for _, cr := range ranked {
		if cr.Truncated <= minTruncated+m.tuning.TruncationEpsilon {
			kept = append(kept, cr)
		}
	}
	return kept
}

// RankConnectionOptions orders candidate baselines so the ones whose
// grid snap grows the plan the least come first. Ties fall back to
// coordinate order for determinism.
func (m *Map) RankConnectionOptions(options []geo.Line, d direction.Direction, width float64) []geo.Line {
	if len(options) == 0 {
		return nil
	}
	type scored struct {
		line geo.Line
		area float64
	}
	ranked := make([]scored, 0, len(options))
	for _, line := range options {
		grown := 0.0
		if !onGridLine(line, d) {
			if _, stub, err := geo.LoftToGrid(line, d, width); err == nil {
				grown, _ = polyMeasureOf(stub)
			}
		}
		ranked = append(ranked, scored{line: line, area: grown})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].area != ranked[j].area {
			return ranked[i].area < ranked[j].area
		}
		a, b := ranked[i].line.Start(), ranked[j].line.Start()
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	out := make([]geo.Line, len(ranked))
	for i, s := range ranked {
		out[i] = s.line
	}
	return out
}
