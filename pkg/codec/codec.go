// Package codec serializes a dungeon plan to and from tagged JSON
// records. Each entity carries a type tag and its geometry as ordered
// coordinate lists, so an external tool can read or produce plans
// without linking the model packages.
//
// Decoding rebuilds entities through their normal constructors, so a
// reconstructed map carries exactly the same invariants as one built
// live.
package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/glennmatthews/aagen/pkg/direction"
	"github.com/glennmatthews/aagen/pkg/dungeon"
	"github.com/glennmatthews/aagen/pkg/geo"
)

// Coord is a serialized point.
type Coord [2]float64

// RegionRecord is the wire form of a region.
type RegionRecord struct {
	Type    string  `json:"type"` // always "Region"
	ID      int     `json:"id"`
	Kind    string  `json:"kind"`
	Polygon []Coord `json:"polygon"`
}

// ConnectionRecord is the wire form of a connection. Regions lists the
// serialized IDs of the regions it joins.
type ConnectionRecord struct {
	Type      string  `json:"type"` // always "Connection"
	ID        int     `json:"id"`
	Kind      string  `json:"kind"`
	Line      []Coord `json:"line"`
	Direction string  `json:"direction"`
	Regions   []int   `json:"regions,omitempty"`
}

// DecorationRecord is the wire form of a decoration. Region is the
// serialized ID of the owning region.
type DecorationRecord struct {
	Type        string  `json:"type"` // always "Decoration"
	ID          int     `json:"id"`
	Kind        string  `json:"kind"`
	Polygon     []Coord `json:"polygon"`
	Orientation string  `json:"orientation"`
	Region      int     `json:"region"`
}

// Document is the serialized form of a complete plan.
type Document struct {
	Regions     []RegionRecord     `json:"regions"`
	Connections []ConnectionRecord `json:"connections"`
	Decorations []DecorationRecord `json:"decorations"`
}

func coords(pts []geo.Point) []Coord {
	out := make([]Coord, len(pts))
	for i, p := range pts {
		out[i] = Coord{p.X, p.Y}
	}
	return out
}

func points(cs []Coord) []geo.Point {
	out := make([]geo.Point, len(cs))
	for i, c := range cs {
		out[i] = geo.Point{X: c[0], Y: c[1]}
	}
	return out
}

// Snapshot captures the map as a Document.
func Snapshot(m *dungeon.Map) Document {
	var doc Document
	for _, r := range m.Regions() {
		doc.Regions = append(doc.Regions, RegionRecord{
			Type:    "Region",
			ID:      int(r.ID),
			Kind:    string(r.Kind),
			Polygon: coords(r.Polygon),
		})
	}
	for _, c := range m.Connections() {
		rec := ConnectionRecord{
			Type:      "Connection",
			ID:        int(c.ID),
			Kind:      string(c.Kind),
			Line:      coords(c.Line),
			Direction: c.GrowDirection.String(),
		}
		for _, rid := range c.Regions() {
			rec.Regions = append(rec.Regions, int(rid))
		}
		doc.Connections = append(doc.Connections, rec)
	}
	for _, r := range m.Regions() {
		for _, did := range r.Decorations() {
			d, ok := m.Decoration(did)
			if !ok {
				continue
			}
			doc.Decorations = append(doc.Decorations, DecorationRecord{
				Type:        "Decoration",
				ID:          int(d.ID),
				Kind:        string(d.Kind),
				Polygon:     coords(d.Polygon),
				Orientation: d.Orientation.String(),
				Region:      int(r.ID),
			})
		}
	}
	sort.Slice(doc.Decorations, func(i, j int) bool {
		return doc.Decorations[i].ID < doc.Decorations[j].ID
	})
	return doc
}

// Encode serializes the map to JSON.
func Encode(m *dungeon.Map) ([]byte, error) {
	return json.MarshalIndent(Snapshot(m), "", "  ")
}

// Restore rebuilds a map from a Document onto the given empty map.
// Entities are recreated in serialized-ID order through their normal
// constructors; serialized IDs are remapped to the IDs the map hands
// out, preserving all cross-references.
func Restore(m *dungeon.Map, doc Document) error {
	regions := make(map[int]dungeon.RegionID)

	recs := append([]RegionRecord(nil), doc.Regions...)
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	for _, rec := range recs {
		if rec.Type != "Region" {
			return fmt.Errorf("region record %d has type %q", rec.ID, rec.Type)
		}
		r, err := dungeon.NewRegion(dungeon.RegionKind(rec.Kind), geo.Polygon(points(rec.Polygon)))
		if err != nil {
			return fmt.Errorf("region %d: %w", rec.ID, err)
		}
		if err := m.AddRegion(r); err != nil {
			return fmt.Errorf("region %d: %w", rec.ID, err)
		}
		regions[rec.ID] = r.ID
	}

	crecs := append([]ConnectionRecord(nil), doc.Connections...)
	sort.Slice(crecs, func(i, j int) bool { return crecs[i].ID < crecs[j].ID })
	for _, rec := range crecs {
		if rec.Type != "Connection" {
			return fmt.Errorf("connection record %d has type %q", rec.ID, rec.Type)
		}
		grow, err := direction.Parse(rec.Direction)
		if err != nil {
			return fmt.Errorf("connection %d: %w", rec.ID, err)
		}
		c, err := dungeon.NewConnectionToward(dungeon.ConnectionKind(rec.Kind), geo.Line(points(rec.Line)), grow)
		if err != nil {
			return fmt.Errorf("connection %d: %w", rec.ID, err)
		}
		if err := m.AddConnection(c); err != nil {
			return fmt.Errorf("connection %d: %w", rec.ID, err)
		}
		for _, old := range rec.Regions {
			rid, ok := regions[old]
			if !ok {
				return fmt.Errorf("connection %d references unknown region %d", rec.ID, old)
			}
			if err := m.Attach(c.ID, rid); err != nil {
				return fmt.Errorf("connection %d: %w", rec.ID, err)
			}
		}
	}

	drecs := append([]DecorationRecord(nil), doc.Decorations...)
	sort.Slice(drecs, func(i, j int) bool { return drecs[i].ID < drecs[j].ID })
	for _, rec := range drecs {
		if rec.Type != "Decoration" {
			return fmt.Errorf("decoration record %d has type %q", rec.ID, rec.Type)
		}
		rid, ok := regions[rec.Region]
		if !ok {
			return fmt.Errorf("decoration %d references unknown region %d", rec.ID, rec.Region)
		}
		orientation, err := direction.Parse(rec.Orientation)
		if err != nil {
			return fmt.Errorf("decoration %d: %w", rec.ID, err)
		}
		d := &dungeon.Decoration{
			ID:          -1,
			Kind:        dungeon.DecorationKind(rec.Kind),
			Polygon:     geo.Polygon(points(rec.Polygon)),
			Orientation: orientation,
		}
		if err := m.AddDecoration(rid, d); err != nil {
			return fmt.Errorf("decoration %d: %w", rec.ID, err)
		}
	}
	return nil
}

// Decode deserializes a plan into a fresh map with default tuning.
func Decode(data []byte) (*dungeon.Map, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	m := dungeon.NewMap()
	if err := Restore(m, doc); err != nil {
		return nil, err
	}
	return m, nil
}
