// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package hexes names axial hex coordinates for the board.
//
// A coordinate is the pair (q, z), stored as hexg's (q, r). The third cube
// coordinate is derived as s = -q - z and is never stored. The geometry
// itself (distance, neighbors, rings and lines) comes from hexg.
package hexes

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/maloquacious/hexg"
)

// Coord is an axial hex coordinate.
type Coord struct {
	Q int `json:"q"`
	Z int `json:"z"`
}

// FromHex converts a hexg hex to a board coordinate.
func FromHex(h hexg.Hex) Coord {
	return Coord{Q: h.Q(), Z: h.R()}
}

// Hex returns c as a hexg hex.
func (c Coord) Hex() hexg.Hex {
	return hexg.NewHex(c.Q, c.Z)
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return c.Hex().S()
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.Z)
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(d Coord) Coord {
	return FromHex(c.Hex().Add(d.Hex()))
}

// Neighbor returns the coordinate adjacent to c in direction d.
func (c Coord) Neighbor(d Direction) Coord {
	return FromHex(c.Hex().Neighbor(int(d.normalize())))
}

// Distance returns the number of steps between two coordinates.
func Distance(a, b Coord) int {
	return a.Hex().Distance(b.Hex())
}

// IsAdjacent reports whether a and b share an edge.
func IsAdjacent(a, b Coord) bool {
	return Distance(a, b) == 1
}

// DirectionTo returns the direction from a to an adjacent b.
// The boolean is false when the coordinates are not adjacent.
func DirectionTo(a, b Coord) (Direction, bool) {
	ha, hb := a.Hex(), b.Hex()
	for _, d := range Directions {
		if ha.Neighbor(int(d)) == hb {
			return d, true
		}
	}
	return 0, false
}

// WithinRange returns every coordinate at distance <= n from center,
// ordered by q then z. A negative range returns nil.
func WithinRange(center Coord, n int) []Coord {
	if n < 0 {
		return nil
	}
	spiral := center.Hex().Spiral(n)
	results := make([]Coord, 0, len(spiral))
	for _, h := range spiral {
		results = append(results, FromHex(h))
	}
	slices.SortFunc(results, func(a, b Coord) int {
		if c := cmp.Compare(a.Q, b.Q); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})
	return results
}

// Ray returns up to n coordinates starting next to origin and walking in direction d.
func Ray(origin Coord, d Direction, n int) []Coord {
	var results []Coord
	h := origin.Hex()
	for i := 0; i < n; i++ {
		h = h.Neighbor(int(d.normalize()))
		results = append(results, FromHex(h))
	}
	return results
}

// Line returns the coordinates on the straight line from a to b, inclusive.
// Points that fall on an edge are nudged so ties break consistently.
func Line(a, b Coord) []Coord {
	line := a.Hex().LineDrawNudged(b.Hex())
	results := make([]Coord, 0, len(line))
	for _, h := range line {
		results = append(results, FromHex(h))
	}
	return results
}
