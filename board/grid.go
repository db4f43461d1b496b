// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package board owns the hex grid: cells, terrain, edges and occupancy.
package board

import (
	"sort"

	"github.com/mdhender/hexclash/hexes"
)

// Grid is a parallelogram of cells with q in [0, width) and z in [0, height).
type Grid struct {
	width, height int
	cells         map[hexes.Coord]*Cell
}

// New returns a grid of explorable, flat plain cells.
func New(width, height int) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		cells:  make(map[hexes.Coord]*Cell, width*height),
	}
	for q := 0; q < width; q++ {
		for z := 0; z < height; z++ {
			c := hexes.Coord{Q: q, Z: z}
			g.cells[c] = &Cell{Coord: c, Terrain: Plain, Explorable: true}
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Len() int    { return len(g.cells) }

// Contains reports whether the coordinate is on the board.
func (g *Grid) Contains(c hexes.Coord) bool {
	_, ok := g.cells[c]
	return ok
}

// CellAt returns the cell at c, or nil when c is off the board.
func (g *Grid) CellAt(c hexes.Coord) *Cell {
	return g.cells[c]
}

// NeighborOf returns the cell adjacent to cell in direction d, or nil.
func (g *Grid) NeighborOf(cell *Cell, d hexes.Direction) *Cell {
	if cell == nil {
		return nil
	}
	return g.cells[cell.Coord.Neighbor(d)]
}

// EdgeType returns the classification of the edge between two cells.
// The boolean is false when either cell is missing or they are not adjacent.
func (g *Grid) EdgeType(a, b hexes.Coord) (EdgeKind, bool) {
	cell := g.cells[a]
	if cell == nil || !g.Contains(b) {
		return 0, false
	}
	d, ok := hexes.DirectionTo(a, b)
	if !ok {
		return 0, false
	}
	return cell.Edges[d], true
}

// Distance returns the hex distance between two coordinates.
func (g *Grid) Distance(a, b hexes.Coord) int {
	return hexes.Distance(a, b)
}

// SetEdge classifies the edge on cell c in direction d and mirrors the
// classification onto the neighbor so both sides agree.
func (g *Grid) SetEdge(c hexes.Coord, d hexes.Direction, kind EdgeKind) {
	if cell := g.cells[c]; cell != nil {
		cell.Edges[d] = kind
	}
	if n := g.cells[c.Neighbor(d)]; n != nil {
		n.Edges[d.Opposite()] = kind
	}
}

// OccupantAt returns the piece resting at c, or zero.
func (g *Grid) OccupantAt(c hexes.Coord) PieceID {
	if cell := g.cells[c]; cell != nil {
		return cell.Occupant
	}
	return 0
}

// Occupy records id as the piece resting at c.
// Any previous occupant is overwritten; callers release before acquiring.
func (g *Grid) Occupy(c hexes.Coord, id PieceID) bool {
	cell := g.cells[c]
	if cell == nil {
		return false
	}
	cell.Occupant = id
	return true
}

// Release clears the occupant at c, but only when it is id.
func (g *Grid) Release(c hexes.Coord, id PieceID) {
	if cell := g.cells[c]; cell != nil && cell.Occupant == id {
		cell.Occupant = 0
	}
}

// Coords returns every coordinate on the board, sorted by q then z.
func (g *Grid) Coords() []hexes.Coord {
	coords := make([]hexes.Coord, 0, len(g.cells))
	for c := range g.cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Q != coords[j].Q {
			return coords[i].Q < coords[j].Q
		}
		return coords[i].Z < coords[j].Z
	})
	return coords
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make(map[hexes.Coord]*Cell, len(g.cells)),
	}
	for c, cell := range g.cells {
		dup := *cell
		cp.cells[c] = &dup
	}
	return cp
}
