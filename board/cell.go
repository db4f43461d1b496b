// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package board

import (
	"github.com/mdhender/hexclash/hexes"
)

// PieceID identifies a piece on the board. Zero means "no piece".
type PieceID int

// Terrain is the classification of a cell.
type Terrain uint8

const (
	Plain Terrain = iota
	Forest
	Hill
	Mountain
	Water
)

var terrainNames = []string{"plain", "forest", "hill", "mountain", "water"}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// EdgeKind classifies the border between two adjacent cells.
type EdgeKind uint8

const (
	Flat EdgeKind = iota
	Slope
	Cliff
)

var edgeNames = []string{"flat", "slope", "cliff"}

func (e EdgeKind) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return "unknown"
}

// Cell is a single hex on the board.
type Cell struct {
	Coord      hexes.Coord
	Terrain    Terrain
	Elevation  int
	Edges      [6]EdgeKind // indexed by hexes.Direction
	Explorable bool

	// Occupant is the piece resting in this cell, or zero.
	Occupant PieceID
}

// IsOccupied reports whether a piece rests in the cell.
func (c *Cell) IsOccupied() bool {
	return c != nil && c.Occupant != 0
}
