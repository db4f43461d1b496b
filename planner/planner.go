// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package planner validates the paths that clients propose.
//
// The server does not search for routes. A client suggests a route and the
// planner confirms it, one cell at a time, truncating at the first cell the
// piece may not enter.
package planner

import (
	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/rules"
)

// Validate returns the longest valid prefix of cells for a piece of the given kind.
//
// The first cell is the piece's current cell and is accepted as long as it is
// on the board. Each following cell is accepted only if it is adjacent to the
// previous accepted cell, the edge between them passes the kind's edge rule,
// and the cell passes the kind's cell rule. The scan stops at the first
// failure; everything after it is dropped.
func Validate(g *board.Grid, kind rules.Kind, cells []hexes.Coord) []hexes.Coord {
	r := rules.For(kind)
	if r == nil || len(cells) == 0 || !g.Contains(cells[0]) {
		return nil
	}
	valid := []hexes.Coord{cells[0]}
	for _, next := range cells[1:] {
		prev := valid[len(valid)-1]
		if !Legal(g, r, prev, next) {
			break
		}
		valid = append(valid, next)
	}
	return valid
}

// Legal reports whether a piece following r may step from prev to next.
func Legal(g *board.Grid, r *rules.Rules, prev, next hexes.Coord) bool {
	if !hexes.IsAdjacent(prev, next) {
		return false
	}
	edge, ok := g.EdgeType(prev, next)
	if !ok {
		return false
	}
	return r.CanEnter(edge, g.CellAt(next))
}

// Suggest proposes a straight-line route from one cell to another, the way a
// client would before submitting an order. The server never trusts it without
// running Validate.
func Suggest(from, to hexes.Coord) []hexes.Coord {
	return hexes.Line(from, to)
}
