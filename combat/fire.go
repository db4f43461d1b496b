// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package combat

import (
	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/rules"
)

// Lookup finds a piece by id.
type Lookup func(id board.PieceID) (Party, bool)

// Shot describes a ranged attack before it is resolved.
type Shot struct {
	Shooter Party
	From    hexes.Coord
	Facing  hexes.Direction
	Range   int
}

// Fire walks from the shooter's cell along its facing and returns the first
// enemy it can hit.
//
// The walk ends at the edge of the board or at a cell higher than the
// shooter's. Empty cells, allies, dying pieces and walls are passed over.
func Fire(g *board.Grid, lookup Lookup, shot Shot) (Party, bool) {
	origin := g.CellAt(shot.From)
	if origin == nil {
		return Party{}, false
	}
	for _, c := range hexes.Ray(shot.From, shot.Facing, shot.Range) {
		cell := g.CellAt(c)
		if cell == nil || cell.Elevation > origin.Elevation {
			break
		}
		if !cell.IsOccupied() {
			continue
		}
		target, ok := lookup(cell.Occupant)
		if !ok || target.Dying || target.Team == shot.Shooter.Team || target.Kind == rules.Wall {
			continue
		}
		return target, true
	}
	return Party{}, false
}
