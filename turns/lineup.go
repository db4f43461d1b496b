// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package turns

import (
	"fmt"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/rules"
	"github.com/mdhender/hexclash/visibility"
)

// Lineup is the set of kinds each team starts with, in placement order.
var Lineup = []rules.Kind{rules.Wall, rules.Pike, rules.Axe, rules.Axe, rules.Bow, rules.Horse}

// DefaultLineup places Lineup for every team. Even teams deploy from the west
// edge of the board and odd teams from the east, each filling the nearest
// column with cells its pieces may stand on.
func (c *Controller) DefaultLineup() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pl := range c.players {
		for _, kind := range Lineup {
			at, ok := c.deployCell(pl.Team, kind)
			if !ok {
				return fmt.Errorf("lineup: team %d: no room for %s", pl.Team, kind)
			}
			if _, err := c.spawn(pl.Team, kind, at); err != nil {
				return fmt.Errorf("lineup: %w", err)
			}
		}
	}
	return nil
}

func (c *Controller) deployCell(team visibility.TeamID, kind rules.Kind) (hexes.Coord, bool) {
	width, height := c.grid.Width(), c.grid.Height()
	r := rules.For(kind)
	for col := 0; col < width; col++ {
		q := col
		if team%2 == 1 {
			q = width - 1 - col
		}
		for z := 0; z < height; z++ {
			at := hexes.Coord{Q: q, Z: z}
			cell := c.grid.CellAt(at)
			if cell == nil || cell.IsOccupied() || !canStand(r, cell) {
				continue
			}
			return at, true
		}
	}
	return hexes.Coord{}, false
}

// canStand is the kind's cell rule, except that pieces which never move
// accept any explorable cell.
func canStand(r *rules.Rules, cell *board.Cell) bool {
	if r.StopTurn == rules.NeverMoves {
		return rules.DefaultCellLegal(cell)
	}
	return r.CellLegal(cell)
}
