// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package turns

import (
	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/visibility"
)

// Snapshot is the match as one team is allowed to see it. Seq is the last
// event sequence number the snapshot reflects.
type Snapshot struct {
	Team    visibility.TeamID  `json:"team"`
	Round   int                `json:"round"`
	Turn    int                `json:"turn"`
	Phase   string             `json:"phase"`
	Current visibility.TeamID  `json:"current"`
	Winner  *visibility.TeamID `json:"winner,omitempty"`
	Seq     uint64             `json:"seq"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Visible []hexes.Coord      `json:"visible"`
	Pieces  []PieceView        `json:"pieces"`
}

// PieceView is one piece in a snapshot. Remaining movement and paths are
// only filled in for the viewer's own pieces.
type PieceView struct {
	ID        board.PieceID     `json:"id"`
	Team      visibility.TeamID `json:"team"`
	Kind      string            `json:"kind"`
	Cell      hexes.Coord       `json:"cell"`
	Facing    string            `json:"facing"`
	State     string            `json:"state"`
	CanMove   bool              `json:"canMove,omitempty"`
	Remaining int               `json:"remaining,omitempty"`
	Captures  int               `json:"captures,omitempty"`
	Path      []hexes.Coord     `json:"path,omitempty"`
}

// Snapshot returns the state visible to team. Enemy pieces appear only when
// they rest in a cell the team can see.
func (c *Controller) Snapshot(team visibility.TeamID) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Team:    team,
		Round:   c.round,
		Turn:    c.turn,
		Phase:   c.phase.String(),
		Current: c.players[c.current].Team,
		Seq:     c.log.Last(),
		Width:   c.grid.Width(),
		Height:  c.grid.Height(),
		Visible: c.ledger.Visible(team),
	}
	if c.phase == Over && c.winner >= 0 {
		winner := c.winner
		s.Winner = &winner
	}
	for _, id := range c.ids {
		p := c.pieces[id]
		if !p.Alive() || p.Disabled {
			continue
		}
		own := p.Team == team
		if !own && !c.ledger.IsVisible(team, p.Cell) {
			continue
		}
		v := PieceView{
			ID:       p.ID,
			Team:     p.Team,
			Kind:     p.Kind.String(),
			Cell:     p.Cell,
			Facing:   p.Facing.String(),
			State:    p.State.String(),
			Captures: p.Captures,
		}
		if own {
			v.CanMove = p.CanMove
			v.Remaining = p.RemainingMovement
			v.Path = append([]hexes.Coord(nil), p.Path...)
		}
		s.Pieces = append(s.Pieces, v)
	}
	return s
}
