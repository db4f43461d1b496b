// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package turns

import (
	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/combat"
	"github.com/mdhender/hexclash/events"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/pieces"
	"github.com/mdhender/hexclash/rules"
)

// step runs one tick of the playing phase.
//
// Pieces are always visited in spawn order, so the same orders on the same
// board always produce the same match.
func (c *Controller) step(dt float64) {
	moving := c.enRoute()
	for _, p := range moving {
		p.Advance(dt)
	}
	for _, p := range moving {
		c.checkMidpoints(p)
	}
	c.complete(moving)
	for _, id := range c.ids {
		if p := c.pieces[id]; p.State == pieces.Dying {
			p.Cleanup()
		}
	}
	busy := false
	for _, id := range c.ids {
		p := c.pieces[id]
		if p.State == pieces.HasAction {
			p.DoAction()
		}
		if p.State == pieces.EnRoute {
			busy = true
		}
	}
	if !busy {
		c.stopTurn()
	}
}

// complete commits every finished step. A piece waiting on a holder that is
// still on its way out is retried after the others, so passes repeat for as
// long as one of them changes something.
func (c *Controller) complete(moving []*pieces.Piece) {
	pending := moving
	for len(pending) > 0 {
		var waiting []*pieces.Piece
		progressed := false
		for _, p := range pending {
			if p.State != pieces.EnRoute || !p.Step.Done() {
				continue
			}
			forward := !p.Step.Reverse
			if forward && !c.arrive(p) {
				waiting = append(waiting, p)
				continue
			}
			progressed = true
			if p.State != pieces.EnRoute || !p.Step.Done() {
				continue
			}
			p.CompleteAction()
			if forward && p.CanFire() {
				c.fire(p)
			}
		}
		if !progressed {
			c.breakCycles(waiting)
			return
		}
		pending = waiting
	}
}

// breakCycles turns back the waiting pieces whose chain of holders leads back
// into the chain. Nobody in such a chain can commit first. A chain that ends
// at a piece still moving is left to wait for the next tick.
func (c *Controller) breakCycles(waiting []*pieces.Piece) {
	blocked := make(map[board.PieceID]bool, len(waiting))
	for _, p := range waiting {
		blocked[p.ID] = true
	}
	var stuck []*pieces.Piece
	for _, p := range waiting {
		seen := map[board.PieceID]bool{p.ID: true}
		for q := c.holder(p, p.Step.Destination()); q != nil && blocked[q.ID]; q = c.holder(q, q.Step.Destination()) {
			if seen[q.ID] {
				stuck = append(stuck, p)
				break
			}
			seen[q.ID] = true
		}
	}
	for _, p := range stuck {
		p.CancelAction()
	}
}

func (c *Controller) enRoute() []*pieces.Piece {
	var list []*pieces.Piece
	for _, id := range c.ids {
		if p := c.pieces[id]; p.State == pieces.EnRoute && p.Step != nil {
			list = append(list, p)
		}
	}
	return list
}

// checkMidpoints looks for contacts at every edge midpoint the piece crossed
// during this tick.
func (c *Controller) checkMidpoints(p *pieces.Piece) {
	for p.State == pieces.EnRoute && p.Step != nil {
		leg, ok := p.Step.NextMidpoint()
		if !ok {
			return
		}
		from, to := p.Step.Cells[leg], p.Step.Cells[leg+1]
		if q := c.borderContact(p, from, to); q != nil {
			c.collide(p, q, combat.Border, from, to)
			continue
		}
		if q := c.centerContact(p, to); q != nil {
			c.collide(p, q, combat.Center, to)
		}
	}
}

// borderContact finds a piece crossing the same edge in the other direction.
func (c *Controller) borderContact(p *pieces.Piece, from, to hexes.Coord) *pieces.Piece {
	for _, q := range c.enRoute() {
		if q == p || !q.Alive() || q.Step.Reverse {
			continue
		}
		if qFrom, qTo := q.Step.Edge(); qFrom == to && qTo == from {
			return q
		}
	}
	return nil
}

// centerContact finds a piece that holds the cell, or is entering it ahead
// of p. A piece on its way out of the cell doesn't count.
func (c *Controller) centerContact(p *pieces.Piece, cell hexes.Coord) *pieces.Piece {
	if q := c.holder(p, cell); q != nil && !leaving(q, cell) {
		return q
	}
	for _, q := range c.enRoute() {
		if q != p && q.Alive() && q.Step.Crossed(cell) {
			return q
		}
	}
	return nil
}

// arrive checks the destination of a finished forward step. It reports
// whether the step may complete now. A step into a cell whose holder is still
// on its way out waits until the holder has committed its own step or turned
// back, because the holder may yet return to the cell.
func (c *Controller) arrive(p *pieces.Piece) bool {
	dest := p.Step.Destination()
	q := c.holder(p, dest)
	if q == nil {
		return true
	}
	if leaving(q, dest) {
		return false
	}
	c.collide(p, q, combat.Center, dest)
	return true
}

// holder returns the live piece, other than p, resting at cell.
func (c *Controller) holder(p *pieces.Piece, cell hexes.Coord) *pieces.Piece {
	id := c.grid.OccupantAt(cell)
	if id == 0 || id == p.ID {
		return nil
	}
	q, ok := c.pieces[id]
	if !ok || !q.Alive() {
		return nil
	}
	return q
}

func leaving(q *pieces.Piece, cell hexes.Coord) bool {
	return q.State == pieces.EnRoute && q.Step != nil && q.Step.Origin() == cell && q.Step.Leaving()
}

// collide applies the outcome of p running into q.
func (c *Controller) collide(p, q *pieces.Piece, contact combat.Contact, cells ...hexes.Coord) {
	res := combat.Resolve(party(p), party(q), contact)
	if res.Skipped {
		return
	}
	c.recorder.Emit(events.Event{
		Kind:      events.KindCollision,
		Team:      p.Team,
		Piece:     p.ID,
		PieceKind: p.Kind.String(),
		Other:     q.ID,
		Cells:     cells,
		Outcome:   res.Outcome.String(),
		Note:      res.Relation.String() + " " + contact.String(),
	})
	switch res.Outcome {
	case rules.Cancel:
		p.CancelAction()
	case rules.Freeze:
		p.Freeze()
	case rules.MoverDies:
		p.Die(contact == combat.Border)
		q.Captured()
	case rules.PassThrough:
		if contact == combat.Center && !p.ExtendStep() {
			p.CancelAction()
		}
	}
}

// fire lets a ranged piece that just halted take its shot.
func (c *Controller) fire(p *pieces.Piece) {
	shot := combat.Shot{
		Shooter: party(p),
		From:    p.Cell,
		Facing:  p.Facing,
		Range:   p.Rules().FireRange,
	}
	target, hit := combat.Fire(c.grid, c.lookup, shot)
	p.Fired()
	e := events.Event{
		Kind:      events.KindPieceFired,
		Team:      p.Team,
		Piece:     p.ID,
		PieceKind: p.Kind.String(),
		Cells:     []hexes.Coord{p.Cell},
		Note:      "miss",
	}
	if hit {
		victim := c.pieces[target.ID]
		victim.Die(false)
		p.Captured()
		e.Other, e.Note = victim.ID, "hit"
		e.Cells = append(e.Cells, victim.Cell)
	}
	c.recorder.Emit(e)
}

func (c *Controller) lookup(id board.PieceID) (combat.Party, bool) {
	p, ok := c.pieces[id]
	if !ok || p.State == pieces.Dead {
		return combat.Party{}, false
	}
	return party(p), true
}

func party(p *pieces.Piece) combat.Party {
	return combat.Party{ID: p.ID, Team: p.Team, Kind: p.Kind, Dying: !p.Alive()}
}
