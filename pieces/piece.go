// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package pieces implements the per-piece movement state machine.
//
// A piece is Idle until it accepts an order (HasAction). DoAction starts one
// step toward the next cell of its path (EnRoute), and CompleteAction commits
// the step when the interpolation finishes. A step may be canceled, in which
// case the piece runs back to the cell it left. Collisions may kill a piece
// (Dying), and Cleanup removes it from the board (Dead).
//
// Every kind shares this one machine. What differs between kinds lives in the
// rules table.
package pieces

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/events"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/planner"
	"github.com/mdhender/hexclash/rules"
	"github.com/mdhender/hexclash/visibility"
)

// State is the movement state of a piece.
type State int

const (
	Idle State = iota
	HasAction
	EnRoute
	Dying
	Dead
)

var stateNames = []string{"idle", "has-action", "en-route", "dying", "dead"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Reasons an order is refused.
var (
	ErrCannotMove   = errors.New("piece cannot move")
	ErrPathTooShort = errors.New("path needs at least two cells")
	ErrPathRejected = errors.New("path rejected")
	ErrOccupied     = errors.New("cell is occupied")
	ErrOffBoard     = errors.New("cell is not on the board")
)

// Env is everything outside the piece that the piece touches.
type Env struct {
	Grid    *board.Grid
	Ledger  *visibility.Ledger
	Sink    events.Sink
	Display events.Display
}

// Piece is one game piece. The exported fields are the piece's observable
// state; change them only through methods once the piece is in play.
type Piece struct {
	ID   board.PieceID
	Team visibility.TeamID
	Kind rules.Kind

	Cell   hexes.Coord
	Facing hexes.Direction

	MaxMovement       int
	RemainingMovement int
	VisionRange       int
	CanMove           bool
	Captures          int

	State State
	Path  []hexes.Coord
	Step  *Step

	// Disabled is set when a piece dies between cells and is hidden from view.
	Disabled bool

	rules *rules.Rules
	env   *Env

	grants           []hexes.Coord
	increases        int
	decreases        int
	stepsThisAction  int
	capturedThisTurn bool
	frozen           bool
}

// New places a piece of the given kind on the board and grants its vision.
func New(env *Env, id board.PieceID, team visibility.TeamID, kind rules.Kind, at hexes.Coord) (*Piece, error) {
	r := rules.For(kind)
	if r == nil {
		return nil, fmt.Errorf("new piece: %w: %s", rules.ErrUnknownKind, kind)
	}
	cell := env.Grid.CellAt(at)
	if cell == nil {
		return nil, fmt.Errorf("new piece: %w: %s", ErrOffBoard, at)
	} else if cell.IsOccupied() {
		return nil, fmt.Errorf("new piece: %w: %s", ErrOccupied, at)
	}
	p := &Piece{
		ID:                id,
		Team:              team,
		Kind:              kind,
		Cell:              at,
		MaxMovement:       r.MaxMovement,
		RemainingMovement: r.MaxMovement,
		VisionRange:       r.VisionRange,
		CanMove:           r.MaxMovement > 0,
		rules:             r,
		env:               env,
	}
	if team%2 == 1 {
		p.Facing = hexes.West
	}
	env.Grid.Occupy(at, id)
	p.grant(at)
	p.emit(events.Event{Kind: events.KindPieceSpawned, Cells: []hexes.Coord{at}, Remaining: p.RemainingMovement})
	return p, nil
}

// Rules returns the rules for the piece's kind.
func (p *Piece) Rules() *rules.Rules {
	return p.rules
}

// Alive reports whether the piece is neither dying nor dead.
func (p *Piece) Alive() bool {
	return p.State != Dying && p.State != Dead
}

// Order validates cells and, if at least one step survives, makes the result
// the piece's path. The returned slice is the accepted path.
func (p *Piece) Order(cells []hexes.Coord) ([]hexes.Coord, error) {
	switch {
	case !p.Alive() || p.State == EnRoute || !p.CanMove || p.RemainingMovement <= 0:
		return nil, ErrCannotMove
	case len(cells) < 2:
		return nil, ErrPathTooShort
	case cells[0] != p.Cell:
		return nil, fmt.Errorf("%w: path starts at %s, piece is at %s", ErrPathRejected, cells[0], p.Cell)
	}
	valid := planner.Validate(p.env.Grid, p.Kind, cells)
	if len(valid) < 2 {
		return nil, fmt.Errorf("%w: no legal step from %s", ErrPathRejected, p.Cell)
	}
	p.Path = valid
	p.State = HasAction
	p.stepsThisAction = 0
	p.display().ShowPath(p.Team, p.ID, valid)
	return append([]hexes.Coord(nil), valid...), nil
}

// SetAction is Order without the details. It returns false, and changes
// nothing, when the order is refused.
func (p *Piece) SetAction(cells []hexes.Coord) bool {
	_, err := p.Order(cells)
	return err == nil
}

// DoAction starts the next step of the path. It does nothing unless the piece
// has an action, at least two path cells and some movement left.
//
// The destination's vision grant is taken before the piece departs.
func (p *Piece) DoAction() bool {
	if p.State != HasAction || len(p.Path) < 2 || p.RemainingMovement <= 0 {
		return false
	}
	from, to := p.Path[0], p.Path[1]
	if d, ok := hexes.DirectionTo(from, to); ok {
		p.Facing = d
	}
	p.grant(to)
	p.Step = &Step{Cells: []hexes.Coord{from, to}}
	p.State = EnRoute
	p.emit(events.Event{Kind: events.KindStepStarted, Cells: []hexes.Coord{from, to}, Remaining: p.RemainingMovement})
	return true
}

// Advance moves the in-flight step along by dt seconds of simulated time.
func (p *Piece) Advance(dt float64) {
	if p.State != EnRoute || p.Step == nil {
		return
	}
	p.Step.advance(dt * p.rules.Speed)
}

// ExtendStep carries the in-flight step through its destination to the cell
// after it. It is how a piece passes through a cell another piece holds.
// It fails unless the step is a single forward leg, the path has a cell
// beyond the destination, and the piece has movement for both legs.
func (p *Piece) ExtendStep() bool {
	s := p.Step
	if p.State != EnRoute || s == nil || s.Reverse || s.Legs() != 1 {
		return false
	} else if len(p.Path) < 3 || p.RemainingMovement < 2 {
		return false
	}
	next := p.Path[2]
	p.grant(next)
	s.Cells = append(s.Cells, next)
	p.emit(events.Event{Kind: events.KindStepStarted, Cells: []hexes.Coord{s.Cells[1], next}, Remaining: p.RemainingMovement, Note: "pass-through"})
	return true
}

// CompleteAction commits a finished step.
//
// A forward step moves the piece to its destination, releases the grants of
// the cells it left, and spends one movement per cell. A reversed step leaves
// the piece where it started and releases the grants it took for the cells it
// never reached. A dying piece is left for Cleanup.
func (p *Piece) CompleteAction() bool {
	s := p.Step
	if !p.Alive() || p.State != EnRoute || s == nil || !s.Done() {
		return false
	}
	p.Step = nil

	if s.Reverse {
		for _, c := range s.Cells[1:] {
			p.release(c)
		}
		p.State, p.Path = Idle, nil
		p.display().RefreshMovementDisplay(p.Team, p.ID, p.RemainingMovement)
		return true
	}

	legs := s.Legs()
	dest := s.Destination()
	p.env.Grid.Release(p.Cell, p.ID)
	p.env.Grid.Occupy(dest, p.ID)
	p.Cell = dest
	if d, ok := hexes.DirectionTo(s.Cells[legs-1], dest); ok {
		p.Facing = d
	}
	for _, c := range s.Cells[:legs] {
		p.release(c)
	}
	p.RemainingMovement = max(p.RemainingMovement-legs, 0)
	p.stepsThisAction += legs
	if len(p.Path) > legs {
		p.Path = p.Path[legs:]
	} else {
		p.Path = nil
	}
	p.emit(events.Event{Kind: events.KindStepCompleted, Cells: []hexes.Coord{dest}, Remaining: p.RemainingMovement})

	if len(p.Path) >= 2 && p.RemainingMovement > 0 {
		p.State = HasAction
	} else {
		p.State, p.Path = Idle, nil
		p.display().HideDisplay(p.Team, p.ID)
	}
	p.display().RefreshMovementDisplay(p.Team, p.ID, p.RemainingMovement)
	return true
}

// CancelAction turns the in-flight step around. The piece loses all of its
// remaining movement and its path. Calling it again, or on a piece that is
// not en route or is dying, does nothing and returns false.
func (p *Piece) CancelAction() bool {
	s := p.Step
	if p.State != EnRoute || s == nil || s.Reverse {
		return false
	}
	s.Reverse = true
	p.RemainingMovement = 0
	p.Path = nil
	p.emit(events.Event{Kind: events.KindStepCanceled, Cells: []hexes.Coord{s.Origin(), s.Destination()}})
	p.display().HideDisplay(p.Team, p.ID)
	return true
}

// Freeze cancels any in-flight step and keeps the piece from moving for the
// rest of this round and all of the next.
func (p *Piece) Freeze() {
	if !p.Alive() {
		return
	}
	p.CancelAction()
	p.CanMove = false
	p.frozen = true
	p.emit(events.Event{Kind: events.KindPieceFrozen, Cells: []hexes.Coord{p.Cell}})
	p.display().SetColor(p.Team, p.ID, "frozen", false)
}

// Captured credits the piece with a capture.
func (p *Piece) Captured() {
	p.Captures++
	p.capturedThisTurn = true
}

// Die marks the piece as dying. A piece that dies on a border never reaches a
// cell, so it is disabled and hidden first.
func (p *Piece) Die(border bool) bool {
	if !p.Alive() {
		return false
	}
	if border {
		p.Disabled = true
		p.display().HideDisplay(p.Team, p.ID)
	}
	p.State = Dying
	p.emit(events.Event{Kind: events.KindPieceDied, Cells: []hexes.Coord{p.Cell}})
	return true
}

// Cleanup removes a dying piece from the board, releasing every vision grant
// and its occupancy.
func (p *Piece) Cleanup() bool {
	if p.State != Dying {
		return false
	}
	held := slices.Clone(p.grants)
	for i := len(held) - 1; i >= 0; i-- {
		p.release(held[i])
	}
	p.env.Grid.Release(p.Cell, p.ID)
	p.State = Dead
	p.Step, p.Path = nil, nil
	p.RemainingMovement = 0
	p.CanMove = false
	p.display().HideDisplay(p.Team, p.ID)
	return true
}

// RefreshForNewRound restores full movement. A piece frozen by a blocked
// collision sits out this one round before moving again.
func (p *Piece) RefreshForNewRound() {
	if !p.Alive() {
		return
	}
	p.RemainingMovement = p.MaxMovement
	p.stepsThisAction = 0
	p.capturedThisTurn = false
	if p.frozen {
		p.frozen = false
		p.CanMove = false
	} else {
		p.CanMove = p.MaxMovement > 0 && p.rules.StopTurn != rules.NeverMoves
	}
	p.display().RefreshMovementDisplay(p.Team, p.ID, p.RemainingMovement)
}

// OnStopTurn clears any pending order and applies the kind's stop-turn policy.
func (p *Piece) OnStopTurn() {
	if !p.Alive() {
		return
	}
	if p.State == HasAction {
		p.State = Idle
	}
	p.Path = nil

	switch p.rules.StopTurn {
	case rules.NeverMoves:
		p.CanMove = false
	case rules.RestoreOnCapture:
		if p.capturedThisTurn && !p.frozen {
			p.RemainingMovement = p.MaxMovement
			p.CanMove = true
			break
		}
		p.freezeIfPartial()
	default:
		p.freezeIfPartial()
	}
	p.capturedThisTurn = false
	p.stepsThisAction = 0
}

func (p *Piece) freezeIfPartial() {
	if p.RemainingMovement > 0 && p.RemainingMovement < p.MaxMovement {
		p.CanMove = false
	}
}

// CanFire reports whether a ranged piece has halted after a short enough move.
func (p *Piece) CanFire() bool {
	limit := p.rules.MaxStepsBeforeFire
	if limit <= 0 || !p.Alive() || p.State != Idle || len(p.Path) != 0 {
		return false
	}
	return p.stepsThisAction >= 1 && p.stepsThisAction <= limit
}

// Fired records that the piece took its shot. Its movement is spent whether
// or not anything was hit.
func (p *Piece) Fired() {
	p.RemainingMovement = 0
	p.stepsThisAction = 0
	p.display().RefreshMovementDisplay(p.Team, p.ID, 0)
}

// StepsThisAction is the number of cells moved since the last order.
func (p *Piece) StepsThisAction() int {
	return p.stepsThisAction
}

// Grants returns the centers of the vision grants the piece holds.
func (p *Piece) Grants() []hexes.Coord {
	return append([]hexes.Coord(nil), p.grants...)
}

// VisionCalls returns how many times the piece has increased and decreased
// its team's visibility.
func (p *Piece) VisionCalls() (increases, decreases int) {
	return p.increases, p.decreases
}

func (p *Piece) grant(c hexes.Coord) {
	p.grants = append(p.grants, c)
	p.increases++
	if p.env.Ledger == nil {
		return
	}
	if revealed := p.env.Ledger.IncreaseVisibility(p.Team, c, p.VisionRange); len(revealed) > 0 {
		p.emit(events.Event{Kind: events.KindCellsRevealed, Cells: revealed})
	}
}

func (p *Piece) release(c hexes.Coord) {
	i := -1
	for n, g := range p.grants {
		if g == c {
			i = n
			break
		}
	}
	if i < 0 {
		return
	}
	var hidden []hexes.Coord
	if p.env.Ledger != nil {
		var err error
		hidden, err = p.env.Ledger.DecreaseVisibility(p.Team, c, p.VisionRange)
		if err != nil {
			// the grant stays on the books so VisionCalls shows the imbalance
			p.emit(events.Event{Kind: events.KindCellsHidden, Note: err.Error()})
			return
		}
	}
	p.grants = slices.Delete(p.grants, i, i+1)
	p.decreases++
	if len(hidden) > 0 {
		p.emit(events.Event{Kind: events.KindCellsHidden, Cells: hidden})
	}
}

func (p *Piece) emit(e events.Event) {
	if p.env.Sink == nil {
		return
	}
	e.Team, e.Piece, e.PieceKind = p.Team, p.ID, p.Kind.String()
	p.env.Sink.Emit(e)
}

func (p *Piece) display() events.Display {
	if p.env.Display == nil {
		return events.NopDisplay{}
	}
	return p.env.Display
}
