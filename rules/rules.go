// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package rules holds the per-kind rule table.
//
// Every piece runs the same state machine. What differs between an Axe and a
// Horse is data: movement and vision stats, which edges and cells the piece may
// enter, what happens when its turn stops, and how it fares in a collision.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mdhender/hexclash/board"
)

// Kind is the piece type tag.
type Kind int

const (
	Unknown Kind = iota
	Axe
	Bow
	Pike
	Wall
	Horse
)

// ErrUnknownKind is returned for names and tags that aren't in the table.
var ErrUnknownKind = errors.New("unknown piece kind")

// Kinds lists every playable kind.
var Kinds = []Kind{Axe, Bow, Pike, Wall, Horse}

var kindNames = map[Kind]string{
	Unknown: "unknown",
	Axe:     "axe",
	Bow:     "bow",
	Pike:    "pike",
	Wall:    "wall",
	Horse:   "horse",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a name like "axe" to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if k != Unknown && name == s {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// StopTurnPolicy decides what happens to a piece's movement when a turn stops.
type StopTurnPolicy int

const (
	// FreezeIfPartiallyMoved freezes any piece that spent some, but not all, of its movement.
	FreezeIfPartiallyMoved StopTurnPolicy = iota
	// RestoreOnCapture restores full movement to a piece that captured this turn,
	// and otherwise behaves like FreezeIfPartiallyMoved.
	RestoreOnCapture
	// NeverMoves is for pieces with no movement at all.
	NeverMoves
)

// Rules is one row of the rule table.
type Rules struct {
	Kind        Kind
	MaxMovement int
	VisionRange int
	// Speed is the number of steps the piece interpolates per second.
	Speed float64

	// MaxStepsBeforeFire is zero for pieces that cannot fire.
	MaxStepsBeforeFire int
	FireRange          int

	EdgeLegal func(edge board.EdgeKind) bool
	CellLegal func(cell *board.Cell) bool

	StopTurn StopTurnPolicy

	// Active collision outcomes against an enemy, keyed by the enemy's kind.
	// ActiveDefault applies to enemies not listed; None sends the collision
	// to the Idle outcomes.
	Active        map[Kind]Outcome
	ActiveDefault Outcome
	// Idle collision outcomes, used when no active rule applies.
	Idle        map[Kind]Outcome
	IdleDefault Outcome
}

// IsRanged reports whether the kind fires instead of fighting in collisions.
func (r *Rules) IsRanged() bool {
	return r.MaxStepsBeforeFire > 0
}

// CanEnter reports whether a piece may step across edge into cell.
func (r *Rules) CanEnter(edge board.EdgeKind, cell *board.Cell) bool {
	if cell == nil {
		return false
	}
	return r.EdgeLegal(edge) && r.CellLegal(cell)
}

// DefaultEdgeLegal forbids crossing cliffs.
func DefaultEdgeLegal(edge board.EdgeKind) bool {
	return edge != board.Cliff
}

// DefaultCellLegal requires the cell to be explorable.
func DefaultCellLegal(cell *board.Cell) bool {
	return cell != nil && cell.Explorable
}

func flatOnly(edge board.EdgeKind) bool {
	return edge == board.Flat
}

func openGround(cell *board.Cell) bool {
	return DefaultCellLegal(cell) && cell.Terrain != board.Forest
}

func noEdge(board.EdgeKind) bool { return false }
func noCell(*board.Cell) bool    { return false }

var table = map[Kind]*Rules{
	Axe: {
		Kind:          Axe,
		MaxMovement:   3,
		VisionRange:   2,
		Speed:         2,
		EdgeLegal:     DefaultEdgeLegal,
		CellLegal:     DefaultCellLegal,
		StopTurn:      RestoreOnCapture,
		Active:        map[Kind]Outcome{Wall: Freeze},
		ActiveDefault: MoverDies,
		IdleDefault:   Cancel,
	},
	Bow: {
		Kind:               Bow,
		MaxMovement:        2,
		VisionRange:        3,
		Speed:              2,
		MaxStepsBeforeFire: 2,
		FireRange:          3,
		EdgeLegal:          DefaultEdgeLegal,
		CellLegal:          DefaultCellLegal,
		StopTurn:           FreezeIfPartiallyMoved,
		ActiveDefault:      None,
		IdleDefault:        Cancel,
	},
	Pike: {
		Kind:          Pike,
		MaxMovement:   2,
		VisionRange:   2,
		Speed:         1.5,
		EdgeLegal:     DefaultEdgeLegal,
		CellLegal:     DefaultCellLegal,
		StopTurn:      FreezeIfPartiallyMoved,
		Active:        map[Kind]Outcome{Horse: PassThrough, Wall: None},
		ActiveDefault: MoverDies,
		Idle:          map[Kind]Outcome{Wall: Freeze},
		IdleDefault:   Cancel,
	},
	Wall: {
		Kind:          Wall,
		MaxMovement:   0,
		VisionRange:   1,
		EdgeLegal:     noEdge,
		CellLegal:     noCell,
		StopTurn:      NeverMoves,
		ActiveDefault: None,
		IdleDefault:   Cancel,
	},
	Horse: {
		Kind:          Horse,
		MaxMovement:   5,
		VisionRange:   3,
		Speed:         3,
		EdgeLegal:     flatOnly,
		CellLegal:     openGround,
		StopTurn:      FreezeIfPartiallyMoved,
		Active:        map[Kind]Outcome{Wall: Cancel, Pike: Cancel},
		ActiveDefault: MoverDies,
		IdleDefault:   Cancel,
	},
}

// For returns the rules for a kind, or nil for an unknown kind.
func For(k Kind) *Rules {
	return table[k]
}
