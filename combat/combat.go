// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package combat decides what happens when two pieces meet, and who a ranged
// piece hits when it fires.
//
// Detection lives with the turn controller. This package only answers "given
// these two pieces and this kind of contact, what is the outcome?" and the
// answer depends on nothing but its inputs.
package combat

import (
	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/rules"
	"github.com/mdhender/hexclash/visibility"
)

// Relation is how the mover relates to the piece it ran into.
type Relation int

const (
	// Ally means both pieces are on the same team.
	Ally Relation = iota
	// Active means the mover is the aggressor and a capture rule applies.
	Active
	// Idle means the mover met an enemy it has no capture rule for.
	Idle
)

func (r Relation) String() string {
	switch r {
	case Ally:
		return "ally"
	case Active:
		return "active"
	case Idle:
		return "idle"
	}
	return "unknown"
}

// Contact is where the two pieces met.
type Contact int

const (
	// Center contacts happen squarely inside a cell.
	Center Contact = iota
	// Border contacts happen on a shared edge while the pieces pass each other.
	Border
)

func (c Contact) String() string {
	if c == Border {
		return "border"
	}
	return "center"
}

// Party is what the resolver needs to know about a piece.
type Party struct {
	ID    board.PieceID
	Team  visibility.TeamID
	Kind  rules.Kind
	Dying bool
}

// Resolution is the decision for one mover/other pair.
type Resolution struct {
	Relation Relation
	Contact  Contact
	Outcome  rules.Outcome
	// Skipped is set when either piece was already dying. Nothing happens.
	Skipped bool
}

// Resolve looks up the outcome for mover running into other.
//
// Same-team pairs always cancel. Otherwise the mover's active table is
// consulted; an entry of None (or no entry and a None default) hands the
// encounter to the mover's idle table, which always has an answer.
func Resolve(mover, other Party, contact Contact) Resolution {
	res := Resolution{Contact: contact}
	if mover.Dying || other.Dying {
		res.Skipped = true
		return res
	}
	if mover.Team == other.Team {
		res.Relation, res.Outcome = Ally, rules.Cancel
		return res
	}
	if o := rules.ActiveOutcome(mover.Kind, other.Kind); o != rules.None {
		res.Relation, res.Outcome = Active, o
		return res
	}
	res.Relation, res.Outcome = Idle, rules.IdleOutcome(mover.Kind, other.Kind)
	return res
}
