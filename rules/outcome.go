// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package rules

// Outcome is what a collision does to the moving piece.
type Outcome int

const (
	// None means "no rule here"; lookups fall through to the next table.
	None Outcome = iota
	// Cancel sends the mover back to the cell it left.
	Cancel
	// Freeze cancels the step and leaves the mover unable to move.
	Freeze
	// MoverDies kills the mover and credits the other piece with a capture.
	MoverDies
	// PassThrough lets the mover continue as if nothing happened.
	PassThrough
)

var outcomeNames = []string{"none", "cancel", "freeze", "mover-dies", "pass-through"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// ActiveOutcome looks up the active-collision outcome for mover against other.
func ActiveOutcome(mover, other Kind) Outcome {
	r := For(mover)
	if r == nil {
		return None
	}
	if o, ok := r.Active[other]; ok {
		return o
	}
	return r.ActiveDefault
}

// IdleOutcome looks up the idle-collision outcome for mover against other.
// It never returns None.
func IdleOutcome(mover, other Kind) Outcome {
	r := For(mover)
	if r == nil {
		return Cancel
	}
	if o, ok := r.Idle[other]; ok && o != None {
		return o
	}
	if r.IdleDefault == None {
		return Cancel
	}
	return r.IdleDefault
}
