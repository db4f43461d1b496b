// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pieces

import "github.com/mdhender/hexclash/hexes"

// Step is the in-flight movement of a piece.
//
// Cells runs from the origin through one or two destination cells. Progress
// runs from 0 at the origin to Legs() at the final cell, so a progress of 0.5
// is the edge midpoint of the first leg. A reversed step runs back toward 0.
type Step struct {
	Cells    []hexes.Coord
	Progress float64
	Reverse  bool

	// midpoints already reported by NextMidpoint
	checked int
}

// Legs is the number of cells the step crosses.
func (s *Step) Legs() int {
	return len(s.Cells) - 1
}

// Origin is the cell the piece left.
func (s *Step) Origin() hexes.Coord {
	return s.Cells[0]
}

// Destination is the last cell of the step.
func (s *Step) Destination() hexes.Coord {
	return s.Cells[len(s.Cells)-1]
}

// Leg returns the index of the leg the piece is on.
func (s *Step) Leg() int {
	leg := int(s.Progress)
	if leg >= s.Legs() {
		leg = s.Legs() - 1
	}
	if leg < 0 {
		leg = 0
	}
	return leg
}

// Edge returns the two cells of the current leg, in travel order.
func (s *Step) Edge() (from, to hexes.Coord) {
	leg := s.Leg()
	if s.Reverse {
		return s.Cells[leg+1], s.Cells[leg]
	}
	return s.Cells[leg], s.Cells[leg+1]
}

// Leaving reports whether a forward step is past the midpoint of its first leg,
// which is when the origin no longer counts as held.
func (s *Step) Leaving() bool {
	return !s.Reverse && s.Progress >= 0.5
}

// Crossed reports whether the step is forward and has passed the midpoint
// leading into c.
func (s *Step) Crossed(c hexes.Coord) bool {
	if s.Reverse {
		return false
	}
	for i := 1; i < len(s.Cells); i++ {
		if s.Cells[i] == c {
			return s.Progress >= float64(i)-0.5
		}
	}
	return false
}

// Done reports whether the interpolation has reached its end.
func (s *Step) Done() bool {
	if s.Reverse {
		return s.Progress <= 0
	}
	return s.Progress >= float64(s.Legs())
}

// NextMidpoint returns the next leg whose midpoint the step has crossed but
// nobody has checked yet. Each midpoint is reported once; reversed steps
// report nothing.
func (s *Step) NextMidpoint() (leg int, ok bool) {
	if s.Reverse || s.checked >= s.Legs() {
		return 0, false
	}
	if s.Progress < float64(s.checked)+0.5 {
		return 0, false
	}
	leg = s.checked
	s.checked++
	return leg, true
}

func (s *Step) advance(delta float64) {
	if s.Reverse {
		s.Progress -= delta
	} else {
		s.Progress += delta
	}
	s.Progress = min(max(s.Progress, 0), float64(s.Legs()))
}
