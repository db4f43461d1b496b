// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package visibility implements the fog-of-war ledger.
//
// The ledger keeps, per team and per cell, the number of pieces currently
// granting vision to that cell. A cell is visible to a team while its counter
// is positive. Every increase must be paired with exactly one decrease for the
// same center and range; the ledger does not remember who asked.
package visibility

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/mdhender/hexclash/hexes"
)

// TeamID identifies a team.
type TeamID int

var ErrUnderflow = errors.New("visibility underflow")

// Bounds limits the ledger to cells that exist on the board.
type Bounds interface {
	Contains(c hexes.Coord) bool
}

// Ledger holds per-team visibility counters.
// It is not safe for concurrent use; the turn controller is its only writer.
type Ledger struct {
	bounds Bounds
	counts map[TeamID]map[hexes.Coord]int

	// strict panics on underflow instead of returning an error.
	strict bool

	increases, decreases int
}

// New returns an empty ledger. When strict is set, an unbalanced decrease
// panics, which is what tests and debug builds want.
func New(bounds Bounds, strict bool) *Ledger {
	return &Ledger{
		bounds: bounds,
		counts: make(map[TeamID]map[hexes.Coord]int),
		strict: strict,
	}
}

// IncreaseVisibility adds one vision grant from center with the given range.
// It returns the cells that became visible to the team.
func (l *Ledger) IncreaseVisibility(team TeamID, center hexes.Coord, rng int) []hexes.Coord {
	counts := l.counts[team]
	if counts == nil {
		counts = make(map[hexes.Coord]int)
		l.counts[team] = counts
	}
	var revealed []hexes.Coord
	for _, c := range hexes.WithinRange(center, rng) {
		if l.bounds != nil && !l.bounds.Contains(c) {
			continue
		}
		counts[c]++
		if counts[c] == 1 {
			revealed = append(revealed, c)
		}
	}
	l.increases++
	return revealed
}

// DecreaseVisibility removes one vision grant from center with the given range.
// It returns the cells that are no longer visible to the team.
//
// A decrease with no matching increase is a logic error. The ledger is left
// untouched and ErrUnderflow is returned, or, in strict mode, it panics.
func (l *Ledger) DecreaseVisibility(team TeamID, center hexes.Coord, rng int) ([]hexes.Coord, error) {
	counts := l.counts[team]
	cells := hexes.WithinRange(center, rng)
	for _, c := range cells {
		if l.bounds != nil && !l.bounds.Contains(c) {
			continue
		}
		if counts[c] <= 0 {
			err := fmt.Errorf("%w: team %d cell %s", ErrUnderflow, team, c)
			if l.strict {
				panic(err)
			}
			return nil, err
		}
	}
	var hidden []hexes.Coord
	for _, c := range cells {
		if l.bounds != nil && !l.bounds.Contains(c) {
			continue
		}
		counts[c]--
		if counts[c] == 0 {
			delete(counts, c)
			hidden = append(hidden, c)
		}
	}
	l.decreases++
	return hidden, nil
}

// IsVisible reports whether the team currently sees the cell.
func (l *Ledger) IsVisible(team TeamID, c hexes.Coord) bool {
	return l.counts[team][c] > 0
}

// Count returns the team's counter for the cell.
func (l *Ledger) Count(team TeamID, c hexes.Coord) int {
	return l.counts[team][c]
}

// Visible returns every cell the team currently sees, sorted by q then z.
func (l *Ledger) Visible(team TeamID) []hexes.Coord {
	cells := make([]hexes.Coord, 0, len(l.counts[team]))
	for c := range l.counts[team] {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b hexes.Coord) int {
		return cmp.Or(cmp.Compare(a.Q, b.Q), cmp.Compare(a.Z, b.Z))
	})
	return cells
}

// Total returns the sum of the team's counters.
func (l *Ledger) Total(team TeamID) int {
	total := 0
	for _, n := range l.counts[team] {
		total += n
	}
	return total
}

// Calls returns the number of increases and decreases applied so far.
func (l *Ledger) Calls() (increases, decreases int) {
	return l.increases, l.decreases
}
