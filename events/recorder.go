// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package events

import (
	"time"

	"github.com/mdhender/hexclash/visibility"
)

// Recorder is the Sink the simulation writes to. It stamps each event with
// its audience and time, then appends it to the log and forwards it to any
// journals (the match store, for instance).
type Recorder struct {
	log      *Log
	ledger   *visibility.Ledger
	teams    []visibility.TeamID
	journals []func(Event)
	round    int
	turn     int

	// Now defaults to time.Now; tests replace it.
	Now func() time.Time
}

// NewRecorder returns a Recorder for the given teams.
func NewRecorder(log *Log, ledger *visibility.Ledger, teams []visibility.TeamID) *Recorder {
	return &Recorder{log: log, ledger: ledger, teams: teams, Now: time.Now}
}

// AddJournal registers a function that receives every recorded event.
// Journals run on the simulation goroutine and must not block.
func (r *Recorder) AddJournal(fn func(Event)) {
	r.journals = append(r.journals, fn)
}

// SetLedger replaces the ledger used to compute audiences.
func (r *Recorder) SetLedger(ledger *visibility.Ledger) {
	r.ledger = ledger
}

// SetTurn sets the round and turn stamped on events that don't carry their own.
func (r *Recorder) SetTurn(round, turn int) {
	r.round, r.turn = round, turn
}

// Log returns the underlying log.
func (r *Recorder) Log() *Log {
	return r.log
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	if e.At.IsZero() {
		e.At = r.Now().UTC()
	}
	if e.Round == 0 {
		e.Round, e.Turn = r.round, r.turn
	}
	if !e.Public {
		e.Audience |= r.audience(e)
	}
	e = r.log.Append(e)
	for _, fn := range r.journals {
		fn(e)
	}
}

// audience is the owning team plus every team that currently sees one of the
// event's cells. Orders, reveals, hides and display updates are private to
// their team.
func (r *Recorder) audience(e Event) uint64 {
	mask := bit(e.Team)
	switch e.Kind {
	case KindOrderAccepted, KindCellsRevealed, KindCellsHidden, KindDisplay:
		return mask
	}
	if r.ledger == nil {
		return mask
	}
	for _, team := range r.teams {
		if team == e.Team {
			continue
		}
		for _, c := range e.Cells {
			if r.ledger.IsVisible(team, c) {
				mask |= bit(team)
				break
			}
		}
	}
	return mask
}

func bit(team visibility.TeamID) uint64 {
	if team < 0 || team > 63 {
		return 0
	}
	return 1 << uint(team)
}
