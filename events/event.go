// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package events turns server-side state changes into a sequenced log that
// observers read at their own pace.
//
// Observers never mutate the server's state. Each event carries the set of
// teams allowed to see it, computed from the visibility ledger at the moment
// the event was recorded, so a slow observer can't learn more than its team
// saw at the time.
package events

import (
	"time"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/visibility"
)

// Kind discriminates Event variants.
type Kind string

const (
	KindRoundStarted  Kind = "round-started"
	KindTurnStarted   Kind = "turn-started"
	KindTurnEnded     Kind = "turn-ended"
	KindTurnPlaying   Kind = "turn-playing"
	KindTurnStopped   Kind = "turn-stopped"
	KindGameOver      Kind = "game-over"
	KindSurrendered   Kind = "surrendered"
	KindPieceSpawned  Kind = "piece-spawned"
	KindOrderAccepted Kind = "order-accepted"
	KindStepStarted   Kind = "step-started"
	KindStepCompleted Kind = "step-completed"
	KindStepCanceled  Kind = "step-canceled"
	KindCollision     Kind = "collision"
	KindPieceFrozen   Kind = "piece-frozen"
	KindPieceDied     Kind = "piece-died"
	KindPieceFired    Kind = "piece-fired"
	KindCellsRevealed Kind = "cells-revealed"
	KindCellsHidden   Kind = "cells-hidden"
	KindDisplay       Kind = "display"
)

// Event is one state change. Only the fields relevant to Kind are set.
type Event struct {
	Seq  uint64    `json:"seq"`
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`

	Round int `json:"round,omitempty"`
	Turn  int `json:"turn,omitempty"`

	Team      visibility.TeamID `json:"team"`
	Piece     board.PieceID     `json:"piece,omitempty"`
	PieceKind string            `json:"pieceKind,omitempty"`
	Other     board.PieceID     `json:"other,omitempty"`

	Cells     []hexes.Coord `json:"cells,omitempty"`
	Remaining int           `json:"remaining,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
	Note      string        `json:"note,omitempty"`

	// Public events go to everyone; otherwise Audience says who may see it.
	Public   bool   `json:"-"`
	Audience uint64 `json:"-"`
}

// VisibleTo reports whether observers of the team may receive the event.
func (e Event) VisibleTo(team visibility.TeamID) bool {
	if e.Public {
		return true
	}
	if team < 0 || team > 63 {
		return false
	}
	return e.Audience&(1<<uint(team)) != 0
}

// Sink accepts events from the simulation. Emitting never blocks on observers.
type Sink interface {
	Emit(e Event)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}
