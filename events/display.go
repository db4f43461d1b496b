// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package events

import (
	"fmt"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/visibility"
)

// Display is the presentation layer as the core sees it.
// Calls are fire-and-forget; the core never reads anything back.
type Display interface {
	ShowPath(team visibility.TeamID, piece board.PieceID, path []hexes.Coord)
	HideDisplay(team visibility.TeamID, piece board.PieceID)
	SetColor(team visibility.TeamID, piece board.PieceID, color string, saturating bool)
	RefreshMovementDisplay(team visibility.TeamID, piece board.PieceID, remaining int)
}

// NopDisplay ignores every call.
type NopDisplay struct{}

func (NopDisplay) ShowPath(visibility.TeamID, board.PieceID, []hexes.Coord)    {}
func (NopDisplay) HideDisplay(visibility.TeamID, board.PieceID)                 {}
func (NopDisplay) SetColor(visibility.TeamID, board.PieceID, string, bool)      {}
func (NopDisplay) RefreshMovementDisplay(visibility.TeamID, board.PieceID, int) {}

// SinkDisplay forwards display calls to the owning team's observers as
// display events.
type SinkDisplay struct {
	Sink Sink
}

func (d SinkDisplay) ShowPath(team visibility.TeamID, piece board.PieceID, path []hexes.Coord) {
	cells := make([]hexes.Coord, len(path))
	copy(cells, path)
	d.Sink.Emit(Event{Kind: KindDisplay, Team: team, Piece: piece, Cells: cells, Note: "show-path"})
}

func (d SinkDisplay) HideDisplay(team visibility.TeamID, piece board.PieceID) {
	d.Sink.Emit(Event{Kind: KindDisplay, Team: team, Piece: piece, Note: "hide"})
}

func (d SinkDisplay) SetColor(team visibility.TeamID, piece board.PieceID, color string, saturating bool) {
	d.Sink.Emit(Event{Kind: KindDisplay, Team: team, Piece: piece, Note: fmt.Sprintf("color %s saturating=%v", color, saturating)})
}

func (d SinkDisplay) RefreshMovementDisplay(team visibility.TeamID, piece board.PieceID, remaining int) {
	d.Sink.Emit(Event{Kind: KindDisplay, Team: team, Piece: piece, Remaining: remaining, Note: "movement"})
}
