// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package model defines the records a match server persists.
package model

import (
	"errors"
	"time"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/visibility"
)

var ErrNotFound = errors.New("not found")

// Match is one game on one board.
type Match struct {
	ID          string    `json:"id"          db:"id"`
	Description string    `json:"description" db:"description"`
	MapPath     string    `json:"map"         db:"map_path"`
	Teams       int       `json:"teams"       db:"teams"`
	Phase       string    `json:"phase"       db:"phase"`
	Round       int       `json:"round"       db:"round"`
	Turn        int       `json:"turn"        db:"turn"`
	Winner      int       `json:"winner"      db:"winner"` // -1 until someone wins
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// Player is a handle seated on a team in a match.
type Player struct {
	MatchID      string            `json:"match"     db:"match_id"`
	Handle       string            `json:"handle"    db:"handle"`
	Team         visibility.TeamID `json:"team"      db:"team"`
	PasswordHash string            `json:"-"         db:"password_hash"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
}

// Order is a path a player submitted for a piece. Accepted is the length of
// the prefix the server kept; Code is set when the order was refused.
type Order struct {
	ID        int64             `json:"id"        db:"id"`
	MatchID   string            `json:"match"     db:"match_id"`
	Team      visibility.TeamID `json:"team"      db:"team"`
	Piece     board.PieceID     `json:"piece"     db:"piece_id"`
	Round     int               `json:"round"     db:"round"`
	Turn      int               `json:"turn"      db:"turn"`
	Requested []hexes.Coord     `json:"requested" db:"requested"`
	Accepted  int               `json:"accepted"  db:"accepted"`
	Code      string            `json:"code"      db:"code"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
}

// Stats holds store statistics.
type Stats struct {
	Matches int
	Players int
	Orders  int
	Events  int
}
