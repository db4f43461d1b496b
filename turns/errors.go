// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package turns

import (
	"errors"
	"fmt"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/pieces"
)

var (
	ErrGameOver     = errors.New("game over")
	ErrMatchStarted = errors.New("match already started")
	ErrNoPlayers    = errors.New("every team needs a piece")
	ErrNotSettled   = errors.New("turn did not settle")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrUnknownPiece = errors.New("unknown piece")
	ErrUnknownTeam  = errors.New("unknown team")
)

// Error code constants reported to clients and stored with rejected orders.
const (
	ErrCodeNotYourTurn  = "NOT_YOUR_TURN"
	ErrCodeUnknownPiece = "UNKNOWN_PIECE"
	ErrCodeCannotMove   = "CANNOT_MOVE"
	ErrCodePathTooShort = "PATH_TOO_SHORT"
	ErrCodePathRejected = "PATH_REJECTED"
	ErrCodeGameOver     = "GAME_OVER"
	ErrCodeUnknown      = "UNKNOWN"
)

// OrderError is returned when an order or turn action is refused.
// Nothing changes on the server when one is returned.
type OrderError struct {
	Code  string
	Piece board.PieceID
	Err   error
}

func (e *OrderError) Error() string {
	if e.Piece != 0 {
		return fmt.Sprintf("order for piece %d: %s: %v", e.Piece, e.Code, e.Err)
	}
	return fmt.Sprintf("order: %s: %v", e.Code, e.Err)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ErrCodeUnknown
}

// refusal maps a piece's reason for refusing an order to an OrderError.
func refusal(id board.PieceID, err error) *OrderError {
	code := ErrCodeUnknown
	switch {
	case errors.Is(err, pieces.ErrCannotMove):
		code = ErrCodeCannotMove
	case errors.Is(err, pieces.ErrPathTooShort):
		code = ErrCodePathTooShort
	case errors.Is(err, pieces.ErrPathRejected):
		code = ErrCodePathRejected
	}
	return &OrderError{Code: code, Piece: id, Err: err}
}
