// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"context"

	"github.com/mdhender/hexclash/events"
)

// Store is the persistence a match server needs.
type Store interface {
	CreateMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	UpdateMatchStatus(ctx context.Context, id, phase string, round, turn, winner int) error

	AddPlayer(ctx context.Context, p *Player) error
	GetPlayer(ctx context.Context, matchID, handle string) (*Player, error)
	Players(ctx context.Context, matchID string) ([]Player, error)

	RecordOrder(ctx context.Context, o *Order) (int64, error)
	Orders(ctx context.Context, matchID string) ([]Order, error)

	AppendEvent(ctx context.Context, matchID string, e events.Event) error
	Events(ctx context.Context, matchID string, since uint64) ([]events.Event, error)

	Stats() Stats
}
