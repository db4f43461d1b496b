// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/model"
)

// RecordOrder inserts an order and returns its assigned ID.
func (s *Store) RecordOrder(ctx context.Context, o *model.Order) (int64, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now()
	}
	requested, err := json.Marshal(o.Requested)
	if err != nil {
		return 0, fmt.Errorf("encode path: %w", err)
	}
	const query = `
		INSERT INTO orders (match_id, team, piece_id, round, turn, requested, accepted, code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		o.MatchID,
		o.Team,
		o.Piece,
		o.Round,
		o.Turn,
		string(requested),
		o.Accepted,
		o.Code,
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	o.ID = id
	return id, nil
}

// Orders returns every order for the match in submission order.
func (s *Store) Orders(ctx context.Context, matchID string) ([]model.Order, error) {
	const query = `
		SELECT id, match_id, team, piece_id, round, turn, requested, accepted, code, created_at
		FROM orders
		WHERE match_id = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var requested, createdAt string
		if err := rows.Scan(&o.ID, &o.MatchID, &o.Team, &o.Piece, &o.Round, &o.Turn, &requested, &o.Accepted, &o.Code, &createdAt); err != nil {
			return nil, err
		}
		var path []hexes.Coord
		if err := json.Unmarshal([]byte(requested), &path); err != nil {
			return nil, fmt.Errorf("order %d: decode path: %w", o.ID, err)
		}
		o.Requested = path
		o.CreatedAt = parseTime(createdAt)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
