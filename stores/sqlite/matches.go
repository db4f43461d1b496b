// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mdhender/hexclash/model"
	"github.com/mdhender/hexclash/web/auth"
)

// CreateMatch inserts a match. An empty ID is replaced with a new UUID.
func (s *Store) CreateMatch(ctx context.Context, m *model.Match) error {
	return createMatch(ctx, s.db, m)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func createMatch(ctx context.Context, db execer, m *model.Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Phase == "" {
		m.Phase = "setup"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}
	const query = `
		INSERT INTO matches (id, description, map_path, teams, phase, round, turn, winner, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		m.ID,
		nullString(m.Description),
		m.MapPath,
		m.Teams,
		m.Phase,
		m.Round,
		m.Turn,
		m.Winner,
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

// GetMatch returns the match or model.ErrNotFound.
func (s *Store) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	const query = `
		SELECT id, COALESCE(description, ''), map_path, teams, phase, round, turn, winner, created_at
		FROM matches
		WHERE id = ?
	`
	var m model.Match
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Description, &m.MapPath, &m.Teams, &m.Phase, &m.Round, &m.Turn, &m.Winner, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", id, model.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

// UpdateMatchStatus saves the match's progress.
func (s *Store) UpdateMatchStatus(ctx context.Context, id, phase string, round, turn, winner int) error {
	const query = `UPDATE matches SET phase = ?, round = ?, turn = ?, winner = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, phase, round, turn, winner, id)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("update match: %w", err)
	} else if n == 0 {
		return fmt.Errorf("match %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// AddPlayer seats a player. Handles are stored lower case.
func (s *Store) AddPlayer(ctx context.Context, p *model.Player) error {
	return addPlayer(ctx, s.db, p)
}

func addPlayer(ctx context.Context, db execer, p *model.Player) error {
	p.Handle = strings.ToLower(strings.TrimSpace(p.Handle))
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	const query = `
		INSERT INTO players (match_id, handle, team, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query, p.MatchID, p.Handle, p.Team, p.PasswordHash, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// GetPlayer returns the player or model.ErrNotFound.
func (s *Store) GetPlayer(ctx context.Context, matchID, handle string) (*model.Player, error) {
	const query = `
		SELECT match_id, handle, team, password_hash, created_at
		FROM players
		WHERE match_id = ? AND handle = ?
	`
	handle = strings.ToLower(strings.TrimSpace(handle))
	var p model.Player
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, matchID, handle).Scan(&p.MatchID, &p.Handle, &p.Team, &p.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", handle, model.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// Players returns the match's players ordered by team.
func (s *Store) Players(ctx context.Context, matchID string) ([]model.Player, error) {
	const query = `
		SELECT match_id, handle, team, password_hash, created_at
		FROM players
		WHERE match_id = ?
		ORDER BY team
	`
	rows, err := s.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		var p model.Player
		var createdAt string
		if err := rows.Scan(&p.MatchID, &p.Handle, &p.Team, &p.PasswordHash, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(createdAt)
		players = append(players, p)
	}
	return players, rows.Err()
}

// ValidateCredentials checks a player's password and returns the seat.
// It returns nil, nil when the handle is unknown or the password is wrong.
func (s *Store) ValidateCredentials(ctx context.Context, matchID, handle, password string) (*auth.User, error) {
	p, err := s.GetPlayer(ctx, matchID, handle)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, p.PasswordHash) {
		return nil, nil
	}
	return &auth.User{
		Handle:  p.Handle,
		MatchID: p.MatchID,
		Team:    p.Team,
	}, nil
}
