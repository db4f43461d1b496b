// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mdhender/hexclash/model"
	"github.com/mdhender/hexclash/visibility"
	"github.com/mdhender/hexclash/web/auth"
	"github.com/spf13/afero"
)

// Roster is the JSON file that sets up a match and seats its players.
type Roster struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Map         string         `json:"map"`
	Teams       int            `json:"teams"`
	Players     []RosterPlayer `json:"players"`
}

type RosterPlayer struct {
	Handle   string            `json:"handle"`
	Password string            `json:"password"`
	Team     visibility.TeamID `json:"team"`
}

// invalidHash never matches a password. Players without one can't join.
const invalidHash = "$2a$10$INVALID.HASH.THAT.WILL.NEVER.MATCH.ANY.PASSWORD.EVER"

// ReadRoster parses a roster file.
func ReadRoster(fs afero.Fs, path string) (*Roster, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roster json: %w", err)
	}
	if r.Teams == 0 {
		r.Teams = 2
	}
	for _, p := range r.Players {
		if p.Team < 0 || int(p.Team) >= r.Teams {
			return nil, fmt.Errorf("roster: %s: team %d out of range", p.Handle, p.Team)
		}
	}
	return &r, nil
}

// LoadRoster creates the match and its players in one transaction.
func (s *Store) LoadRoster(ctx context.Context, r *Roster) (*model.Match, error) {
	m := &model.Match{
		ID:          r.ID,
		Description: r.Description,
		MapPath:     r.Map,
		Teams:       r.Teams,
		Winner:      -1,
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := createMatch(ctx, tx, m); err != nil {
			return err
		}
		for _, rp := range r.Players {
			hash := invalidHash
			if rp.Password != "" {
				var err error
				if hash, err = auth.HashPassword(rp.Password); err != nil {
					return fmt.Errorf("hash password for %s: %w", rp.Handle, err)
				}
			}
			p := &model.Player{MatchID: m.ID, Handle: rp.Handle, Team: rp.Team, PasswordHash: hash}
			if err := addPlayer(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return m, nil
}
