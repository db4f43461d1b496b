// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/mdhender/hexclash/events"
	"github.com/mdhender/hexclash/turns"
)

// AppendEvent writes one recorded event to the match journal.
func (s *Store) AppendEvent(ctx context.Context, matchID string, e events.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	const query = `
		INSERT INTO events (match_id, seq, kind, round, turn, team, public, audience, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		matchID,
		int64(e.Seq),
		string(e.Kind),
		e.Round,
		e.Turn,
		e.Team,
		boolToInt(e.Public),
		int64(e.Audience),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert event %d: %w", e.Seq, err)
	}
	return nil
}

// Events returns the journaled events after since, in sequence order, with
// their audiences restored.
func (s *Store) Events(ctx context.Context, matchID string, since uint64) ([]events.Event, error) {
	const query = `
		SELECT public, audience, payload
		FROM events
		WHERE match_id = ? AND seq > ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, matchID, int64(since))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var list []events.Event
	for rows.Next() {
		var public, audience int64
		var payload string
		if err := rows.Scan(&public, &audience, &payload); err != nil {
			return nil, err
		}
		var e events.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		e.Public, e.Audience = public != 0, uint64(audience)
		list = append(list, e)
	}
	return list, rows.Err()
}

// Journal writes a match's recorded events to the store from its own
// goroutine, so the simulation never waits on the disk. Events are written in
// the order they were recorded. Write failures are logged, never returned to
// the simulation.
type Journal struct {
	store   *Store
	matchID string

	mu     sync.Mutex
	closed bool
	queue  chan journalItem
	done   chan struct{}
}

// journalItem is an event to write, or a flush marker when ack is set.
type journalItem struct {
	event events.Event
	ack   chan struct{}
}

// JournalQueueSize is how many events a journal holds before Record blocks.
const JournalQueueSize = 4096

// Journal starts a journal for the match. Pass its Record method to
// events.Recorder.AddJournal and Close it when the match is done.
func (s *Store) Journal(matchID string) *Journal {
	j := &Journal{
		store:   s,
		matchID: matchID,
		queue:   make(chan journalItem, JournalQueueSize),
		done:    make(chan struct{}),
	}
	go j.run()
	return j
}

// Record queues an event. Events recorded after Close are dropped.
func (j *Journal) Record(e events.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	j.queue <- journalItem{event: e}
}

// Flush waits until every event recorded so far has been written.
func (j *Journal) Flush() {
	ack := make(chan struct{})
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.queue <- journalItem{ack: ack}
	j.mu.Unlock()
	<-ack
}

// Close writes what is queued and stops the writer.
func (j *Journal) Close() {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.queue)
	}
	j.mu.Unlock()
	<-j.done
}

func (j *Journal) run() {
	defer close(j.done)
	for item := range j.queue {
		if item.ack != nil {
			close(item.ack)
			continue
		}
		j.write(item.event)
	}
}

// write appends the event and keeps the match row's progress current.
func (j *Journal) write(e events.Event) {
	ctx := context.Background()
	if err := j.store.AppendEvent(ctx, j.matchID, e); err != nil {
		log.Printf("warning: journal: %s: %v", j.matchID, err)
	}
	var phase turns.Phase
	winner := -1
	switch e.Kind {
	case events.KindTurnStarted:
		phase = turns.Planning
	case events.KindTurnPlaying:
		phase = turns.Playing
	case events.KindGameOver:
		phase, winner = turns.Over, int(e.Team)
	default:
		return
	}
	if err := j.store.UpdateMatchStatus(ctx, j.matchID, phase.String(), e.Round, e.Turn, winner); err != nil {
		log.Printf("warning: journal: %s: %v", j.matchID, err)
	}
}
