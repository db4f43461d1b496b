// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package events

import (
	"context"
	"sync"

	"github.com/mdhender/hexclash/visibility"
)

// Log is an append-only, sequenced event log.
//
// Appends come from the simulation; reads come from any number of observer
// goroutines. Delivery is at-least-once: an observer that reconnects asks for
// everything after the last sequence number it processed.
type Log struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

func NewLog() *Log {
	return &Log{notify: make(chan struct{})}
}

// Append assigns the next sequence number and stores the event.
func (l *Log) Append(e Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.Seq = uint64(len(l.events) + 1)
	l.events = append(l.events, e)
	close(l.notify)
	l.notify = make(chan struct{})
	return e
}

// Last returns the highest sequence number in the log.
func (l *Log) Last() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(len(l.events))
}

// Since returns a copy of every event with a sequence number greater than seq.
func (l *Log) Since(seq uint64) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq >= uint64(len(l.events)) {
		return nil
	}
	result := make([]Event, len(l.events)-int(seq))
	copy(result, l.events[seq:])
	return result
}

// SinceFor is Since filtered to what the team may see.
func (l *Log) SinceFor(seq uint64, team visibility.TeamID) []Event {
	return Filter(l.Since(seq), team)
}

// Wait blocks until the log holds an event after seq or the context ends.
func (l *Log) Wait(ctx context.Context, seq uint64) error {
	for {
		l.mu.Lock()
		if uint64(len(l.events)) > seq {
			l.mu.Unlock()
			return nil
		}
		ch := l.notify
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Filter returns the events the team may see, in order.
func Filter(list []Event, team visibility.TeamID) []Event {
	var result []Event
	for _, e := range list {
		if e.VisibleTo(team) {
			result = append(result, e)
		}
	}
	return result
}
