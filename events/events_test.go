// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/events"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/visibility"
)

func TestLogSequencesAndReplays(t *testing.T) {
	log := events.NewLog()
	for i := 0; i < 3; i++ {
		e := log.Append(events.Event{Kind: events.KindStepStarted, Public: true})
		if e.Seq != uint64(i+1) {
			t.Fatalf("Append %d: want seq %d, got %d", i, i+1, e.Seq)
		}
	}
	if got := log.Last(); got != 3 {
		t.Errorf("Last: want 3, got %d", got)
	}
	if got := log.Since(1); len(got) != 2 || got[0].Seq != 2 {
		t.Errorf("Since(1): want seqs 2..3, got %+v", got)
	}
	if got := log.Since(3); got != nil {
		t.Errorf("Since(3): want nil, got %+v", got)
	}
	// at-least-once: asking again returns the same events
	if a, b := log.Since(0), log.Since(0); len(a) != len(b) {
		t.Errorf("Since(0) not repeatable: %d vs %d", len(a), len(b))
	}
}

func TestLogWait(t *testing.T) {
	log := events.NewLog()
	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- log.Wait(ctx, 0)
	}()
	log.Append(events.Event{Kind: events.KindRoundStarted, Public: true})
	if err := <-done; err != nil {
		t.Fatalf("Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := log.Wait(ctx, 1); err == nil {
		t.Errorf("Wait past the end: want deadline error")
	}
}

func TestRecorderAudienceFollowsVisibility(t *testing.T) {
	g := board.New(8, 8)
	ledger := visibility.New(g, true)
	rec := events.NewRecorder(events.NewLog(), ledger, []visibility.TeamID{0, 1})
	var journaled int
	rec.AddJournal(func(events.Event) { journaled++ })

	seen := hexes.Coord{Q: 5, Z: 5}
	hidden := hexes.Coord{Q: 0, Z: 0}
	ledger.IncreaseVisibility(1, seen, 0)

	rec.Emit(events.Event{Kind: events.KindStepStarted, Team: 0, Piece: 1, Cells: []hexes.Coord{seen}})
	rec.Emit(events.Event{Kind: events.KindStepStarted, Team: 0, Piece: 2, Cells: []hexes.Coord{hidden}})
	rec.Emit(events.Event{Kind: events.KindCellsRevealed, Team: 0, Cells: []hexes.Coord{seen}})
	rec.Emit(events.Event{Kind: events.KindRoundStarted, Public: true})

	all := rec.Log().Since(0)
	if len(all) != 4 || journaled != 4 {
		t.Fatalf("want 4 events logged and journaled, got %d and %d", len(all), journaled)
	}
	for _, e := range all {
		if !e.VisibleTo(0) {
			t.Errorf("seq %d: owner must see its own events", e.Seq)
		}
		if e.At.IsZero() {
			t.Errorf("seq %d: want timestamp", e.Seq)
		}
	}
	team1 := rec.Log().SinceFor(0, 1)
	if len(team1) != 2 {
		t.Fatalf("team 1: want 2 events, got %+v", team1)
	}
	if team1[0].Piece != 1 || team1[1].Kind != events.KindRoundStarted {
		t.Errorf("team 1: got %+v", team1)
	}
}

func TestSinkDisplayIsPrivate(t *testing.T) {
	rec := events.NewRecorder(events.NewLog(), nil, []visibility.TeamID{0, 1})
	d := events.SinkDisplay{Sink: rec}
	d.ShowPath(1, 4, []hexes.Coord{{Q: 0, Z: 0}, {Q: 1, Z: 0}})
	d.RefreshMovementDisplay(1, 4, 2)
	if got := rec.Log().SinceFor(0, 0); len(got) != 0 {
		t.Errorf("team 0 must not see team 1's display, got %+v", got)
	}
	if got := rec.Log().SinceFor(0, 1); len(got) != 2 {
		t.Errorf("team 1: want 2 display events, got %d", len(got))
	}
}
