// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package combat_test

import (
	"testing"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/combat"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/rules"
)

func TestResolveTable(t *testing.T) {
	for _, tc := range []struct {
		mover, other rules.Kind
		relation     combat.Relation
		outcome      rules.Outcome
	}{
		{rules.Axe, rules.Wall, combat.Active, rules.Freeze},
		{rules.Axe, rules.Bow, combat.Active, rules.MoverDies},
		{rules.Axe, rules.Horse, combat.Active, rules.MoverDies},
		{rules.Pike, rules.Horse, combat.Active, rules.PassThrough},
		{rules.Pike, rules.Axe, combat.Active, rules.MoverDies},
		{rules.Pike, rules.Wall, combat.Idle, rules.Freeze},
		{rules.Horse, rules.Wall, combat.Active, rules.Cancel},
		{rules.Horse, rules.Pike, combat.Active, rules.Cancel},
		{rules.Horse, rules.Bow, combat.Active, rules.MoverDies},
		{rules.Bow, rules.Axe, combat.Idle, rules.Cancel},
		{rules.Bow, rules.Wall, combat.Idle, rules.Cancel},
	} {
		mover := combat.Party{ID: 1, Team: 0, Kind: tc.mover}
		other := combat.Party{ID: 2, Team: 1, Kind: tc.other}
		got := combat.Resolve(mover, other, combat.Center)
		if got.Skipped {
			t.Errorf("%s vs %s: unexpectedly skipped", tc.mover, tc.other)
			continue
		}
		if got.Relation != tc.relation || got.Outcome != tc.outcome {
			t.Errorf("%s vs %s: want %s/%s, got %s/%s", tc.mover, tc.other, tc.relation, tc.outcome, got.Relation, got.Outcome)
		}
	}
}

func TestResolveAllyAlwaysCancels(t *testing.T) {
	for _, mk := range rules.Kinds {
		for _, other := range rules.Kinds {
			got := combat.Resolve(combat.Party{ID: 1, Kind: mk}, combat.Party{ID: 2, Kind: other}, combat.Border)
			if got.Relation != combat.Ally || got.Outcome != rules.Cancel {
				t.Errorf("%s vs ally %s: want ally/cancel, got %s/%s", mk, other, got.Relation, got.Outcome)
			}
		}
	}
}

func TestResolveSkipsDying(t *testing.T) {
	live := combat.Party{ID: 1, Team: 0, Kind: rules.Axe}
	dying := combat.Party{ID: 2, Team: 1, Kind: rules.Bow, Dying: true}
	if got := combat.Resolve(live, dying, combat.Center); !got.Skipped {
		t.Errorf("other dying: want skipped, got %+v", got)
	}
	if got := combat.Resolve(dying, live, combat.Center); !got.Skipped {
		t.Errorf("mover dying: want skipped, got %+v", got)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, mk := range rules.Kinds {
		for _, other := range rules.Kinds {
			for _, contact := range []combat.Contact{combat.Center, combat.Border} {
				mover := combat.Party{ID: 1, Team: 0, Kind: mk}
				party := combat.Party{ID: 2, Team: 1, Kind: other}
				first := combat.Resolve(mover, party, contact)
				for i := 0; i < 10; i++ {
					if got := combat.Resolve(mover, party, contact); got != first {
						t.Fatalf("%s vs %s %s: want %+v, got %+v", mk, other, contact, first, got)
					}
				}
				if first.Outcome == rules.None {
					t.Errorf("%s vs %s %s: outcome must never be none", mk, other, contact)
				}
			}
		}
	}
}

func TestFire(t *testing.T) {
	g := board.New(8, 3)
	from := hexes.Coord{Q: 0, Z: 1}
	parties := map[board.PieceID]combat.Party{
		1: {ID: 1, Team: 0, Kind: rules.Bow},
		2: {ID: 2, Team: 0, Kind: rules.Axe},
		3: {ID: 3, Team: 1, Kind: rules.Wall},
		4: {ID: 4, Team: 1, Kind: rules.Pike},
		5: {ID: 5, Team: 1, Kind: rules.Horse},
	}
	lookup := func(id board.PieceID) (combat.Party, bool) {
		p, ok := parties[id]
		return p, ok
	}
	g.Occupy(from, 1)
	g.Occupy(hexes.Coord{Q: 1, Z: 1}, 2)
	g.Occupy(hexes.Coord{Q: 2, Z: 1}, 3)
	g.Occupy(hexes.Coord{Q: 3, Z: 1}, 4)
	g.Occupy(hexes.Coord{Q: 4, Z: 1}, 5)
	shot := combat.Shot{Shooter: parties[1], From: from, Facing: hexes.East, Range: 3}

	got, ok := combat.Fire(g, lookup, shot)
	if !ok || got.ID != 4 {
		t.Fatalf("Fire: want pike 4 behind ally and wall, got %+v ok=%v", got, ok)
	}

	shot.Range = 2
	if got, ok := combat.Fire(g, lookup, shot); ok {
		t.Errorf("Fire short range: want miss, got %+v", got)
	}

	shot.Range = 5
	g.CellAt(hexes.Coord{Q: 2, Z: 1}).Elevation = 1
	if got, ok := combat.Fire(g, lookup, shot); ok {
		t.Errorf("Fire past high ground: want miss, got %+v", got)
	}

	shot.Facing = hexes.West
	if got, ok := combat.Fire(g, lookup, shot); ok {
		t.Errorf("Fire off the board: want miss, got %+v", got)
	}
}
