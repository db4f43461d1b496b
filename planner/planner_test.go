// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package planner_test

import (
	"math/rand/v2"
	"testing"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/mdhender/hexclash/planner"
	"github.com/mdhender/hexclash/rules"
)

func TestValidateAcceptsLegalPath(t *testing.T) {
	g := board.New(6, 6)
	path := []hexes.Coord{{Q: 0, Z: 0}, {Q: 1, Z: 0}, {Q: 2, Z: 0}, {Q: 2, Z: 1}}
	got := planner.Validate(g, rules.Axe, path)
	if len(got) != len(path) {
		t.Fatalf("Validate: want %v, got %v", path, got)
	}
}

func TestValidateTruncatesAtFirstFailure(t *testing.T) {
	g := board.New(6, 6)
	g.SetEdge(hexes.Coord{Q: 1, Z: 0}, hexes.East, board.Cliff)
	path := []hexes.Coord{{Q: 0, Z: 0}, {Q: 1, Z: 0}, {Q: 2, Z: 0}, {Q: 3, Z: 0}}

	got := planner.Validate(g, rules.Axe, path)
	if len(got) != 2 {
		t.Fatalf("Validate across cliff: want 2 cells, got %v", got)
	}

	g.CellAt(hexes.Coord{Q: 1, Z: 0}).Explorable = false
	if got := planner.Validate(g, rules.Axe, path); len(got) != 1 {
		t.Errorf("Validate into unexplorable cell: want 1 cell, got %v", got)
	}

	gap := []hexes.Coord{{Q: 0, Z: 2}, {Q: 2, Z: 2}, {Q: 3, Z: 2}}
	if got := planner.Validate(g, rules.Axe, gap); len(got) != 1 {
		t.Errorf("Validate with a gap: want 1 cell, got %v", got)
	}

	if got := planner.Validate(g, rules.Axe, []hexes.Coord{{Q: -1, Z: 0}}); got != nil {
		t.Errorf("Validate off the board: want nil, got %v", got)
	}
}

func TestValidateUsesKindRules(t *testing.T) {
	g := board.New(6, 6)
	g.SetEdge(hexes.Coord{Q: 0, Z: 0}, hexes.East, board.Slope)
	g.CellAt(hexes.Coord{Q: 0, Z: 2}).Terrain = board.Forest
	slope := []hexes.Coord{{Q: 0, Z: 0}, {Q: 1, Z: 0}}
	forest := []hexes.Coord{{Q: 0, Z: 1}, {Q: 0, Z: 2}}

	if got := planner.Validate(g, rules.Axe, slope); len(got) != 2 {
		t.Errorf("axe on slope: want 2 cells, got %v", got)
	}
	if got := planner.Validate(g, rules.Horse, slope); len(got) != 1 {
		t.Errorf("horse on slope: want 1 cell, got %v", got)
	}
	if got := planner.Validate(g, rules.Horse, forest); len(got) != 1 {
		t.Errorf("horse into forest: want 1 cell, got %v", got)
	}
	if got := planner.Validate(g, rules.Wall, forest); len(got) != 1 {
		t.Errorf("wall: want 1 cell, got %v", got)
	}
}

// For random inputs the result is always a prefix of the input and every
// adjacent pair in it passes the kind's rules.
func TestValidateResultIsLegalPrefix(t *testing.T) {
	g := board.Generate(board.DefaultGenerateConfig(10, 10, 99))
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 500; trial++ {
		kind := rules.Kinds[rng.IntN(len(rules.Kinds))]
		cur := hexes.Coord{Q: rng.IntN(10), Z: rng.IntN(10)}
		input := []hexes.Coord{cur}
		for i := 0; i < 1+rng.IntN(8); i++ {
			if rng.IntN(10) == 0 {
				cur = hexes.Coord{Q: rng.IntN(10), Z: rng.IntN(10)}
			} else {
				cur = cur.Neighbor(hexes.Directions[rng.IntN(6)])
			}
			input = append(input, cur)
		}

		got := planner.Validate(g, kind, input)
		if len(got) > len(input) {
			t.Fatalf("trial %d: result longer than input", trial)
		}
		for i := range got {
			if got[i] != input[i] {
				t.Fatalf("trial %d: result %v is not a prefix of %v", trial, got, input)
			}
		}
		for i := 1; i < len(got); i++ {
			if !planner.Legal(g, rules.For(kind), got[i-1], got[i]) {
				t.Fatalf("trial %d: %s step %v -> %v is not legal", trial, kind, got[i-1], got[i])
			}
		}
	}
}

func TestSuggestIsConfirmedByValidate(t *testing.T) {
	g := board.New(8, 8)
	route := planner.Suggest(hexes.Coord{Q: 0, Z: 0}, hexes.Coord{Q: 4, Z: 3})
	if got := planner.Validate(g, rules.Horse, route); len(got) != len(route) {
		t.Errorf("Validate(Suggest): want %d cells, got %v", len(route), got)
	}
}
