// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package rules_test

import (
	"testing"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/rules"
)

func TestEveryKindHasRules(t *testing.T) {
	for _, k := range rules.Kinds {
		r := rules.For(k)
		if r == nil {
			t.Fatalf("%s: missing rules", k)
		}
		if r.Kind != k {
			t.Errorf("%s: row has kind %s", k, r.Kind)
		}
		if r.EdgeLegal == nil || r.CellLegal == nil {
			t.Errorf("%s: missing legality predicates", k)
		}
		if r.MaxMovement > 0 && r.Speed <= 0 {
			t.Errorf("%s: moving kind needs a positive speed", k)
		}
	}
	if rules.For(rules.Unknown) != nil {
		t.Errorf("Unknown: want nil rules")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range rules.Kinds {
		got, err := rules.ParseKind(" " + k.String() + " ")
		if err != nil || got != k {
			t.Errorf("ParseKind(%q): want %s, got %s (%v)", k.String(), k, got, err)
		}
	}
	if _, err := rules.ParseKind("catapult"); err == nil {
		t.Errorf("ParseKind(catapult): want error")
	}
}

func TestLegality(t *testing.T) {
	open := &board.Cell{Terrain: board.Plain, Explorable: true}
	forest := &board.Cell{Terrain: board.Forest, Explorable: true}
	water := &board.Cell{Terrain: board.Water}

	for _, tc := range []struct {
		kind rules.Kind
		edge board.EdgeKind
		cell *board.Cell
		want bool
	}{
		{rules.Axe, board.Flat, open, true},
		{rules.Axe, board.Slope, forest, true},
		{rules.Axe, board.Cliff, open, false},
		{rules.Axe, board.Flat, water, false},
		{rules.Horse, board.Flat, open, true},
		{rules.Horse, board.Slope, open, false},
		{rules.Horse, board.Flat, forest, false},
		{rules.Wall, board.Flat, open, false},
		{rules.Pike, board.Flat, nil, false},
	} {
		if got := rules.For(tc.kind).CanEnter(tc.edge, tc.cell); got != tc.want {
			t.Errorf("%s CanEnter(%s, %+v): want %v, got %v", tc.kind, tc.edge, tc.cell, tc.want, got)
		}
	}
}

func TestCollisionTables(t *testing.T) {
	for _, tc := range []struct {
		mover, other rules.Kind
		active       rules.Outcome
		idle         rules.Outcome
	}{
		{rules.Axe, rules.Wall, rules.Freeze, rules.Cancel},
		{rules.Axe, rules.Pike, rules.MoverDies, rules.Cancel},
		{rules.Pike, rules.Horse, rules.PassThrough, rules.Cancel},
		{rules.Pike, rules.Wall, rules.None, rules.Freeze},
		{rules.Pike, rules.Axe, rules.MoverDies, rules.Cancel},
		{rules.Horse, rules.Wall, rules.Cancel, rules.Cancel},
		{rules.Horse, rules.Pike, rules.Cancel, rules.Cancel},
		{rules.Horse, rules.Bow, rules.MoverDies, rules.Cancel},
		{rules.Bow, rules.Axe, rules.None, rules.Cancel},
		{rules.Wall, rules.Axe, rules.None, rules.Cancel},
	} {
		if got := rules.ActiveOutcome(tc.mover, tc.other); got != tc.active {
			t.Errorf("ActiveOutcome(%s, %s): want %s, got %s", tc.mover, tc.other, tc.active, got)
		}
		if got := rules.IdleOutcome(tc.mover, tc.other); got != tc.idle {
			t.Errorf("IdleOutcome(%s, %s): want %s, got %s", tc.mover, tc.other, tc.idle, got)
		}
	}
}
