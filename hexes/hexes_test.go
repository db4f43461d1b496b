// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hexes_test

import (
	"testing"

	"github.com/mdhender/hexclash/hexes"
)

func TestDistance(t *testing.T) {
	for _, tc := range []struct {
		a, b hexes.Coord
		want int
	}{
		{hexes.Coord{0, 0}, hexes.Coord{0, 0}, 0},
		{hexes.Coord{0, 0}, hexes.Coord{1, 0}, 1},
		{hexes.Coord{0, 0}, hexes.Coord{1, -1}, 1},
		{hexes.Coord{0, 0}, hexes.Coord{2, 2}, 4},
		{hexes.Coord{-1, 3}, hexes.Coord{2, -1}, 4},
		{hexes.Coord{3, -3}, hexes.Coord{-3, 3}, 6},
	} {
		if got := hexes.Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%v, %v): want %d, got %d", tc.a, tc.b, tc.want, got)
		}
		if got := hexes.Distance(tc.b, tc.a); got != tc.want {
			t.Errorf("Distance(%v, %v): want %d, got %d", tc.b, tc.a, tc.want, got)
		}
	}
}

func TestNeighborsAreAdjacentAndReversible(t *testing.T) {
	origin := hexes.Coord{Q: 2, Z: -1}
	for _, d := range hexes.Directions {
		n := origin.Neighbor(d)
		if !hexes.IsAdjacent(origin, n) {
			t.Errorf("%s: neighbor %v not adjacent to %v", d, n, origin)
		}
		if back := n.Neighbor(d.Opposite()); back != origin {
			t.Errorf("%s: opposite step: want %v, got %v", d, origin, back)
		}
		if got, ok := hexes.DirectionTo(origin, n); !ok || got != d {
			t.Errorf("DirectionTo: want %s, got %s (ok=%v)", d, got, ok)
		}
	}
	if _, ok := hexes.DirectionTo(origin, hexes.Coord{Q: 9, Z: 9}); ok {
		t.Errorf("DirectionTo: want !ok for distant coordinate")
	}
}

func TestWithinRange(t *testing.T) {
	center := hexes.Coord{Q: 1, Z: 1}
	for n, want := range []int{1, 7, 19, 37} {
		got := hexes.WithinRange(center, n)
		if len(got) != want {
			t.Errorf("WithinRange(%d): want %d cells, got %d", n, want, len(got))
		}
		for _, c := range got {
			if d := hexes.Distance(center, c); d > n {
				t.Errorf("WithinRange(%d): %v at distance %d", n, c, d)
			}
		}
	}
	if got := hexes.WithinRange(center, -1); got != nil {
		t.Errorf("WithinRange(-1): want nil, got %v", got)
	}
}

func TestLine(t *testing.T) {
	a, b := hexes.Coord{Q: 0, Z: 0}, hexes.Coord{Q: 3, Z: -1}
	line := hexes.Line(a, b)
	if len(line) != hexes.Distance(a, b)+1 {
		t.Fatalf("Line: want %d cells, got %d", hexes.Distance(a, b)+1, len(line))
	}
	if line[0] != a || line[len(line)-1] != b {
		t.Fatalf("Line: endpoints: got %v .. %v", line[0], line[len(line)-1])
	}
	for i := 1; i < len(line); i++ {
		if !hexes.IsAdjacent(line[i-1], line[i]) {
			t.Errorf("Line: %v and %v not adjacent", line[i-1], line[i])
		}
	}
}

func TestRay(t *testing.T) {
	ray := hexes.Ray(hexes.Coord{}, hexes.East, 3)
	want := []hexes.Coord{{1, 0}, {2, 0}, {3, 0}}
	if len(ray) != len(want) {
		t.Fatalf("Ray: want %v, got %v", want, ray)
	}
	for i := range want {
		if ray[i] != want[i] {
			t.Errorf("Ray[%d]: want %v, got %v", i, want[i], ray[i])
		}
	}
}

func TestOffsetMatchesNeighbor(t *testing.T) {
	origin := hexes.Coord{Q: -2, Z: 3}
	for _, d := range hexes.Directions {
		if got, want := origin.Add(d.Offset()), origin.Neighbor(d); got != want {
			t.Errorf("%s: offset step: want %v, got %v", d, want, got)
		}
	}
	if got := hexes.FromHex(origin.Hex()); got != origin {
		t.Errorf("hex round trip: want %v, got %v", origin, got)
	}
	if got := origin.S(); got != -1 {
		t.Errorf("S: want -1, got %d", got)
	}
}

func TestWithinRangeIsOrdered(t *testing.T) {
	got := hexes.WithinRange(hexes.Coord{}, 2)
	for i := 1; i < len(got); i++ {
		a, b := got[i-1], got[i]
		if a.Q > b.Q || (a.Q == b.Q && a.Z >= b.Z) {
			t.Errorf("WithinRange: %v before %v", a, b)
		}
	}
}
