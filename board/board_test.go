// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package board_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mdhender/hexclash/board"
	"github.com/mdhender/hexclash/hexes"
	"github.com/spf13/afero"
)

func TestGridQueries(t *testing.T) {
	g := board.New(4, 3)
	if got, want := g.Len(), 12; got != want {
		t.Fatalf("Len: want %d, got %d", want, got)
	}
	origin := g.CellAt(hexes.Coord{Q: 0, Z: 0})
	if origin == nil {
		t.Fatalf("CellAt(0,0): want cell, got nil")
	}
	if g.CellAt(hexes.Coord{Q: -1, Z: 0}) != nil {
		t.Errorf("CellAt(-1,0): want nil")
	}
	if n := g.NeighborOf(origin, hexes.East); n == nil || n.Coord != (hexes.Coord{Q: 1, Z: 0}) {
		t.Errorf("NeighborOf(E): got %+v", n)
	}
	if n := g.NeighborOf(origin, hexes.West); n != nil {
		t.Errorf("NeighborOf(W): want nil off the board, got %+v", n)
	}
	if got := g.Distance(hexes.Coord{Q: 0, Z: 0}, hexes.Coord{Q: 3, Z: 2}); got != 5 {
		t.Errorf("Distance: want 5, got %d", got)
	}
}

func TestSetEdgeMirrorsNeighbor(t *testing.T) {
	g := board.New(3, 3)
	a := hexes.Coord{Q: 1, Z: 1}
	b := a.Neighbor(hexes.NorthEast)
	g.SetEdge(a, hexes.NorthEast, board.Cliff)
	if kind, ok := g.EdgeType(a, b); !ok || kind != board.Cliff {
		t.Errorf("EdgeType(a,b): want cliff, got %s (ok=%v)", kind, ok)
	}
	if kind, ok := g.EdgeType(b, a); !ok || kind != board.Cliff {
		t.Errorf("EdgeType(b,a): want cliff, got %s (ok=%v)", kind, ok)
	}
	if _, ok := g.EdgeType(a, hexes.Coord{Q: 2, Z: 2}); ok {
		t.Errorf("EdgeType: want !ok for non-adjacent cells")
	}
}

func TestOccupancy(t *testing.T) {
	g := board.New(2, 2)
	c := hexes.Coord{Q: 1, Z: 1}
	g.Occupy(c, 7)
	if got := g.OccupantAt(c); got != 7 {
		t.Fatalf("OccupantAt: want 7, got %d", got)
	}
	g.Release(c, 8)
	if got := g.OccupantAt(c); got != 7 {
		t.Errorf("Release by non-occupant: want 7 to remain, got %d", got)
	}
	g.Release(c, 7)
	if g.CellAt(c).IsOccupied() {
		t.Errorf("Release: want empty cell")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := board.Generate(board.DefaultGenerateConfig(8, 6, 42))
	b := board.Generate(board.DefaultGenerateConfig(8, 6, 42))
	for _, c := range a.Coords() {
		ca, cb := a.CellAt(c), b.CellAt(c)
		if *ca != *cb {
			t.Fatalf("cell %s differs between runs: %+v vs %+v", c, ca, cb)
		}
		if ca.Terrain == board.Water && ca.Explorable {
			t.Errorf("cell %s: water must not be explorable", c)
		}
		for _, d := range hexes.Directions {
			n := a.CellAt(c.Neighbor(d))
			if n == nil {
				continue
			}
			if n.Edges[d.Opposite()] != ca.Edges[d] {
				t.Errorf("cell %s %s: edge %s, neighbor says %s", c, d, ca.Edges[d], n.Edges[d.Opposite()])
			}
		}
	}
}

func TestMapRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := board.Generate(board.DefaultGenerateConfig(5, 4, 7))
	if err := board.SaveMap(fs, "skirmish.map", g); err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	got, err := board.LoadMap(fs, "skirmish.map")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got.Width() != 5 || got.Height() != 4 || got.Len() != g.Len() {
		t.Fatalf("LoadMap: want 5x4 with %d cells, got %dx%d with %d", g.Len(), got.Width(), got.Height(), got.Len())
	}
	for _, c := range g.Coords() {
		if *got.CellAt(c) != *g.CellAt(c) {
			t.Errorf("cell %s: want %+v, got %+v", c, g.CellAt(c), got.CellAt(c))
		}
	}
}

func TestReadMapVersion1HasNoElevation(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, []int32{1, 1, 1, 1})
	_ = binary.Write(&buf, binary.BigEndian, struct {
		Q, Z       int32
		Terrain    uint8
		Explorable uint8
		Edges      [6]uint8
	}{Q: 0, Z: 0, Terrain: uint8(board.Forest), Explorable: 1, Edges: [6]uint8{0, 1, 2, 0, 0, 0}})

	g, err := board.ReadMap(&buf)
	if err != nil {
		t.Fatalf("ReadMap: %v", err)
	}
	cell := g.CellAt(hexes.Coord{})
	if cell == nil || cell.Terrain != board.Forest || !cell.Explorable || cell.Elevation != 0 {
		t.Fatalf("ReadMap v1: got %+v", cell)
	}
	if cell.Edges[hexes.NorthWest] != board.Cliff {
		t.Errorf("ReadMap v1: edge NW: want cliff, got %s", cell.Edges[hexes.NorthWest])
	}
}

func TestLoadMapRejectsNewerVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, []int32{board.MapFormatVersion + 1, 2, 2, 0})
	if err := afero.WriteFile(fs, "future.map", buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	g, err := board.LoadMap(fs, "future.map")
	if !errors.Is(err, board.ErrUnsupportedVersion) {
		t.Fatalf("LoadMap: want ErrUnsupportedVersion, got %v", err)
	}
	if g != nil {
		t.Errorf("LoadMap: want nil grid on failure")
	}
}

func TestReadMapRejectsTruncatedInput(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, []int32{board.MapFormatVersion, 2, 2, 4})
	if _, err := board.ReadMap(&buf); err == nil {
		t.Fatalf("ReadMap: want error for missing cells")
	}
}

func TestReadMapRejectsOversizedHeader(t *testing.T) {
	for _, dims := range [][3]int32{
		{1 << 30, 1 << 30, 1<<31 - 1},
		{board.MaxMapDimension + 1, 1, 1},
		{1, board.MaxMapDimension + 1, 1},
		{4, 4, 17},
		{0, 4, 0},
	} {
		var buf bytes.Buffer
		_ = binary.Write(&buf, binary.BigEndian, []int32{board.MapFormatVersion, dims[0], dims[1], dims[2]})
		if _, err := board.ReadMap(&buf); !errors.Is(err, board.ErrCorruptMap) {
			t.Errorf("ReadMap %v: want ErrCorruptMap, got %v", dims, err)
		}
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, []int32{board.MapFormatVersion, board.MaxMapDimension, board.MaxMapDimension, 0})
	g, err := board.ReadMap(&buf)
	if err != nil {
		t.Fatalf("ReadMap at the size limit: %v", err)
	}
	if g.Width() != board.MaxMapDimension || g.Len() != 0 {
		t.Errorf("ReadMap at the size limit: got %dx%d with %d cells", g.Width(), g.Height(), g.Len())
	}
}
