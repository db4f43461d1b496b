// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package board

import (
	"math/rand/v2"

	"github.com/mdhender/hexclash/hexes"
)

// GenerateConfig controls random map generation.
type GenerateConfig struct {
	Width, Height int
	Seed          uint64

	// MaxElevation is the highest elevation a cell may have.
	MaxElevation int
	// WaterPercent is the chance (0-100) that a lowland cell is water.
	WaterPercent int
	// ForestPercent is the chance (0-100) that a lowland cell is forest.
	ForestPercent int
	// SmoothingPasses averages each cell's elevation with its neighbors.
	SmoothingPasses int
}

// DefaultGenerateConfig returns the settings used by the map command.
func DefaultGenerateConfig(width, height int, seed uint64) GenerateConfig {
	return GenerateConfig{
		Width:           width,
		Height:          height,
		Seed:            seed,
		MaxElevation:    3,
		WaterPercent:    6,
		ForestPercent:   20,
		SmoothingPasses: 2,
	}
}

// Generate builds a deterministic map for the given seed.
// Edge kinds follow the elevation step between neighbors: 0 is flat,
// 1 is a slope and anything steeper is a cliff. Water is not explorable.
func Generate(cfg GenerateConfig) *Grid {
	g := New(cfg.Width, cfg.Height)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	coords := g.Coords()

	elevation := make(map[hexes.Coord]int, len(coords))
	for _, c := range coords {
		elevation[c] = rng.IntN(cfg.MaxElevation + 1)
	}
	for pass := 0; pass < cfg.SmoothingPasses; pass++ {
		next := make(map[hexes.Coord]int, len(coords))
		for _, c := range coords {
			sum, n := elevation[c], 1
			for _, d := range hexes.Directions {
				if e, ok := elevation[c.Neighbor(d)]; ok {
					sum, n = sum+e, n+1
				}
			}
			next[c] = (sum + n/2) / n
		}
		elevation = next
	}

	for _, c := range coords {
		cell := g.cells[c]
		cell.Elevation = elevation[c]
		switch {
		case cell.Elevation >= cfg.MaxElevation && cfg.MaxElevation > 1:
			cell.Terrain = Mountain
		case cell.Elevation >= 2:
			cell.Terrain = Hill
		case rng.IntN(100) < cfg.WaterPercent:
			cell.Terrain, cell.Explorable = Water, false
		case rng.IntN(100) < cfg.ForestPercent:
			cell.Terrain = Forest
		default:
			cell.Terrain = Plain
		}
	}

	DeriveEdges(g)
	return g
}

// DeriveEdges classifies every edge from the elevation step across it.
func DeriveEdges(g *Grid) {
	for _, cell := range g.cells {
		for _, d := range hexes.Directions {
			n := g.cells[cell.Coord.Neighbor(d)]
			if n == nil {
				cell.Edges[d] = Flat
				continue
			}
			switch step := abs(cell.Elevation - n.Elevation); {
			case step == 0:
				cell.Edges[d] = Flat
			case step == 1:
				cell.Edges[d] = Slope
			default:
				cell.Edges[d] = Cliff
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
