// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hexes

import "github.com/maloquacious/hexg"

// Direction is one of the six hex sides, counter-clockwise from East.
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// Directions lists every direction in index order.
var Directions = [6]Direction{East, NorthEast, NorthWest, West, SouthWest, SouthEast}

var directionNames = [6]string{"E", "NE", "NW", "W", "SW", "SE"}

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	return (d.normalize() + 3) % 6
}

// Offset returns the axial delta for one step in direction d.
// Directions share hexg's numbering, so East is hexg direction 0.
func (d Direction) Offset() Coord {
	return FromHex(hexg.DirectionVector(int(d.normalize())))
}

func (d Direction) String() string {
	return directionNames[d.normalize()]
}

func (d Direction) normalize() Direction {
	d = d % 6
	if d < 0 {
		d += 6
	}
	return d
}
