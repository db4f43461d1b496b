// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package board

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mdhender/hexclash/hexes"
	"github.com/spf13/afero"
)

// MapFormatVersion is the newest map format this package reads and the one it writes.
//
//	version 1: terrain, explorable flag and edges
//	version 2: adds elevation
const MapFormatVersion = 2

// MaxMapDimension bounds the width and height a map file may declare.
const MaxMapDimension = 256

var (
	ErrUnsupportedVersion = errors.New("unsupported map format version")
	ErrCorruptMap         = errors.New("corrupt map")
)

// WriteMap encodes the grid in the current map format.
func WriteMap(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	header := []int32{MapFormatVersion, int32(g.width), int32(g.height), int32(len(g.cells))}
	if err := binary.Write(bw, binary.BigEndian, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range g.Coords() {
		cell := g.cells[c]
		rec := cellRecord{
			Q:         int32(c.Q),
			Z:         int32(c.Z),
			Terrain:   uint8(cell.Terrain),
			Elevation: int16(cell.Elevation),
		}
		if cell.Explorable {
			rec.Explorable = 1
		}
		for d, e := range cell.Edges {
			rec.Edges[d] = uint8(e)
		}
		if err := binary.Write(bw, binary.BigEndian, rec); err != nil {
			return fmt.Errorf("write cell %s: %w", c, err)
		}
	}
	return bw.Flush()
}

// ReadMap decodes a map. The result is a new grid; nothing is shared with any
// existing board, so a failed read never leaves a partially applied map behind.
// Headers newer than MapFormatVersion are rejected with a warning.
func ReadMap(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)
	var version int32
	if err := binary.Read(br, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version > MapFormatVersion {
		log.Printf("warning: map format version %d is newer than supported version %d\n", version, MapFormatVersion)
		return nil, fmt.Errorf("%w: %d > %d", ErrUnsupportedVersion, version, MapFormatVersion)
	} else if version < 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var dims [3]int32
	if err := binary.Read(br, binary.BigEndian, &dims); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	width, height, count := int(dims[0]), int(dims[1]), int(dims[2])
	if width <= 0 || height <= 0 || width > MaxMapDimension || height > MaxMapDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrCorruptMap, width, height)
	} else if count < 0 || count > width*height {
		return nil, fmt.Errorf("%w: dimensions %dx%d with %d cells", ErrCorruptMap, width, height, count)
	}

	// the map grows as cells are read; the header's count is not trusted for sizing
	g := &Grid{width: width, height: height, cells: make(map[hexes.Coord]*Cell)}
	for i := 0; i < count; i++ {
		cell, err := readCell(br, version)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if cell.Coord.Q < 0 || cell.Coord.Q >= width || cell.Coord.Z < 0 || cell.Coord.Z >= height {
			return nil, fmt.Errorf("%w: cell %s out of bounds", ErrCorruptMap, cell.Coord)
		}
		g.cells[cell.Coord] = cell
	}
	return g, nil
}

// cellRecord is the version 2 on-disk layout of a cell.
type cellRecord struct {
	Q, Z       int32
	Terrain    uint8
	Elevation  int16
	Explorable uint8
	Edges      [6]uint8
}

// cellRecordV1 has no elevation.
type cellRecordV1 struct {
	Q, Z       int32
	Terrain    uint8
	Explorable uint8
	Edges      [6]uint8
}

func readCell(r io.Reader, version int32) (*Cell, error) {
	var rec cellRecord
	if version == 1 {
		var v1 cellRecordV1
		if err := binary.Read(r, binary.BigEndian, &v1); err != nil {
			return nil, err
		}
		rec = cellRecord{Q: v1.Q, Z: v1.Z, Terrain: v1.Terrain, Explorable: v1.Explorable, Edges: v1.Edges}
	} else if err := binary.Read(r, binary.BigEndian, &rec); err != nil {
		return nil, err
	}
	if Terrain(rec.Terrain) > Water {
		return nil, fmt.Errorf("%w: terrain %d", ErrCorruptMap, rec.Terrain)
	}
	cell := &Cell{
		Coord:      hexes.Coord{Q: int(rec.Q), Z: int(rec.Z)},
		Terrain:    Terrain(rec.Terrain),
		Elevation:  int(rec.Elevation),
		Explorable: rec.Explorable != 0,
	}
	for d, e := range rec.Edges {
		if EdgeKind(e) > Cliff {
			return nil, fmt.Errorf("%w: edge %d", ErrCorruptMap, e)
		}
		cell.Edges[d] = EdgeKind(e)
	}
	return cell, nil
}

// SaveMap writes the grid to path on fs.
func SaveMap(fs afero.Fs, path string, g *Grid) error {
	fd, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteMap(fd, g); err != nil {
		_ = fd.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fd.Close()
}

// LoadMap reads a grid from path on fs.
func LoadMap(fs afero.Fs, path string) (*Grid, error) {
	fd, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fd.Close()
	g, err := ReadMap(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
