// Package sokoban implements a box-pushing puzzle: levels parsed from
// ASCII layouts, a board that moves the player and pushes boxes, and the
// registry adapter that hosts it.
package sokoban

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/puzzlebox/internal/core"
)

// Layout characters.
const (
	charWall   = 'W'
	charPlayer = 'P'
	charBox    = 'B'
	charTarget = 'T'
	charFloor  = ' '
)

// ErrInvalidLayout is returned when a level layout cannot be played.
var ErrInvalidLayout = errors.New("sokoban: invalid layout")

// Terrain is the static content of a level cell.
type Terrain uint8

const (
	TerrainVoid  Terrain = iota // Outside a ragged row; blocks like a wall
	TerrainFloor                // Walkable cell
	TerrainWall                 // Wall
)

// Level is a parsed, immutable level definition.
type Level struct {
	ID          string
	Name        string
	Description string
	Layout      []string

	Width  int
	Height int

	terrain [][]Terrain
	Player  core.Point
	Boxes   []core.Point
	Targets []core.Point
}

// ParseLevel builds a level from an ASCII layout. Rows may differ in
// length; the width is the longest row and missing cells are void.
func ParseLevel(id, name, description string, layout []string) (Level, error) {
	if len(layout) == 0 {
		return Level{}, fmt.Errorf("%w: level %q has no rows", ErrInvalidLayout, id)
	}

	lvl := Level{
		ID:          id,
		Name:        name,
		Description: description,
		Layout:      append([]string(nil), layout...),
		Height:      len(layout),
	}
	for _, row := range layout {
		lvl.Width = max(lvl.Width, len([]rune(row)))
	}

	players := 0
	lvl.terrain = make([][]Terrain, lvl.Height)
	for y, row := range layout {
		lvl.terrain[y] = make([]Terrain, lvl.Width)
		for x, ch := range []rune(row) {
			p := core.P(x, y)
			switch ch {
			case charWall:
				lvl.terrain[y][x] = TerrainWall
			case charPlayer:
				lvl.terrain[y][x] = TerrainFloor
				lvl.Player = p
				players++
			case charBox:
				lvl.terrain[y][x] = TerrainFloor
				lvl.Boxes = append(lvl.Boxes, p)
			case charTarget:
				lvl.terrain[y][x] = TerrainFloor
				lvl.Targets = append(lvl.Targets, p)
			case charFloor:
				lvl.terrain[y][x] = TerrainFloor
			default:
				return Level{}, fmt.Errorf("%w: level %q has unknown cell %q at (%d,%d)", ErrInvalidLayout, id, ch, x, y)
			}
		}
	}

	if players != 1 {
		return Level{}, fmt.Errorf("%w: level %q has %d players, want 1", ErrInvalidLayout, id, players)
	}
	if len(lvl.Boxes) > len(lvl.Targets) {
		return Level{}, fmt.Errorf("%w: level %q has %d boxes but only %d targets", ErrInvalidLayout, id, len(lvl.Boxes), len(lvl.Targets))
	}

	return lvl, nil
}

// TerrainAt returns the terrain at p. Cells outside the layout are void.
func (l *Level) TerrainAt(p core.Point) Terrain {
	if p.Y < 0 || p.Y >= l.Height || p.X < 0 || p.X >= l.Width {
		return TerrainVoid
	}
	return l.terrain[p.Y][p.X]
}

// Blocked reports whether p can never hold the player or a box.
func (l *Level) Blocked(p core.Point) bool {
	return l.TerrainAt(p) != TerrainFloor
}

// IsTarget reports whether p is a target cell.
func (l *Level) IsTarget(p core.Point) bool {
	for _, t := range l.Targets {
		if t == p {
			return true
		}
	}
	return false
}
