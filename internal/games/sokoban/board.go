package sokoban

import "github.com/vovakirdan/puzzlebox/internal/core"

// Board is the mutable play state of one level attempt.
type Board struct {
	level  *Level
	player core.Point
	boxes  []core.Point
	moves  int
}

// NewBoard starts an attempt at the level.
func NewBoard(level *Level) *Board {
	b := &Board{level: level}
	b.Restart()
	return b
}

// Restart puts the player and boxes back at their starting cells.
func (b *Board) Restart() {
	b.player = b.level.Player
	b.boxes = append(b.boxes[:0], b.level.Boxes...)
	b.moves = 0
}

// MovePlayer steps the player by (dx, dy), pushing a box if one is in the
// way and the cell behind it is free. It returns whether the player moved.
func (b *Board) MovePlayer(dx, dy int) bool {
	next := b.player.Add(dx, dy)
	if b.level.Blocked(next) {
		return false
	}

	if i := b.boxIndex(next); i >= 0 {
		beyond := next.Add(dx, dy)
		if b.level.Blocked(beyond) || b.boxIndex(beyond) >= 0 {
			return false
		}
		b.boxes[i] = beyond
	}

	b.player = next
	b.moves++
	return true
}

// IsWon reports whether every box rests on a target.
func (b *Board) IsWon() bool {
	for _, box := range b.boxes {
		if !b.level.IsTarget(box) {
			return false
		}
	}
	return true
}

func (b *Board) boxIndex(p core.Point) int {
	for i, box := range b.boxes {
		if box == p {
			return i
		}
	}
	return -1
}

// HasBox reports whether a box occupies p.
func (b *Board) HasBox(p core.Point) bool {
	return b.boxIndex(p) >= 0
}

// BoxesOnTarget returns how many boxes rest on targets.
func (b *Board) BoxesOnTarget() int {
	n := 0
	for _, box := range b.boxes {
		if b.level.IsTarget(box) {
			n++
		}
	}
	return n
}

// Level returns the level being played.
func (b *Board) Level() *Level { return b.level }

// Player returns the player position.
func (b *Board) Player() core.Point { return b.player }

// Boxes returns a copy of the box positions.
func (b *Board) Boxes() []core.Point {
	return append([]core.Point(nil), b.boxes...)
}

// Moves returns the number of successful player moves.
func (b *Board) Moves() int { return b.moves }

// Rows renders the board as layout strings using the level characters.
// Boxes on targets and the player on a target are shown as the box and
// player respectively.
func (b *Board) Rows() []string {
	rows := make([]string, b.level.Height)
	for y := range b.level.Height {
		line := make([]rune, b.level.Width)
		for x := range b.level.Width {
			line[x] = b.cellRune(core.P(x, y))
		}
		rows[y] = string(line)
	}
	return rows
}

func (b *Board) cellRune(p core.Point) rune {
	switch {
	case p == b.player:
		return charPlayer
	case b.HasBox(p):
		return charBox
	case b.level.TerrainAt(p) == TerrainWall:
		return charWall
	case b.level.IsTarget(p):
		return charTarget
	default:
		return charFloor
	}
}
