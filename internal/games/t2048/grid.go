// Package t2048 implements the 2048 sliding-tile puzzle: a move/merge
// engine over a 4x4 grid plus the registry adapter that hosts it.
package t2048

// BoardSize is the grid dimension.
const BoardSize = 4

// WinValue is the tile value that wins a session by default.
const WinValue = 2048

// Grid is a BoardSize x BoardSize matrix of tile values indexed [row][col].
// Zero is an empty cell; any other value is a power of two >= 2.
type Grid [BoardSize][BoardSize]int

// Cell is a grid position.
type Cell struct {
	Row, Col int
}

// Tile is a placed tile value.
type Tile struct {
	Cell
	Value int
}

// inBounds reports whether the cell lies on the grid.
func (c Cell) inBounds() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// at returns the value at the cell.
func (g *Grid) at(c Cell) int {
	return g[c.Row][c.Col]
}

// set stores a value at the cell.
func (g *Grid) set(c Cell, v int) {
	g[c.Row][c.Col] = v
}

// EmptyCells returns all empty cells in row-major order.
func (g Grid) EmptyCells() []Cell {
	var cells []Cell
	for r := range BoardSize {
		for c := range BoardSize {
			if g[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func (g Grid) HasEmptyCell() bool {
	for r := range BoardSize {
		for c := range BoardSize {
			if g[r][c] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any two adjacent tiles hold equal values.
// Only right and lower neighbours are compared; equality is symmetric so
// every adjacent pair is covered exactly once.
func (g Grid) HasPossibleMerge() bool {
	for r := range BoardSize {
		for c := range BoardSize {
			val := g[r][c]
			if val == 0 {
				continue
			}
			if c < BoardSize-1 && g[r][c+1] == val {
				return true
			}
			if r < BoardSize-1 && g[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move could change the grid.
func (g Grid) CanMove() bool {
	return g.HasEmptyCell() || g.HasPossibleMerge()
}

// MaxTile returns the maximum tile value on the grid.
func (g Grid) MaxTile() int {
	maxVal := 0
	for r := range BoardSize {
		for c := range BoardSize {
			maxVal = max(maxVal, g[r][c])
		}
	}
	return maxVal
}

// Occupied returns the number of non-empty cells.
func (g Grid) Occupied() int {
	n := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if g[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	total := 0
	for r := range BoardSize {
		for c := range BoardSize {
			total += g[r][c]
		}
	}
	return total
}
