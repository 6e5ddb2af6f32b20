package t2048

import (
	"math/rand"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// vector returns the unit step (dRow, dCol) for the direction.
func (d Direction) vector() (dRow, dCol int, ok bool) {
	switch d {
	case DirUp:
		return -1, 0, true
	case DirDown:
		return 1, 0, true
	case DirLeft:
		return 0, -1, true
	case DirRight:
		return 0, 1, true
	default:
		return 0, 0, false
	}
}

// Status classifies a session after a move-and-spawn cycle.
type Status int

const (
	StatusOngoing Status = iota
	StatusWon
	StatusStuck
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusWon:
		return "won"
	case StatusStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// MoveResult describes the outcome of the most recent Move call.
type MoveResult struct {
	Moved      bool `json:"moved"`       // Any tile changed position or value
	ScoreDelta int  `json:"score_delta"` // Sum of merged tile values produced by the move
	ReachedWin bool `json:"reached_win"` // A merge produced the win value for the first time
}

// DefaultSpawn4 is the probability that a spawned tile is a 4.
const DefaultSpawn4 = 0.10

// Engine owns a grid and the session state around it: score, best score,
// won and game-over flags. All mutation goes through Move, AddRandomTile,
// CheckTerminalState and Reset.
//
// Engine is not safe for concurrent use.
type Engine struct {
	grid   Grid
	merged [BoardSize][BoardSize]bool // Merge targets of the current move

	score    int
	best     int
	won      bool
	gameOver bool
	last     MoveResult

	winValue int
	spawn4   float64
	rng      *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithWinValue sets the tile value that wins the session.
func WithWinValue(v int) Option {
	return func(e *Engine) {
		if v > 0 {
			e.winValue = v
		}
	}
}

// WithSpawn4 sets the probability that a spawned tile is a 4.
func WithSpawn4(p float64) Option {
	return func(e *Engine) {
		if p >= 0 && p <= 1 {
			e.spawn4 = p
		}
	}
}

// NewEngine creates an engine with an empty grid drawing randomness from rng.
// Call Reset to seed the opening tiles.
func NewEngine(rng *rand.Rand, opts ...Option) *Engine {
	e := &Engine{
		winValue: WinValue,
		spawn4:   DefaultSpawn4,
		rng:      rng,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset empties the grid, clears score and flags, and seeds two random tiles.
// The best score is kept.
func (e *Engine) Reset() {
	e.grid = Grid{}
	e.score = 0
	e.won = false
	e.gameOver = false
	e.last = MoveResult{}

	e.AddRandomTile()
	e.AddRandomTile()
}

// Move slides every tile in the given direction, merging equal neighbours
// at most once per tile, and reports whether the grid changed.
// Tiles farthest in the move direction are processed first, so a tile
// never passes over one that has not settled yet.
// Move does not check the game-over flag; callers decide whether to call it.
func (e *Engine) Move(dir Direction) bool {
	e.last = MoveResult{}

	dRow, dCol, ok := dir.vector()
	if !ok {
		return false
	}

	e.merged = [BoardSize][BoardSize]bool{}
	rows := buildTraversal(dRow)
	cols := buildTraversal(dCol)

	for _, r := range rows {
		for _, c := range cols {
			src := Cell{Row: r, Col: c}
			val := e.grid.at(src)
			if val == 0 {
				continue
			}

			farthest, next := e.findFarthestPosition(src, dRow, dCol)

			if next.inBounds() && e.grid.at(next) == val && !e.merged[next.Row][next.Col] {
				e.mergeInto(src, next, val)
				continue
			}

			if farthest != src {
				e.grid.set(farthest, val)
				e.grid.set(src, 0)
				e.last.Moved = true
			}
		}
	}

	if e.score > e.best {
		e.best = e.score
	}
	return e.last.Moved
}

// mergeInto combines the tile at src into the equal tile at dst.
func (e *Engine) mergeInto(src, dst Cell, val int) {
	merged := val * 2
	e.grid.set(dst, merged)
	e.grid.set(src, 0)
	e.merged[dst.Row][dst.Col] = true

	e.score += merged
	e.last.ScoreDelta += merged
	e.last.Moved = true

	if merged == e.winValue && !e.won {
		e.won = true
		e.last.ReachedWin = true
	}
}

// buildTraversal returns axis indices ordered so the cells farthest along
// a positive step come first.
func buildTraversal(step int) [BoardSize]int {
	var order [BoardSize]int
	for i := range BoardSize {
		if step == 1 {
			order[i] = BoardSize - 1 - i
		} else {
			order[i] = i
		}
	}
	return order
}

// findFarthestPosition walks from src along the step vector over empty
// cells. It returns the last empty cell reached (src itself if blocked
// immediately) and the cell just beyond it, which is either off the grid
// or occupied.
func (e *Engine) findFarthestPosition(src Cell, dRow, dCol int) (farthest, next Cell) {
	farthest = src
	next = Cell{Row: src.Row + dRow, Col: src.Col + dCol}
	for next.inBounds() && e.grid.at(next) == 0 {
		farthest = next
		next = Cell{Row: next.Row + dRow, Col: next.Col + dCol}
	}
	return farthest, next
}

// AddRandomTile places a 2 (or a 4, with the spawn4 probability) in a
// uniformly chosen empty cell. On a full grid it does nothing and returns
// false.
func (e *Engine) AddRandomTile() (Tile, bool) {
	empty := e.grid.EmptyCells()
	if len(empty) == 0 {
		return Tile{}, false
	}

	cell := empty[e.rng.Intn(len(empty))]

	value := 2
	if e.rng.Float64() < e.spawn4 {
		value = 4
	}

	e.grid.set(cell, value)
	return Tile{Cell: cell, Value: value}, true
}

// CheckTerminalState classifies the session. WON and STUCK both set the
// sticky game-over flag.
func (e *Engine) CheckTerminalState() Status {
	if e.won {
		e.gameOver = true
		return StatusWon
	}
	if e.grid.HasEmptyCell() || e.grid.HasPossibleMerge() {
		return StatusOngoing
	}
	e.gameOver = true
	return StatusStuck
}

// Grid returns a copy of the current grid.
func (e *Engine) Grid() Grid {
	return e.grid
}

// Score returns the current session score.
func (e *Engine) Score() int {
	return e.score
}

// BestScore returns the best score seen, including the current session.
func (e *Engine) BestScore() int {
	return e.best
}

// SetBestScore raises the best score, typically from persisted storage.
// Lower values are ignored.
func (e *Engine) SetBestScore(best int) {
	if best > e.best {
		e.best = best
	}
}

// Won reports whether a merge has reached the win value this session.
func (e *Engine) Won() bool {
	return e.won
}

// GameOver reports whether the session has ended.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// LastMove returns the outcome of the most recent Move call.
func (e *Engine) LastMove() MoveResult {
	return e.last
}

// WinValue returns the tile value that wins the session.
func (e *Engine) WinValue() int {
	return e.winValue
}
