package sokoban

import (
	"sort"

	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/registry"
)

// GameID is the registry identifier of the Sokoban game.
const GameID = "sokoban"

// ProgressStore persists the set of completed level numbers (1-indexed).
type ProgressStore interface {
	MarkLevelCompleted(level int) error
	CompletedLevels() ([]int, error)
}

// Package-level variables for configuration
var (
	selectedStartLevel int
)

// SetStartLevel sets the starting level (1-indexed). 0 means start from the first level.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// Game hosts a Board on the platform and walks through the level set.
type Game struct {
	levels []Level
	index  int
	board  *Board

	completed map[int]bool
	store     ProgressStore
	storeErr  error

	tick    uint64
	won     bool
	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// New creates a new Sokoban game.
func New() *Game {
	return &Game{
		completed: make(map[int]bool),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Sokoban"
}

// SetProgressStore attaches persistent progress and loads the completed set.
func (g *Game) SetProgressStore(store ProgressStore) error {
	g.store = store
	if store == nil {
		return nil
	}

	levels, err := store.CompletedLevels()
	if err != nil {
		return err
	}
	for _, n := range levels {
		g.completed[n] = true
	}
	return nil
}

// Reset loads the active level set and starts the selected level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.levels = Levels()
	g.tick = 0
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.index = 0
	if selectedStartLevel > 0 && selectedStartLevel <= len(g.levels) {
		g.index = selectedStartLevel - 1
	}
	g.loadLevel(g.index)
}

// loadLevel starts a fresh attempt at the level with the given index.
func (g *Game) loadLevel(index int) {
	g.index = index
	g.board = NewBoard(&g.levels[index])
	g.won = g.board.IsWon()
	if g.won {
		g.markCompleted()
	}
	g.checkScreenSize()
}

// Resize adapts to a new screen size without restarting the level.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	lvl := g.board.Level()
	minW := max(lvl.Width*cellWidth, 40)
	minH := lvl.Height + hudHeight + 3
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step processes one tick of input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.RestartLevel()
		return core.StepResult{State: g.State()}
	}

	if g.won {
		if in.Has(core.ActionConfirm) {
			g.NextLevel()
		}
		return core.StepResult{State: g.State()}
	}

	dx, dy, ok := delta(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	moved := g.Move(dx, dy)
	return core.StepResult{State: g.State(), Moved: moved}
}

// Move moves the player and records a completed level on a win.
// Moves are ignored once the level is won.
func (g *Game) Move(dx, dy int) bool {
	if g.won {
		return false
	}
	if !g.board.MovePlayer(dx, dy) {
		return false
	}
	if g.board.IsWon() {
		g.won = true
		g.markCompleted()
	}
	return true
}

// RestartLevel starts the current level over.
func (g *Game) RestartLevel() {
	g.loadLevel(g.index)
}

// NextLevel advances to the following level, wrapping to the first.
func (g *Game) NextLevel() {
	g.loadLevel((g.index + 1) % len(g.levels))
}

// SelectLevel jumps to a level (1-indexed). Out-of-range values are ignored.
func (g *Game) SelectLevel(level int) bool {
	if level < 1 || level > len(g.levels) {
		return false
	}
	g.loadLevel(level - 1)
	return true
}

func (g *Game) markCompleted() {
	n := g.index + 1
	g.completed[n] = true
	if g.store != nil {
		g.storeErr = g.store.MarkLevelCompleted(n)
	}
}

// delta returns the first directional action present in the frame as a step.
func delta(in core.InputFrame) (dx, dy int, ok bool) {
	switch {
	case in.Has(core.ActionUp):
		return 0, -1, true
	case in.Has(core.ActionDown):
		return 0, 1, true
	case in.Has(core.ActionLeft):
		return -1, 0, true
	case in.Has(core.ActionRight):
		return 1, 0, true
	}
	return 0, 0, false
}

// Board returns the current level attempt.
func (g *Game) Board() *Board {
	return g.board
}

// LevelNumber returns the current level (1-indexed).
func (g *Game) LevelNumber() int {
	return g.index + 1
}

// Won reports whether the current level is solved.
func (g *Game) Won() bool {
	return g.won
}

// Completed returns the completed level numbers in ascending order.
func (g *Game) Completed() []int {
	levels := make([]int, 0, len(g.completed))
	for n := range g.completed {
		levels = append(levels, n)
	}
	sort.Ints(levels)
	return levels
}

// AllCompleted reports whether every level in the set has been solved.
func (g *Game) AllCompleted() bool {
	for i := range g.levels {
		if !g.completed[i+1] {
			return false
		}
	}
	return len(g.levels) > 0
}

// StoreErr returns the last error from the progress store, if any.
func (g *Game) StoreErr() error {
	return g.storeErr
}

// State returns the current game state. A level session never ends on its
// own, so GameOver stays false; the score is the move count.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:  g.board.Moves(),
		Won:    g.won,
		Paused: g.paused || g.tooSmall,
	}
}
