package t2048

import (
	"math/rand"

	"github.com/vovakirdan/puzzlebox/internal/config"
	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/registry"
)

// GameID is the registry identifier of the 2048 game.
const GameID = "2048"

// Package-level rules, set by the CLI from the loaded config before games are created.
var rules = config.Default().T2048

// Configure sets the rules used by games created afterwards.
func Configure(cfg config.T2048Config) {
	rules = cfg
}

// Game hosts an Engine on the platform: it maps directional input to moves,
// runs the spawn and terminal check after every successful move, and
// renders the grid.
type Game struct {
	engine *Engine
	tick   uint64
	status Status
	moves  int

	lastSpawn *Tile // Tile spawned by the latest move, highlighted when rendering

	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

// New creates a new 2048 game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "2048"
}

// Reset starts a new session with a fresh grid.
// The best score survives resets of the same Game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	best := 0
	if g.engine != nil {
		best = g.engine.BestScore()
	}

	g.engine = NewEngine(
		rand.New(rand.NewSource(cfg.Seed)),
		WithWinValue(rules.WinValue),
		WithSpawn4(rules.Spawn4),
	)
	g.engine.SetBestScore(best)
	g.engine.Reset()

	g.tick = 0
	g.moves = 0
	g.status = StatusOngoing
	g.lastSpawn = nil
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.checkScreenSize()
}

// SetBestScore seeds the best score from persisted storage.
func (g *Game) SetBestScore(best int) {
	if g.engine != nil {
		g.engine.SetBestScore(best)
	}
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Resize adapts to a new screen size without restarting the session.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	// Board (4*7+1 wide, 4*3+1 tall) + HUD (3 lines) + footer
	minW := boardWidth + 2
	minH := boardHeight + hudHeight + 2
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
	if g.paused || g.engine.GameOver() {
		return core.StepResult{State: g.State()}
	}

	dir, ok := directionFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	moved := g.Apply(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

// Apply runs one full move cycle: move, spawn on success, terminal check.
// It is a no-op once the session is over.
func (g *Game) Apply(dir Direction) bool {
	if g.engine.GameOver() {
		return false
	}

	if !g.engine.Move(dir) {
		// Board didn't change - don't spawn a new tile
		return false
	}
	g.moves++

	g.lastSpawn = nil
	if tile, ok := g.engine.AddRandomTile(); ok {
		g.lastSpawn = &tile
	}

	g.status = g.engine.CheckTerminalState()
	return true
}

// directionFor returns the first directional action present in the frame.
func directionFor(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// ParseDirection converts a core directional action into a Direction.
func ParseDirection(a core.Action) (Direction, bool) {
	return directionFor(core.FrameOf(a))
}

// Status returns the terminal classification from the latest move cycle.
func (g *Game) Status() Status {
	return g.status
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.engine.Score(),
		GameOver: g.engine.GameOver(),
		Won:      g.status == StatusWon,
		Paused:   g.paused || g.tooSmall,
	}
}
