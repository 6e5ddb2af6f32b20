package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateWin         GameStateType = "win"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing,
// replay and the web API.
type Snapshot struct {
	Tick      uint64        `json:"tick"`
	Moves     int           `json:"moves"`
	Score     int           `json:"score"`
	BestScore int           `json:"best_score"`
	Board     Grid          `json:"board"`
	MaxTile   int           `json:"max_tile"`
	WinValue  int           `json:"win_value"`
	Won       bool          `json:"won"`
	GameOver  bool          `json:"game_over"`
	State     GameStateType `json:"state"`
	LastMove  MoveResult    `json:"last_move"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.status == StatusWon:
		state = StateWin
	case g.engine.GameOver():
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	grid := g.engine.Grid()
	return Snapshot{
		Tick:      g.tick,
		Moves:     g.moves,
		Score:     g.engine.Score(),
		BestScore: g.engine.BestScore(),
		Board:     grid,
		MaxTile:   grid.MaxTile(),
		WinValue:  g.engine.WinValue(),
		Won:       g.engine.Won(),
		GameOver:  g.engine.GameOver(),
		State:     state,
		LastMove:  g.engine.LastMove(),
	}
}
