package sokoban

import "github.com/vovakirdan/puzzlebox/internal/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateLevelWon    GameStateType = "level_won"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for tests and the web API.
type Snapshot struct {
	Tick         uint64        `json:"tick"`
	Level        int           `json:"level"`
	LevelCount   int           `json:"level_count"`
	LevelID      string        `json:"level_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Rows         []string      `json:"rows"`
	Player       core.Point    `json:"player"`
	Boxes        []core.Point  `json:"boxes"`
	Targets      []core.Point  `json:"targets"`
	Moves        int           `json:"moves"`
	OnTarget     int           `json:"on_target"`
	Won          bool          `json:"won"`
	Completed    []int         `json:"completed"`
	AllCompleted bool          `json:"all_completed"`
	State        GameStateType `json:"state"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateLevelWon
	case g.paused:
		state = StatePaused
	}

	lvl := g.board.Level()
	return Snapshot{
		Tick:         g.tick,
		Level:        g.LevelNumber(),
		LevelCount:   len(g.levels),
		LevelID:      lvl.ID,
		Name:         lvl.Name,
		Description:  lvl.Description,
		Rows:         g.board.Rows(),
		Player:       g.board.Player(),
		Boxes:        g.board.Boxes(),
		Targets:      append([]core.Point(nil), lvl.Targets...),
		Moves:        g.board.Moves(),
		OnTarget:     g.board.BoxesOnTarget(),
		Won:          g.won,
		Completed:    g.Completed(),
		AllCompleted: g.AllCompleted(),
		State:        state,
	}
}
