package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/games/t2048"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 7}
}

func memStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// press sends a key followed by one tick, as the program loop would.
func press(t *testing.T, m GameModel, msg tea.KeyMsg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	next, _ = next.(GameModel).Update(TickMsg{})
	return next.(GameModel)
}

func TestGameModelSeedsBestScore(t *testing.T) {
	store := memStore(t)
	store.SaveScore(t2048.GameID, 512)

	game := t2048.New()
	m := NewGameModel(game, store, testConfig())
	m.Init()

	if got := game.Engine().BestScore(); got != 512 {
		t.Errorf("BestScore() = %d, want 512", got)
	}
}

func TestGameModelSokobanProgress(t *testing.T) {
	store := memStore(t)

	game := sokoban.New()
	m := NewGameModel(game, store, testConfig())
	m.Init()

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyLeft},
		{Type: tea.KeyLeft},
		{Type: tea.KeyDown},
		{Type: tea.KeyRight},
		{Type: tea.KeyRight},
	} {
		m = press(t, m, msg)
	}

	if !game.Won() {
		t.Fatal("level 1 should be solved")
	}
	levels, err := store.CompletedLevels()
	if err != nil {
		t.Fatalf("CompletedLevels() failed: %v", err)
	}
	if len(levels) != 1 || levels[0] != 1 {
		t.Errorf("CompletedLevels() = %v, want [1]", levels)
	}
}

func TestGameModelStartLevel(t *testing.T) {
	game := sokoban.New()
	m := NewGameModel(game, nil, testConfig()).WithStartLevel(2)
	m.Init()

	if got := game.LevelNumber(); got != 2 {
		t.Errorf("LevelNumber() = %d, want 2", got)
	}
}

func TestGameModelBackAndQuit(t *testing.T) {
	m := NewGameModel(t2048.New(), nil, testConfig())
	m.Init()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(GameModel).BackToMenu() {
		t.Error("esc should return to menu")
	}
	if cmd != nil {
		t.Error("back inside a session should not quit the program")
	}

	next, cmd = m.Update(runeKey('q'))
	if !next.(GameModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestGameModelResizeKeepsGame(t *testing.T) {
	game := t2048.New()
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	before := game.Engine().Grid()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(GameModel)

	if game.Engine().Grid() != before {
		t.Error("resize should not reset the board")
	}
	if !strings.Contains(m.View(), "Score") {
		t.Error("view should contain the HUD")
	}
}

func TestMenuListsGames(t *testing.T) {
	store := memStore(t)
	store.SaveScore(t2048.GameID, 256)
	store.MarkLevelCompleted(1)

	m := NewMenuModel(store, testConfig())
	view := m.View()

	for _, want := range []string{"P U Z Z L E B O X", "2048 (best 256)", "Sokoban (1/3 solved)"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view missing %q:\n%s", want, view)
		}
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil, testConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if m.Selected() == nil || m.Selected().GameID != sokoban.GameID {
		t.Fatalf("Selected() = %+v, want sokoban", m.Selected())
	}
	if cmd == nil {
		t.Error("selection should end the menu program")
	}
}

func TestLevelSelectStartsOnFirstUnsolved(t *testing.T) {
	store := memStore(t)
	store.MarkLevelCompleted(1)

	m := NewLevelSelectModel(store, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := next.(LevelSelectModel).Level(); got != 2 {
		t.Errorf("Level() = %d, want 2", got)
	}
}

func TestLevelSelectResetProgress(t *testing.T) {
	store := memStore(t)
	store.MarkLevelCompleted(1)
	store.MarkLevelCompleted(2)

	m := NewLevelSelectModel(store, 80, 24)
	next, _ := m.Update(runeKey('x'))
	m = next.(LevelSelectModel)

	if levels, _ := store.CompletedLevels(); len(levels) != 0 {
		t.Errorf("progress after reset = %v", levels)
	}
	if !strings.Contains(m.View(), "0 of") {
		t.Error("view should show no solved levels")
	}
}

func TestSessionFlow(t *testing.T) {
	m := NewSessionModel(memStore(t), testConfig())

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := m.Update(msg)
		m = next.(SessionModel)
	}

	// Menu -> Sokoban level list -> level 1
	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenLevels {
		t.Fatalf("screen = %d, want level select", m.screen)
	}
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame {
		t.Fatalf("screen = %d, want game", m.screen)
	}

	// Back to menu, then scoreboard and back again
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %d, want menu", m.screen)
	}
	step(tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %d, want scoreboard", m.screen)
	}
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %d, want menu", m.screen)
	}

	next, cmd := m.Update(runeKey('q'))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should end the session")
	}
}

func TestScoreboardViews(t *testing.T) {
	store := memStore(t)
	store.SaveScore(t2048.GameID, 1024)
	store.MarkLevelCompleted(2)

	m := NewScoreboardModel(store, 100, 30)
	if !strings.Contains(m.View(), "1024") {
		t.Error("2048 tab should list the saved score")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	view := next.(ScoreboardModel).View()
	if !strings.Contains(view, "1 of") || !strings.Contains(view, "solved") {
		t.Errorf("sokoban tab should show progress:\n%s", view)
	}
}
