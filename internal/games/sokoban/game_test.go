package sokoban

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/puzzlebox/internal/core"
)

type memoryProgress struct {
	levels []int
	err    error
}

func (m *memoryProgress) MarkLevelCompleted(level int) error {
	if m.err != nil {
		return m.err
	}
	m.levels = append(m.levels, level)
	return nil
}

func (m *memoryProgress) CompletedLevels() ([]int, error) {
	return m.levels, m.err
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1}
}

// solveFirstLevel plays the built-in first level to completion.
func solveFirstLevel(g *Game) {
	for _, a := range []core.Action{core.ActionLeft, core.ActionLeft, core.ActionDown, core.ActionRight, core.ActionRight} {
		g.Step(core.FrameOf(a))
	}
}

func TestResetStartsFirstLevel(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if g.LevelNumber() != 1 {
		t.Errorf("LevelNumber() = %d, want 1", g.LevelNumber())
	}
	if g.Board().Player() != core.P(3, 1) {
		t.Errorf("player = %v, want (3,1)", g.Board().Player())
	}
	if g.State().GameOver || g.State().Won {
		t.Errorf("unexpected state %+v", g.State())
	}
}

func TestSetStartLevel(t *testing.T) {
	defer SetStartLevel(0)

	SetStartLevel(3)
	g := New()
	g.Reset(testConfig())
	if g.LevelNumber() != 3 {
		t.Errorf("LevelNumber() = %d, want 3", g.LevelNumber())
	}

	SetStartLevel(99)
	g.Reset(testConfig())
	if g.LevelNumber() != 1 {
		t.Errorf("out-of-range start level should fall back to 1, got %d", g.LevelNumber())
	}
}

func TestSolveLevelRecordsProgress(t *testing.T) {
	store := &memoryProgress{}
	g := New()
	if err := g.SetProgressStore(store); err != nil {
		t.Fatal(err)
	}
	g.Reset(testConfig())

	solveFirstLevel(g)

	if !g.Won() || !g.State().Won {
		t.Fatalf("expected level won, rows:\n%s", strings.Join(g.Board().Rows(), "\n"))
	}
	if g.State().Score != 5 {
		t.Errorf("Score = %d, want 5 moves", g.State().Score)
	}
	if len(store.levels) != 1 || store.levels[0] != 1 {
		t.Errorf("store levels = %v, want [1]", store.levels)
	}
	if got := g.Completed(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Completed() = %v, want [1]", got)
	}
	if g.Snapshot().State != StateLevelWon {
		t.Errorf("Snapshot State = %s, want level_won", g.Snapshot().State)
	}

	// Moves are ignored after a win
	if g.Step(core.FrameOf(core.ActionUp)).Moved {
		t.Error("move accepted after win")
	}

	g.Step(core.FrameOf(core.ActionConfirm))
	if g.LevelNumber() != 2 || g.Won() {
		t.Errorf("Confirm should start level 2, got level %d won=%v", g.LevelNumber(), g.Won())
	}
}

func TestConfirmIgnoredBeforeWin(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	g.Step(core.FrameOf(core.ActionConfirm))
	if g.LevelNumber() != 1 {
		t.Errorf("LevelNumber() = %d, want 1", g.LevelNumber())
	}
}

func TestRestartLevel(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	g.Step(core.FrameOf(core.ActionLeft))
	g.Step(core.FrameOf(core.ActionDown))
	if g.Board().Moves() != 2 {
		t.Fatalf("Moves() = %d, want 2", g.Board().Moves())
	}

	g.Step(core.FrameOf(core.ActionRestart))
	if g.Board().Moves() != 0 || g.Board().Player() != core.P(3, 1) {
		t.Error("restart should reset the level")
	}
}

func TestNextLevelWraps(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if !g.SelectLevel(3) {
		t.Fatal("SelectLevel(3) failed")
	}
	g.NextLevel()
	if g.LevelNumber() != 1 {
		t.Errorf("LevelNumber() = %d, want wrap to 1", g.LevelNumber())
	}

	if g.SelectLevel(0) || g.SelectLevel(4) {
		t.Error("out-of-range SelectLevel should fail")
	}
}

func TestProgressStoreLoad(t *testing.T) {
	g := New()
	if err := g.SetProgressStore(&memoryProgress{levels: []int{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	g.Reset(testConfig())

	if !g.AllCompleted() {
		t.Error("all levels should be completed")
	}

	failing := &memoryProgress{err: errors.New("disk full")}
	g2 := New()
	if err := g2.SetProgressStore(failing); err == nil {
		t.Error("expected load error")
	}
	g2.Reset(testConfig())
	solveFirstLevel(g2)
	if g2.StoreErr() == nil {
		t.Error("expected save error to be kept")
	}
	if !g2.Won() {
		t.Error("a store error must not block the win")
	}
}

func TestPause(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	g.Step(core.FrameOf(core.ActionPause))
	if g.Step(core.FrameOf(core.ActionLeft)).Moved {
		t.Error("paused game should ignore moves")
	}
	g.Step(core.FrameOf(core.ActionPause))
	if !g.Step(core.FrameOf(core.ActionLeft)).Moved {
		t.Error("unpaused game should accept moves")
	}
}

func TestRenderAndResize(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"Level 1/3", "Moves: 0", "@"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	g.Step(core.FrameOf(core.ActionLeft))
	g.Resize(20, 8)
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("State = %s, want paused_small_window", g.Snapshot().State)
	}
	g.Resize(80, 24)
	if g.Board().Moves() != 1 {
		t.Error("resize should keep the level attempt")
	}
}
