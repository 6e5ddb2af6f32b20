package sokoban

import (
	"errors"
	"testing"

	"github.com/vovakirdan/puzzlebox/internal/core"
)

func mustLevel(t *testing.T, layout ...string) *Level {
	t.Helper()
	lvl, err := ParseLevel("test", "Test", "", layout)
	if err != nil {
		t.Fatalf("ParseLevel: %v", err)
	}
	return &lvl
}

func TestParseLevel(t *testing.T) {
	lvl := mustLevel(t,
		"WWWWWWW",
		"W  P  W",
		"W B T W",
		"W     W",
		"WWWWWWW",
	)

	if lvl.Width != 7 || lvl.Height != 5 {
		t.Errorf("size = %dx%d, want 7x5", lvl.Width, lvl.Height)
	}
	if lvl.Player != core.P(3, 1) {
		t.Errorf("Player = %v, want (3,1)", lvl.Player)
	}
	if len(lvl.Boxes) != 1 || lvl.Boxes[0] != core.P(2, 2) {
		t.Errorf("Boxes = %v, want [(2,2)]", lvl.Boxes)
	}
	if len(lvl.Targets) != 1 || lvl.Targets[0] != core.P(4, 2) {
		t.Errorf("Targets = %v, want [(4,2)]", lvl.Targets)
	}
	if lvl.TerrainAt(core.P(0, 0)) != TerrainWall {
		t.Error("corner should be a wall")
	}
	if lvl.TerrainAt(core.P(-1, 2)) != TerrainVoid {
		t.Error("outside the layout should be void")
	}
}

func TestParseLevelRaggedRows(t *testing.T) {
	lvl := mustLevel(t,
		"WWWWW",
		"WP T",
		"WWWWW",
	)
	if lvl.Width != 5 {
		t.Errorf("Width = %d, want 5", lvl.Width)
	}
	if !lvl.Blocked(core.P(4, 1)) {
		t.Error("missing cell in a short row should block")
	}
}

func TestParseLevelErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
	}{
		{"empty", nil},
		{"no player", []string{"WWW", "WBT", "WWW"}},
		{"two players", []string{"WWWW", "WPPW", "WWWW"}},
		{"unknown cell", []string{"WWW", "WPX", "WWW"}},
		{"more boxes than targets", []string{"WWWWW", "WPBBT", "WWWWW"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevel("bad", "Bad", "", tt.layout)
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("err = %v, want ErrInvalidLayout", err)
			}
		})
	}
}

func TestMovePlayer(t *testing.T) {
	layout := []string{
		"WWWWWWW",
		"WTT   W",
		"W PB TW",
		"W  BB W",
		"WWWWWWW",
	}

	tests := []struct {
		name    string
		dx, dy  int
		moved   bool
		player  core.Point
		boxMove bool // first box moved
	}{
		{"up onto target", 0, -1, true, core.P(2, 1), false},
		{"left onto floor", -1, 0, true, core.P(1, 2), false},
		{"push box", 1, 0, true, core.P(3, 2), true},
		{"down onto floor", 0, 1, true, core.P(2, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(mustLevel(t, layout...))
			moved := b.MovePlayer(tt.dx, tt.dy)

			if moved != tt.moved {
				t.Errorf("MovePlayer(%d,%d) = %v, want %v", tt.dx, tt.dy, moved, tt.moved)
			}
			if b.Player() != tt.player {
				t.Errorf("Player() = %v, want %v", b.Player(), tt.player)
			}
			if got := b.Boxes()[0] != core.P(3, 2); got != tt.boxMove {
				t.Errorf("box moved = %v, want %v", got, tt.boxMove)
			}
		})
	}
}

func TestMovePlayerBlocked(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		dx, dy int
	}{
		{"wall", []string{"WWW", "WPW", "WWW"}, 1, 0},
		{"box against wall", []string{"WWWWW", "WPBWW", "WTWWW"}, 1, 0},
		{"box against box", []string{"WWWWWWW", "WPBB TW", "WWWWWTW"}, 1, 0},
		{"edge of layout", []string{"P  "}, -1, 0},
		{"box at edge of layout", []string{"PB", "T "}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(mustLevel(t, tt.layout...))
			start, boxes := b.Player(), b.Boxes()

			if b.MovePlayer(tt.dx, tt.dy) {
				t.Error("move should be blocked")
			}
			if b.Player() != start {
				t.Errorf("player moved to %v", b.Player())
			}
			for i, box := range b.Boxes() {
				if box != boxes[i] {
					t.Errorf("box %d moved to %v", i, box)
				}
			}
			if b.Moves() != 0 {
				t.Errorf("Moves() = %d, want 0", b.Moves())
			}
		})
	}
}

func TestWinAndRestart(t *testing.T) {
	b := NewBoard(mustLevel(t,
		"WWWWWWW",
		"W  P  W",
		"W B T W",
		"W     W",
		"WWWWWWW",
	))

	if b.IsWon() {
		t.Fatal("level should not start won")
	}

	// Walk around the box and push it right twice onto the target.
	for _, step := range [][2]int{{-1, 0}, {-1, 0}, {0, 1}, {1, 0}, {1, 0}} {
		if !b.MovePlayer(step[0], step[1]) {
			t.Fatalf("move %v blocked at %v", step, b.Player())
		}
	}

	if !b.IsWon() {
		t.Fatalf("expected win, rows:\n%v", b.Rows())
	}
	if b.Moves() != 5 {
		t.Errorf("Moves() = %d, want 5", b.Moves())
	}

	b.Restart()
	if b.IsWon() || b.Moves() != 0 || b.Player() != core.P(3, 1) {
		t.Error("Restart should restore the starting position")
	}
}

func TestNoBoxesIsWon(t *testing.T) {
	b := NewBoard(mustLevel(t, "WWW", "WPW", "WWW"))
	if !b.IsWon() {
		t.Error("a level without boxes is trivially won")
	}
}

func TestRows(t *testing.T) {
	layout := []string{
		"WWWWWW",
		"WP BTW",
		"WWWWWW",
	}
	b := NewBoard(mustLevel(t, layout...))

	for i, row := range b.Rows() {
		if row != layout[i] {
			t.Errorf("row %d = %q, want %q", i, row, layout[i])
		}
	}

	b.MovePlayer(1, 0)
	b.MovePlayer(1, 0)
	if got := b.Rows()[1]; got != "W  PBW" {
		t.Errorf("row 1 = %q, want %q", got, "W  PBW")
	}
}
