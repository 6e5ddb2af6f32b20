package sokoban

import (
	"fmt"

	"github.com/vovakirdan/puzzlebox/internal/core"
)

const (
	cellWidth = 2 // Terminal columns per board cell
	hudHeight = 3
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		y := g.screenH / 2
		dst.DrawTextCentered(y, "Window too small")
		dst.DrawTextCentered(y+1, "Please resize terminal")
		return
	}

	lvl := g.board.Level()
	boardW := lvl.Width * cellWidth
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst)
	g.renderBoard(dst, boardX, boardY)

	centerX := boardX + boardW/2
	centerY := boardY + lvl.Height/2
	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.won && g.AllCompleted():
		drawOverlay(dst, centerX, centerY,
			"All levels complete!",
			fmt.Sprintf("Moves: %d", g.board.Moves()),
			"Enter: next level | R: replay")
	case g.won:
		drawOverlay(dst, centerX, centerY,
			"Level complete!",
			fmt.Sprintf("Moves: %d", g.board.Moves()),
			"Enter: next level | R: replay")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	lvl := g.board.Level()

	title := fmt.Sprintf("Sokoban - Level %d/%d: %s", g.LevelNumber(), len(g.levels), lvl.Name)
	dst.DrawTextCentered(0, title)

	status := fmt.Sprintf("Moves: %d   Boxes: %d/%d   Completed: %d/%d",
		g.board.Moves(), g.board.BoxesOnTarget(), len(lvl.Boxes), len(g.completed), len(g.levels))
	dst.DrawTextCentered(1, status)

	if lvl.Description != "" {
		dst.DrawTextCentered(2, lvl.Description)
	}
}

func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	lvl := g.board.Level()

	for y := range lvl.Height {
		for x := range lvl.Width {
			p := core.P(x, y)
			ch, color := g.cellGlyph(p)
			px := boardX + x*cellWidth
			dst.SetColored(px, boardY+y, ch, color)
			if ch == '█' {
				dst.SetColored(px+1, boardY+y, ch, color)
			}
		}
	}
}

// cellGlyph picks the rune and color for a board cell.
func (g *Game) cellGlyph(p core.Point) (rune, core.Color) {
	lvl := g.board.Level()
	onTarget := lvl.IsTarget(p)

	switch {
	case p == g.board.Player():
		return '@', core.ColorBrightYellow
	case g.board.HasBox(p) && onTarget:
		return '■', core.ColorBrightGreen
	case g.board.HasBox(p):
		return '■', core.ColorOrange
	case lvl.TerrainAt(p) == TerrainWall:
		return '█', core.ColorGray
	case onTarget:
		return '·', core.ColorBrightRed
	default:
		return ' ', core.ColorDefault
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawTextColored(centerX-len(line)/2, box.Y+1+i, line, core.ColorBrightYellow)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/HJKL: Move | R: Restart level | Enter: Next | P: Pause | Q: Quit"
}
