package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/puzzlebox/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 3 // Height of each cell (including top border)

	boardWidth  = BoardSize*cellWidth + 1
	boardHeight = BoardSize*cellHeight + 1
	hudHeight   = 3
)

// tileColor picks a color for a tile value. Values above 2048 share the top color.
func tileColor(v int) core.Color {
	switch v {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightYellow
	case 8:
		return core.ColorOrange
	case 16:
		return core.ColorBrightRed
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorMagenta
	case 128:
		return core.ColorBrightCyan
	case 256:
		return core.ColorCyan
	case 512:
		return core.ColorBrightBlue
	case 1024:
		return core.ColorBrightGreen
	default:
		return core.ColorYellow
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardWidth) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws score, best score and the largest tile.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := "2048"
	dst.DrawTextColored(boardX+(boardWidth-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.engine.Score()))

	best := fmt.Sprintf("Best: %d", g.engine.BestScore())
	dst.DrawText(max(boardX, boardX+boardWidth-len(best)), 1, best)

	info := fmt.Sprintf("Max: %d  Moves: %d", g.engine.Grid().MaxTile(), g.moves)
	dst.DrawTextColored(boardX+(boardWidth-len(info))/2, 2, info, core.ColorGray)
}

// renderBoard draws the 4x4 grid with tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			dst.SetColored(px, py, gridCorner(x, y), core.ColorGray)

			if x < BoardSize {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < BoardSize {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	grid := g.engine.Grid()
	for r := range BoardSize {
		for c := range BoardSize {
			val := grid[r][c]
			if val == 0 {
				continue
			}

			cellX := boardX + c*cellWidth + 1
			cellY := boardY + r*cellHeight + cellHeight/2

			valStr := strconv.Itoa(val)
			padLeft := max(0, (cellWidth-1-len(valStr))/2)

			color := tileColor(val)
			if g.lastSpawn != nil && g.lastSpawn.Row == r && g.lastSpawn.Col == c {
				// Freshly spawned tile is marked so the player notices it
				dst.SetColored(cellX, cellY-1, '•', core.ColorGreen)
			}
			dst.DrawTextColored(cellX+padLeft, cellY, valStr, color)
		}
	}
}

// gridCorner returns the box-drawing rune for a grid line intersection.
func gridCorner(x, y int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == BoardSize:
		return '┐'
	case y == BoardSize && x == 0:
		return '└'
	case y == BoardSize && x == BoardSize:
		return '┘'
	case y == 0:
		return '┬'
	case y == BoardSize:
		return '┴'
	case x == 0:
		return '├'
	case x == BoardSize:
		return '┤'
	default:
		return '┼'
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardWidth/2
	centerY := boardY + boardHeight/2

	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.status == StatusWon:
		drawOverlay(dst, centerX, centerY,
			fmt.Sprintf("%d reached!", g.engine.WinValue()),
			fmt.Sprintf("Score: %d", g.engine.Score()),
			"Press R to play again")
	case g.engine.GameOver():
		drawOverlay(dst, centerX, centerY,
			"GAME OVER",
			fmt.Sprintf("Max tile: %d", g.engine.Grid().MaxTile()),
			"Press R to restart")
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
	return "Arrows/WASD/HJKL: Move | P: Pause | R: Restart | Q: Quit"
}
