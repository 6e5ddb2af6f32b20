// Package mcp exposes the puzzle games as Model Context Protocol tools so
// an agent can play sessions over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/games/t2048"
	"github.com/vovakirdan/puzzlebox/internal/platform/web"
	"github.com/vovakirdan/puzzlebox/internal/registry"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

const instructions = `Puzzlebox - MCP Interface

GAMES:
- 2048: slide tiles up/down/left/right; equal tiles merge once per move.
  A new tile (2, sometimes 4) appears after every move that changes the board.
  Reach the 2048 tile to win; the game ends when no move is possible.
- sokoban: push every box (B) onto a target (T). W is a wall, P the player.
  Boxes cannot be pulled or pushed into walls or other boxes.
  After solving a level, use move with action "confirm" for the next one.

Start with create_session, then call move repeatedly and read the board.`

// Tools serves game sessions to MCP clients.
type Tools struct {
	sessions *web.Manager
	store    *storage.Store
	server   *server.MCPServer
}

// NewTools creates the MCP server. A nil store disables persistence.
func NewTools(store *storage.Store, version string) *Tools {
	t := &Tools{
		sessions: web.NewManager(store),
		store:    store,
	}

	t.server = server.NewMCPServer(
		"Puzzlebox",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	t.registerTools()
	return t
}

// Server returns the underlying MCP server.
func (t *Tools) Server() *server.MCPServer {
	return t.server
}

// ServeStdio serves MCP over stdin/stdout until the input closes.
func (t *Tools) ServeStdio() error {
	return server.ServeStdio(t.server)
}

func sessionIDProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID returned by create_session",
	}
}

func (t *Tools) registerTools() {
	t.server.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List the available games",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
	}, t.handleListGames)

	t.server.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Start a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"game": map[string]any{
					"type":        "string",
					"enum":        []string{t2048.GameID, sokoban.GameID},
					"description": "Game to play",
				},
				"level": map[string]any{
					"type":        "number",
					"description": "Sokoban level to start on (1-indexed, optional)",
				},
				"seed": map[string]any{
					"type":        "number",
					"description": "RNG seed for reproducible 2048 tile spawns (optional)",
				},
			},
			Required: []string{"game"},
		},
	}, t.handleCreateSession)

	t.server.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the board and status of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, t.handleGameState)

	t.server.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move in a direction, or take an action (confirm, restart)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"direction": map[string]any{
					"type": "string",
					"enum": []string{"up", "down", "left", "right"},
				},
				"action": map[string]any{
					"type": "string",
					"enum": []string{"confirm", "restart"},
				},
			},
			Required: []string{"session_id"},
		},
	}, t.handleMove)

	t.server.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Apply several directions in order; stops early when the game ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"moves": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "enum": []string{"up", "down", "left", "right"}},
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, t.handleBulkMove)

	t.server.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start the session over (Sokoban restarts the current level)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, t.handleReset)

	t.server.AddTool(mcp.Tool{
		Name:        "top_scores",
		Description: "Show the best recorded 2048 scores",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
	}, t.handleTopScores)
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	return args
}

func (t *Tools) session(request mcp.CallToolRequest) (*web.Session, error) {
	id, _ := arguments(request)["session_id"].(string)
	return t.sessions.Get(id)
}

func (t *Tools) handleListGames(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, g := range registry.List() {
		fmt.Fprintf(&b, "%s - %s\n", g.ID, g.Title)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *Tools) handleCreateSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	opts := web.CreateOptions{}
	opts.Game, _ = args["game"].(string)
	if level, ok := args["level"].(float64); ok {
		opts.Level = int(level)
	}
	if seed, ok := args["seed"].(float64); ok {
		opts.Seed = int64(seed)
	}

	sess, err := t.sessions.Create(opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Created session: %s\n\n%s", sess.ID, FormatState(sess.State()))
	return mcp.NewToolResultText(text), nil
}

func (t *Tools) handleGameState(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatState(sess.State())), nil
}

func parseAction(direction, action string) (core.Action, bool) {
	if direction != "" {
		return core.ParseDirection(strings.ToLower(direction))
	}
	switch strings.ToLower(action) {
	case "confirm", "next":
		return core.ActionConfirm, true
	case "restart":
		return core.ActionRestart, true
	}
	return core.ActionNone, false
}

func (t *Tools) handleMove(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := arguments(request)
	direction, _ := args["direction"].(string)
	name, _ := args["action"].(string)
	action, ok := parseAction(direction, name)
	if !ok {
		return mcp.NewToolResultError(web.ErrUnknownAction.Error()), nil
	}

	st, err := sess.Do(action)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prefix := "Board unchanged.\n\n"
	if st.Moved {
		prefix = ""
	}
	return mcp.NewToolResultText(prefix + FormatState(st)), nil
}

func (t *Tools) handleBulkMove(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, _ := arguments(request)["moves"].([]any)
	if len(raw) == 0 {
		return mcp.NewToolResultError("moves must not be empty"), nil
	}

	var (
		st      web.SessionState
		applied int
		moved   int
	)
	for _, m := range raw {
		dir, _ := m.(string)
		action, ok := core.ParseDirection(strings.ToLower(dir))
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("move %d: unknown direction %q", applied+1, dir)), nil
		}
		if st, err = sess.Do(action); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		applied++
		if st.Moved {
			moved++
		}
		if st.Status.GameOver || st.Status.Won {
			break
		}
	}

	text := fmt.Sprintf("Applied %d of %d moves (%d changed the board).\n\n%s", applied, len(raw), moved, FormatState(st))
	return mcp.NewToolResultText(text), nil
}

func (t *Tools) handleReset(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatState(sess.Reset())), nil
}

func (t *Tools) handleTopScores(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultText("No score database configured."), nil
	}

	scores, err := t.store.TopScores(t2048.GameID, 10)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(scores) == 0 {
		return mcp.NewToolResultText("No scores recorded yet."), nil
	}

	var b strings.Builder
	for i, s := range scores {
		fmt.Fprintf(&b, "%2d. %6d  %s\n", i+1, s.Score, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// FormatState renders a session state as plain text for agents.
func FormatState(st web.SessionState) string {
	var b strings.Builder

	switch snap := st.State.(type) {
	case t2048.Snapshot:
		fmt.Fprintf(&b, "2048 | score %d | best %d | moves %d\n\n", snap.Score, snap.BestScore, snap.Moves)
		for _, row := range snap.Board {
			for c, v := range row {
				if c > 0 {
					b.WriteByte(' ')
				}
				if v == 0 {
					fmt.Fprintf(&b, "%5s", ".")
				} else {
					fmt.Fprintf(&b, "%5d", v)
				}
			}
			b.WriteByte('\n')
		}
	case sokoban.Snapshot:
		fmt.Fprintf(&b, "Sokoban level %d/%d: %s | moves %d | boxes on target %d/%d\n\n",
			snap.Level, snap.LevelCount, snap.Name, snap.Moves, snap.OnTarget, len(snap.Boxes))
		for _, row := range snap.Rows {
			b.WriteString(row)
			b.WriteByte('\n')
		}
	default:
		data, _ := json.MarshalIndent(st.State, "", "  ")
		b.Write(data)
		b.WriteByte('\n')
	}

	switch {
	case st.Status.Won:
		b.WriteString("\nWon!")
	case st.Status.GameOver:
		b.WriteString("\nGame over: no moves left.")
	}
	return b.String()
}
