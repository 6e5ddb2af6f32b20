package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

// LevelSelectModel lets users pick the Sokoban level to start from.
// Solved levels are marked from the progress store.
type LevelSelectModel struct {
	names     []string
	completed map[int]bool
	store     *storage.Store
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	level     int // 1-indexed once chosen
	quitting  bool
	back      bool
}

// NewLevelSelectModel creates a level selector. The cursor starts on the
// first unsolved level.
func NewLevelSelectModel(store *storage.Store, width, height int) LevelSelectModel {
	m := LevelSelectModel{
		names:     sokoban.LevelNames(),
		store:     store,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
	m.loadProgress()

	for i := range m.names {
		if !m.completed[i+1] {
			m.cursor = i
			break
		}
	}
	return m
}

func (m *LevelSelectModel) loadProgress() {
	m.completed = make(map[int]bool)
	if m.store == nil {
		return
	}
	levels, err := m.store.CompletedLevels()
	if err != nil {
		return
	}
	for _, l := range levels {
		m.completed[l] = true
	}
}

// Init initializes the model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LevelSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "x" && m.store != nil {
		if err := m.store.ResetProgress(); err == nil {
			m.completed = make(map[int]bool)
		}
		return m, nil
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if len(m.names) > 0 {
			m.level = m.cursor + 1
			return m, tea.Quit
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the level list.
func (m LevelSelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("S O K O B A N", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("%d of %d levels solved", len(m.completed), len(m.names)), m.width))
	b.WriteString("\n\n")

	for i, name := range m.names {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		mark := " "
		if m.completed[i+1] {
			mark = "✓"
		}

		line := fmt.Sprintf("%s%s %2d. %s", cursor, mark, i+1, name)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Enter: Play  |  X: Reset progress  |  Esc: Back  |  Q: Quit"
	if m.store == nil {
		controls = "Enter: Play  |  Esc: Back  |  Q: Quit"
	}
	b.WriteString(centerText(controls, m.width))

	return b.String()
}

// Level returns the chosen level (1-indexed), or 0 if none was chosen.
func (m LevelSelectModel) Level() int {
	return m.level
}

// IsQuitting returns true if user wants to quit.
func (m LevelSelectModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelSelectModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the Sokoban level selection and returns the chosen
// level, or 0 when the user backed out or quit.
func RunLevelSelector(store *storage.Store, cfg core.RuntimeConfig) (int, error) {
	p := tea.NewProgram(
		NewLevelSelectModel(store, cfg.ScreenW, cfg.ScreenH),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(LevelSelectModel)
	if !ok {
		return 0, nil
	}
	return m.Level(), nil
}
