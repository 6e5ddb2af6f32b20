// Package web serves the puzzle games to browsers: a JSON API over
// gorilla/mux and live state pushes over gorilla/websocket.
package web

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/games/t2048"
	"github.com/vovakirdan/puzzlebox/internal/registry"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

var (
	// ErrSessionNotFound is returned for unknown or deleted session IDs.
	ErrSessionNotFound = errors.New("web: session not found")
	// ErrUnknownAction is returned for move requests the games cannot take.
	ErrUnknownAction = errors.New("web: unknown action")
)

// Browser sessions never hit the small-window pause.
const (
	virtualScreenW = 200
	virtualScreenH = 100
)

// Session is one browser game. All access to the game goes through the
// session mutex; the engines themselves are not safe for concurrent use.
type Session struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game"`
	CreatedAt time.Time `json:"created_at"`

	mu         sync.Mutex
	game       registry.Game
	config     core.RuntimeConfig
	store      *storage.Store
	lastSeen   time.Time
	scoreSaved bool
}

// SessionState is the JSON view of a session.
type SessionState struct {
	ID     string         `json:"id"`
	GameID string         `json:"game"`
	Moved  bool           `json:"moved"`
	Status core.GameState `json:"status"`
	State  any            `json:"state"`
}

// Do applies one action and returns the resulting state. A finished 2048
// session records its score once.
func (s *Session) Do(action core.Action) (SessionState, error) {
	if action == core.ActionNone || action == core.ActionQuit || action == core.ActionBack {
		return SessionState{}, ErrUnknownAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	result := s.game.Step(core.FrameOf(action))

	if result.State.GameOver && !s.scoreSaved && result.State.Score > 0 {
		s.scoreSaved = true
		if s.store != nil {
			if _, err := s.store.SaveScore(s.GameID, result.State.Score); err != nil {
				return s.stateLocked(result.Moved), fmt.Errorf("web: cannot save score: %w", err)
			}
		}
	}

	return s.stateLocked(result.Moved), nil
}

// Reset starts the game over. Sokoban stays on its current level.
func (s *Session) Reset() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	level := 0
	if g, ok := s.game.(*sokoban.Game); ok {
		level = g.LevelNumber()
	}

	s.config.Seed = time.Now().UnixNano()
	s.game.Reset(s.config)
	if g, ok := s.game.(*sokoban.Game); ok && level > 0 {
		g.SelectLevel(level)
	}
	s.scoreSaved = false

	return s.stateLocked(false)
}

// State returns the current state without changing it.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.stateLocked(false)
}

func (s *Session) stateLocked(moved bool) SessionState {
	st := SessionState{
		ID:     s.ID,
		GameID: s.GameID,
		Moved:  moved,
		Status: s.game.State(),
	}

	switch g := s.game.(type) {
	case *t2048.Game:
		st.State = g.Snapshot()
	case *sokoban.Game:
		st.State = g.Snapshot()
	}
	return st
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// CreateOptions selects how a new session starts.
type CreateOptions struct {
	Game  string `json:"game"`
	Level int    `json:"level,omitempty"` // Sokoban only, 1-indexed
	Seed  int64  `json:"seed,omitempty"`  // 0 picks a time-based seed
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    *storage.Store
}

// NewManager creates a session manager. A nil store disables persistence.
func NewManager(store *storage.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
	}
}

// Create starts a new session.
func (m *Manager) Create(opts CreateOptions) (*Session, error) {
	game, err := registry.Create(opts.Game)
	if err != nil {
		return nil, err
	}

	cfg := core.RuntimeConfig{
		ScreenW: virtualScreenW,
		ScreenH: virtualScreenH,
		Seed:    opts.Seed,
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	game.Reset(cfg)

	if m.store != nil {
		if g, ok := game.(*t2048.Game); ok {
			best, err := m.store.BestScore(game.ID())
			if err != nil {
				return nil, err
			}
			g.SetBestScore(best)
		}
		if g, ok := game.(*sokoban.Game); ok {
			if err := g.SetProgressStore(m.store); err != nil {
				return nil, err
			}
		}
	}

	if g, ok := game.(*sokoban.Game); ok && opts.Level > 0 {
		if !g.SelectLevel(opts.Level) {
			return nil, fmt.Errorf("web: level %d out of range 1-%d", opts.Level, sokoban.LevelCount())
		}
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		GameID:    game.ID(),
		CreatedAt: now,
		game:      game,
		config:    cfg,
		store:     m.store,
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than maxIdle and returns their IDs.
func (m *Manager) Sweep(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}
