package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/puzzlebox/internal/config"
	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/registry"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

const (
	sessionIdleTimeout = time.Hour
	sweepInterval      = time.Minute
	defaultScoreLimit  = 10
)

// Server is the browser API.
type Server struct {
	config   config.WebConfig
	sessions *Manager
	hub      *Hub
	store    *storage.Store
	router   *mux.Router
	logger   *log.Logger
}

// NewServer creates the API server. A nil store disables persistence and
// the scores endpoint returns empty lists.
func NewServer(cfg config.WebConfig, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "puzzlebox-web",
		})
	}

	s := &Server{
		config:   cfg,
		sessions: NewManager(store),
		hub:      NewHub(cfg.AllowedOrigins, logger),
		store:    store,
		router:   mux.NewRouter(),
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/scores/{game}", s.handleScores).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Idle sessions are dropped periodically.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.config.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range s.sessions.Sweep(sessionIdleTimeout) {
				s.hub.CloseSession(id)
				s.logger.Debug("session expired", "session", id)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Client may have gone away
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

// Handlers

func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, registry.List())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var opts CreateOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !registry.Exists(opts.Game) {
		respondError(w, http.StatusBadRequest, "unknown game: "+opts.Game)
		return
	}

	sess, err := s.sessions.Create(opts)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("session created", "session", sess.ID, "game", sess.GameID)
	respondJSON(w, http.StatusCreated, sess.State())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		respondJSON(w, http.StatusOK, sess.State())
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.Delete(id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.CloseSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// moveRequest names either a direction or one of the non-directional
// actions ("confirm", "restart", "pause").
type moveRequest struct {
	Direction string `json:"direction,omitempty"`
	Action    string `json:"action,omitempty"`
}

func (req moveRequest) action() (core.Action, bool) {
	if req.Direction != "" {
		return core.ParseDirection(strings.ToLower(req.Direction))
	}
	switch strings.ToLower(req.Action) {
	case "confirm", "next":
		return core.ActionConfirm, true
	case "restart":
		return core.ActionRestart, true
	case "pause":
		return core.ActionPause, true
	}
	return core.ParseDirection(strings.ToLower(req.Action))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action, ok := req.action()
	if !ok {
		respondError(w, http.StatusBadRequest, ErrUnknownAction.Error())
		return
	}

	state, err := sess.Do(action)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		// The move itself went through
		s.logger.Warn("move side effect failed", "session", sess.ID, "error", err)
	}

	s.hub.Broadcast(sess.ID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	state := sess.Reset()
	s.hub.Broadcast(sess.ID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["game"]
	if !registry.Exists(gameID) {
		respondError(w, http.StatusNotFound, "unknown game: "+gameID)
		return
	}

	limit := defaultScoreLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	scores := []storage.ScoreEntry{}
	if s.store != nil {
		top, err := s.store.TopScores(gameID, limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if top != nil {
			scores = top
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"game":   gameID,
		"scores": scores,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, err := s.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.ServeWS(w, r, id, sess.State())
}
