package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/puzzlebox/internal/config"
	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/games/t2048"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

// apiState mirrors the JSON view of a session.
type apiState struct {
	ID     string          `json:"id"`
	GameID string          `json:"game"`
	Moved  bool            `json:"moved"`
	Status core.GameState  `json:"status"`
	State  json.RawMessage `json:"state"`
}

func newTestServer(t *testing.T) (*Server, *storage.Store, *httptest.Server) {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(&bytes.Buffer{})
	srv := NewServer(config.WebConfig{}, store, logger)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, store, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestCreateAndGetSession(t *testing.T) {
	_, _, ts := newTestServer(t)

	var created apiState
	code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", CreateOptions{Game: t2048.GameID, Seed: 42}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", code)
	}
	if created.ID == "" || created.GameID != t2048.GameID {
		t.Fatalf("created = %+v", created)
	}

	var snap t2048.Snapshot
	if err := json.Unmarshal(created.State, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if n := snap.Board.Occupied(); n != 2 {
		t.Errorf("new board has %d tiles, want 2", n)
	}

	var got apiState
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+created.ID, nil, &got); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if got.ID != created.ID {
		t.Errorf("got ID %q, want %q", got.ID, created.ID)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	_, _, ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown game", CreateOptions{Game: "tetris"}},
		{"level out of range", CreateOptions{Game: sokoban.GameID, Level: 99}},
		{"bad body", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", tt.body, nil); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
		})
	}
}

func TestMove2048(t *testing.T) {
	_, _, ts := newTestServer(t)

	var created apiState
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions", CreateOptions{Game: t2048.GameID, Seed: 7}, &created)

	moved := false
	for _, dir := range []string{"left", "right", "up", "down"} {
		var st apiState
		if code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/move", moveRequest{Direction: dir}, &st); code != http.StatusOK {
			t.Fatalf("move status = %d", code)
		}
		if st.Moved {
			var snap t2048.Snapshot
			json.Unmarshal(st.State, &snap)
			if snap.Moves != 1 {
				t.Errorf("Moves = %d, want 1", snap.Moves)
			}
			if n := snap.Board.Occupied(); n < 2 {
				t.Errorf("board after move has %d tiles", n)
			}
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("no direction moved a fresh board")
	}

	if code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/move", moveRequest{Direction: "sideways"}, nil); code != http.StatusBadRequest {
		t.Errorf("bad direction status = %d, want 400", code)
	}
}

func TestSokobanSessionRecordsProgress(t *testing.T) {
	_, store, ts := newTestServer(t)

	var created apiState
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions", CreateOptions{Game: sokoban.GameID, Level: 1}, &created)

	var st apiState
	for _, dir := range []string{"left", "left", "down", "right", "right"} {
		doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/move", moveRequest{Direction: dir}, &st)
	}

	var snap sokoban.Snapshot
	if err := json.Unmarshal(st.State, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if !snap.Won || snap.Moves != 5 {
		t.Fatalf("snapshot = won %v moves %d, want won after 5", snap.Won, snap.Moves)
	}
	if levels, _ := store.CompletedLevels(); len(levels) != 1 || levels[0] != 1 {
		t.Errorf("CompletedLevels() = %v, want [1]", levels)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/move", moveRequest{Action: "confirm"}, &st)
	json.Unmarshal(st.State, &snap)
	if snap.Level != 2 {
		t.Errorf("Level after confirm = %d, want 2", snap.Level)
	}

	// Reset keeps the level
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/reset", nil, &st)
	json.Unmarshal(st.State, &snap)
	if snap.Level != 2 || snap.Moves != 0 {
		t.Errorf("after reset level %d moves %d, want level 2 moves 0", snap.Level, snap.Moves)
	}
}

func TestDeleteSession(t *testing.T) {
	srv, _, ts := newTestServer(t)

	var created apiState
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions", CreateOptions{Game: t2048.GameID}, &created)

	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/sessions/"+created.ID, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", code)
	}
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+created.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", code)
	}
	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/sessions/"+created.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
	if srv.Sessions().Count() != 0 {
		t.Errorf("Count() = %d, want 0", srv.Sessions().Count())
	}
}

func TestSessionSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	m := NewManager(store)
	sess, err := m.Create(CreateOptions{Game: t2048.GameID, Seed: 3})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dirs := []core.Action{core.ActionUp, core.ActionLeft, core.ActionDown, core.ActionRight}
	var st SessionState
	for i := 0; i < 100000 && !st.Status.GameOver; i++ {
		st, err = sess.Do(dirs[i%len(dirs)])
		if err != nil {
			t.Fatalf("Do failed: %v", err)
		}
	}
	if !st.Status.GameOver {
		t.Fatal("game never ended")
	}

	// Further input after the end does not save again
	sess.Do(core.ActionLeft)

	scores, _ := store.AllScores(t2048.GameID)
	if len(scores) != 1 || scores[0].Score != st.Status.Score {
		t.Errorf("scores = %+v, want one entry of %d", scores, st.Status.Score)
	}
}

func TestSweepIdleSessions(t *testing.T) {
	m := NewManager(nil)
	sess, _ := m.Create(CreateOptions{Game: t2048.GameID})

	if removed := m.Sweep(time.Hour); len(removed) != 0 {
		t.Errorf("fresh session swept: %v", removed)
	}

	sess.mu.Lock()
	sess.lastSeen = time.Now().Add(-2 * time.Hour)
	sess.mu.Unlock()

	if removed := m.Sweep(time.Hour); len(removed) != 1 || removed[0] != sess.ID {
		t.Errorf("Sweep() = %v, want [%s]", removed, sess.ID)
	}
}

func TestScoresEndpoint(t *testing.T) {
	_, store, ts := newTestServer(t)
	store.SaveScore(t2048.GameID, 100)
	store.SaveScore(t2048.GameID, 300)

	var out struct {
		Game   string               `json:"game"`
		Scores []storage.ScoreEntry `json:"scores"`
	}
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/scores/2048?limit=1", nil, &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(out.Scores) != 1 || out.Scores[0].Score != 300 {
		t.Errorf("scores = %+v, want [300]", out.Scores)
	}

	if code := doJSON(t, http.MethodGet, ts.URL+"/api/scores/tetris", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown game status = %d, want 404", code)
	}
}

func TestListGames(t *testing.T) {
	_, _, ts := newTestServer(t)

	var games []struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/games", nil, &games)
	if len(games) != 2 || games[0].ID != t2048.GameID || games[1].ID != sokoban.GameID {
		t.Errorf("games = %+v", games)
	}
}

func TestWebSocketPushesState(t *testing.T) {
	srv, _, ts := newTestServer(t)

	var created apiState
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions", CreateOptions{Game: sokoban.GameID, Level: 1}, &created)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=" + created.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if msg.Event != EventState || msg.SessionID != created.ID {
		t.Fatalf("initial message = %+v", msg)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/move", moveRequest{Direction: "left"}, nil)

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if msg.State == nil || !msg.State.Moved {
		t.Errorf("update = %+v, want a moved state", msg)
	}

	doJSON(t, http.MethodDelete, ts.URL+"/api/sessions/"+created.ID, nil, nil)
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read delete event: %v", err)
	}
	if msg.Event != EventDeleted {
		t.Errorf("event = %q, want %q", msg.Event, EventDeleted)
	}
	if srv.hub.Clients(created.ID) != 0 {
		t.Error("sockets should be dropped with the session")
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ws?session=missing")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
