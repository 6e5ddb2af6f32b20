package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreInMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore("2048", 64); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if best, _ := store.HighScore("2048"); best != 64 {
		t.Errorf("HighScore() = %d, want 64", best)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("2048", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("sokoban", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	want := []int{200, 100, 50}
	if len(scores) != len(want) {
		t.Fatalf("TopScores() returned %d scores, want %d", len(scores), len(want))
	}
	for i, e := range scores {
		if e.Score != want[i] {
			t.Errorf("scores[%d] = %d, want %d", i, e.Score, want[i])
		}
		if e.GameID != "2048" {
			t.Errorf("scores[%d].GameID = %s, want 2048", i, e.GameID)
		}
		if e.CreatedAt.IsZero() {
			t.Errorf("scores[%d].CreatedAt not parsed", i)
		}
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 20 {
		if _, err := store.SaveScore("2048", i*4); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{5, 5},
		{0, 10}, // Default limit
		{50, 20},
	}
	for _, tt := range tests {
		scores, err := store.TopScores("2048", tt.limit)
		if err != nil {
			t.Fatalf("TopScores() failed: %v", err)
		}
		if len(scores) != tt.want {
			t.Errorf("TopScores(limit=%d) returned %d, want %d", tt.limit, len(scores), tt.want)
		}
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() for empty = %d, want 0", high)
	}

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 300)
	store.SaveScore("2048", 200)

	best, err := store.BestScore("2048")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 300 {
		t.Errorf("BestScore() = %d, want 300", best)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("2048", 100)
	store.SaveScore("sokoban", 12)

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.AllScores("2048"); len(scores) != 0 {
		t.Errorf("2048 scores after clear = %d, want 0", len(scores))
	}
	if scores, _ := store.AllScores("sokoban"); len(scores) != 1 {
		t.Errorf("other game scores = %d, want 1", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 300)

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 || stats.AvgScore != 200 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if all["2048"] == nil || all["2048"].GamesCount != 2 {
		t.Errorf("GetAllGamesStats()[2048] = %+v", all["2048"])
	}
}

func TestStoreProgress(t *testing.T) {
	store := openTestStore(t)

	levels, err := store.CompletedLevels()
	if err != nil {
		t.Fatalf("CompletedLevels() failed: %v", err)
	}
	if len(levels) != 0 {
		t.Errorf("CompletedLevels() = %v, want none", levels)
	}

	for _, l := range []int{3, 1, 3} {
		if err := store.MarkLevelCompleted(l); err != nil {
			t.Fatalf("MarkLevelCompleted(%d) failed: %v", l, err)
		}
	}

	levels, _ = store.CompletedLevels()
	if len(levels) != 2 || levels[0] != 1 || levels[1] != 3 {
		t.Errorf("CompletedLevels() = %v, want [1 3]", levels)
	}

	if err := store.ResetProgress(); err != nil {
		t.Fatalf("ResetProgress() failed: %v", err)
	}
	if levels, _ = store.CompletedLevels(); len(levels) != 0 {
		t.Errorf("CompletedLevels() after reset = %v", levels)
	}
}

func TestStoreConcurrentWrites(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.SaveScore("2048", i); err != nil {
				t.Errorf("SaveScore() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	scores, _ := store.AllScores("2048")
	if len(scores) != 8 {
		t.Errorf("AllScores() = %d, want 8", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.puzzlebox/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".puzzlebox", "test.db")); err != nil {
		t.Errorf("expected database under HOME: %v", err)
	}
}
