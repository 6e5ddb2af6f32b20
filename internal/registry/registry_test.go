package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/puzzlebox/internal/core"
)

type stubGame struct {
	id    string
	state core.GameState
}

func (g *stubGame) ID() string {
	return g.id
}

func (g *stubGame) Title() string {
	return strings.ToUpper(g.id)
}

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.state = core.GameState{}
}

func (g *stubGame) Step(core.InputFrame) core.StepResult {
	return core.StepResult{State: g.state}
}

func (g *stubGame) Render(*core.Screen) {}

func (g *stubGame) State() core.GameState {
	return g.state
}

type stubWithControls struct{ stubGame }

func (g *stubWithControls) Controls() string { return "Arrows: Move" }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", func() Game { return &stubGame{id: "zz-stub"} })

	if !Exists("zz-stub") {
		t.Fatal("zz-stub should be registered")
	}

	g, err := Create("zz-stub")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz-stub" {
		t.Errorf("ID = %q, want zz-stub", g.ID())
	}

	// Each call returns a fresh instance
	g2, _ := Create("zz-stub")
	if g == g2 {
		t.Error("Create should return a new game every call")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-game"); err == nil {
		t.Error("expected an error for an unknown game")
	}
	if Exists("no-such-game") {
		t.Error("Exists should be false for an unknown game")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("registering the same ID twice should panic")
		}
	}()
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })
}

func TestListSortedWithControls(t *testing.T) {
	Register("zz-b", func() Game { return &stubGame{id: "zz-b"} })
	Register("zz-a", func() Game { return &stubWithControls{stubGame{id: "zz-a"}} })

	games := List()
	for i := 1; i < len(games); i++ {
		if games[i-1].ID > games[i].ID {
			t.Fatalf("List not sorted: %q before %q", games[i-1].ID, games[i].ID)
		}
	}

	found := map[string]GameInfo{}
	for _, g := range games {
		found[g.ID] = g
	}
	if found["zz-a"].Title != "ZZ-A" || found["zz-a"].Controls != "Arrows: Move" {
		t.Errorf("zz-a info = %+v", found["zz-a"])
	}
	if found["zz-b"].Controls != "" {
		t.Errorf("zz-b should have no controls, got %q", found["zz-b"].Controls)
	}
}
